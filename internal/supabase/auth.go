package supabase

import (
	"fmt"

	"github.com/supabase-community/gotrue-go/types"

	"sketch2photo-backend/internal/models"
)

// AuthClient delegates identity operations to Supabase Auth (GoTrue).
// Session issuance and credential storage stay entirely on the
// platform; this backend only forwards and verifies.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

func (a *AuthClient) SignUp(email, password, fullName string) (*models.AuthUser, error) {
	resp, err := a.client.Supabase.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"full_name": fullName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	return &models.AuthUser{
		ID:    resp.ID,
		Email: resp.Email,
	}, nil
}

func (a *AuthClient) SignIn(email, password string) (*models.Session, error) {
	session, err := a.client.Supabase.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", models.ErrUnauthorized)
	}

	return &models.Session{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    int(session.ExpiresIn),
		UserID:       session.User.ID,
		Email:        session.User.Email,
	}, nil
}

func (a *AuthClient) SignOut(accessToken string) error {
	if err := a.client.Supabase.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

func (a *AuthClient) UpdatePassword(accessToken, newPassword string) error {
	_, err := a.client.Supabase.Auth.WithToken(accessToken).UpdateUser(types.UpdateUserRequest{
		Password: &newPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
