package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sketch2photo-backend/internal/logger"
	"sketch2photo-backend/internal/models"
)

// ProfileStore is the profile persistence surface.
// *supabase.DatabaseClient satisfies it.
type ProfileStore interface {
	CreateProfile(userID uuid.UUID, email, fullName string) (*models.UserProfile, error)
	GetProfile(userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(userID uuid.UUID, update models.ProfileUpdate) (*models.UserProfile, error)
	IsUsernameTaken(username string, userID uuid.UUID) (bool, error)
	DeleteProfile(userID uuid.UUID) error
	SketchStoragePaths(userID uuid.UUID) ([]string, error)
	DeleteSketchesForUser(userID uuid.UUID) error
}

// AvatarObjectStore is the avatars bucket surface.
type AvatarObjectStore interface {
	UploadAvatar(userID uuid.UUID, filename string, data []byte, contentType string) (string, string, error)
}

// ObjectRemover deletes stored objects in bulk, used when an account
// goes away.
type ObjectRemover interface {
	DeleteFiles(storagePaths []string) error
}

// AuthGateway is the Supabase Auth surface. *supabase.AuthClient
// satisfies it.
type AuthGateway interface {
	SignUp(email, password, fullName string) (*models.AuthUser, error)
	SignIn(email, password string) (*models.Session, error)
	SignOut(accessToken string) error
	UpdatePassword(accessToken, newPassword string) error
}

// ProfileService owns session and profile management: signup/signin
// delegation, the idempotent profile-exists guarantee, and the single
// profile mutation entry point.
type ProfileService struct {
	store         ProfileStore
	avatars       AvatarObjectStore
	sketchObjects ObjectRemover
	auth          AuthGateway
	log           *logger.Logger
}

func NewProfileService(store ProfileStore, avatars AvatarObjectStore, sketchObjects ObjectRemover, auth AuthGateway, log *logger.Logger) *ProfileService {
	return &ProfileService{
		store:         store,
		avatars:       avatars,
		sketchObjects: sketchObjects,
		auth:          auth,
		log:           log,
	}
}

// SignUp creates the auth identity, then its profile row. Profile
// creation is idempotent, so a retried signup does not fail here.
func (s *ProfileService) SignUp(email, password, fullName string) (*models.UserProfile, error) {
	user, err := s.auth.SignUp(email, password, fullName)
	if err != nil {
		return nil, err
	}

	profile, err := s.EnsureProfile(user.ID, user.Email, fullName)
	if err != nil {
		return nil, fmt.Errorf("account created but profile setup failed: %w", err)
	}

	s.log.Info("user signed up", "user_id", user.ID)

	return profile, nil
}

func (s *ProfileService) SignIn(email, password string) (*models.Session, error) {
	return s.auth.SignIn(email, password)
}

func (s *ProfileService) SignOut(accessToken string) error {
	return s.auth.SignOut(accessToken)
}

// EnsureProfile guarantees a profile row exists for the identity.
// Called at signup and again as a self-heal when a fetch finds no row.
func (s *ProfileService) EnsureProfile(userID uuid.UUID, email, fullName string) (*models.UserProfile, error) {
	return s.store.CreateProfile(userID, email, fullName)
}

// GetProfile fetches the profile, creating it first if the row is
// missing for an authenticated identity.
func (s *ProfileService) GetProfile(userID uuid.UUID, email string) (*models.UserProfile, error) {
	profile, err := s.store.GetProfile(userID)
	if errors.Is(err, models.ErrNotFound) && email != "" {
		return s.EnsureProfile(userID, email, "")
	}
	return profile, err
}

// UpdateProfile revalidates username uniqueness before writing. A
// conflicting username mutates nothing.
func (s *ProfileService) UpdateProfile(userID uuid.UUID, update models.ProfileUpdate) (*models.UserProfile, error) {
	if update.Username != nil && *update.Username != "" {
		taken, err := s.store.IsUsernameTaken(*update.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConflictError("Username is already taken. Please choose a different one.")
		}
	}

	return s.store.UpdateProfile(userID, update)
}

// UploadAvatar stores the image and points the profile at it. The
// returned URL carries a timestamp query so stale browser caches do
// not keep showing the old picture.
func (s *ProfileService) UploadAvatar(userID uuid.UUID, filename, contentType string, data []byte) (string, error) {
	if err := validateImageUpload(contentType, len(data)); err != nil {
		return "", err
	}

	_, avatarURL, err := s.avatars.UploadAvatar(userID, filename, data, contentType)
	if err != nil {
		return "", err
	}

	if _, err := s.store.UpdateProfile(userID, models.ProfileUpdate{AvatarURL: &avatarURL}); err != nil {
		return "", fmt.Errorf("avatar stored but profile update failed: %w", err)
	}

	return fmt.Sprintf("%s?t=%d", avatarURL, time.Now().UnixMilli()), nil
}

// UpdatePassword re-authenticates with the current password before
// changing anything; a wrong current password leaves the credential
// untouched.
func (s *ProfileService) UpdatePassword(userID uuid.UUID, accessToken, currentPassword, newPassword string) error {
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		return err
	}

	if _, err := s.auth.SignIn(profile.Email, currentPassword); err != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}

	return s.auth.UpdatePassword(accessToken, newPassword)
}

// DeleteAccount removes the profile row, the user's sketch rows, and
// their stored objects. Deleting the auth identity itself needs the
// service role key and stays a platform-side operation.
func (s *ProfileService) DeleteAccount(userID uuid.UUID) error {
	paths, err := s.store.SketchStoragePaths(userID)
	if err != nil {
		return err
	}

	if err := s.sketchObjects.DeleteFiles(paths); err != nil {
		return fmt.Errorf("failed to delete stored sketches: %w", err)
	}

	if err := s.store.DeleteSketchesForUser(userID); err != nil {
		return err
	}

	if err := s.store.DeleteProfile(userID); err != nil {
		return err
	}

	s.log.Info("account deleted", "user_id", userID)

	return nil
}
