package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketch2photo-backend/internal/logger"
	"sketch2photo-backend/internal/models"
	"sketch2photo-backend/internal/services"
)

type fakeProfileStore struct {
	profiles      map[uuid.UUID]*models.UserProfile
	takenUsername string
	updateCalls   int
	createCalls   int

	sketchPaths    []string
	sketchesWiped  bool
	profileDeleted bool
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uuid.UUID]*models.UserProfile)}
}

func (f *fakeProfileStore) CreateProfile(userID uuid.UUID, email, fullName string) (*models.UserProfile, error) {
	f.createCalls++
	if p, ok := f.profiles[userID]; ok {
		copy := *p
		return &copy, nil
	}
	p := &models.UserProfile{
		ID:        userID,
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if fullName != "" {
		p.FullName.String = fullName
		p.FullName.Valid = true
	}
	f.profiles[userID] = p
	copy := *p
	return &copy, nil
}

func (f *fakeProfileStore) GetProfile(userID uuid.UUID) (*models.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, models.ErrNotFound)
	}
	copy := *p
	return &copy, nil
}

func (f *fakeProfileStore) UpdateProfile(userID uuid.UUID, update models.ProfileUpdate) (*models.UserProfile, error) {
	f.updateCalls++
	p, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, models.ErrNotFound)
	}
	if update.Username != nil {
		p.Username.String = *update.Username
		p.Username.Valid = true
	}
	if update.FullName != nil {
		p.FullName.String = *update.FullName
		p.FullName.Valid = true
	}
	if update.Bio != nil {
		p.Bio.String = *update.Bio
		p.Bio.Valid = true
	}
	if update.AvatarURL != nil {
		p.AvatarURL.String = *update.AvatarURL
		p.AvatarURL.Valid = true
	}
	p.UpdatedAt = time.Now()
	copy := *p
	return &copy, nil
}

func (f *fakeProfileStore) IsUsernameTaken(username string, userID uuid.UUID) (bool, error) {
	return username != "" && username == f.takenUsername, nil
}

func (f *fakeProfileStore) DeleteProfile(userID uuid.UUID) error {
	delete(f.profiles, userID)
	f.profileDeleted = true
	return nil
}

func (f *fakeProfileStore) SketchStoragePaths(userID uuid.UUID) ([]string, error) {
	return f.sketchPaths, nil
}

func (f *fakeProfileStore) DeleteSketchesForUser(userID uuid.UUID) error {
	f.sketchesWiped = true
	return nil
}

type fakeAvatarStore struct {
	uploadErr error
}

func (f *fakeAvatarStore) UploadAvatar(userID uuid.UUID, filename string, data []byte, contentType string) (string, string, error) {
	if f.uploadErr != nil {
		return "", "", f.uploadErr
	}
	path := userID.String() + "/" + filename
	return path, "https://storage.example/avatars/" + path, nil
}

type fakeAuth struct {
	user *models.AuthUser

	signInErr           error
	signInCalls         int
	updatePasswordCalls int
	signedOutToken      string
}

func (f *fakeAuth) SignUp(email, password, fullName string) (*models.AuthUser, error) {
	if f.user == nil {
		f.user = &models.AuthUser{ID: uuid.New(), Email: email}
	}
	return f.user, nil
}

func (f *fakeAuth) SignIn(email, password string) (*models.Session, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &models.Session{AccessToken: "token", UserID: f.user.ID, Email: email}, nil
}

func (f *fakeAuth) SignOut(accessToken string) error {
	f.signedOutToken = accessToken
	return nil
}

func (f *fakeAuth) UpdatePassword(accessToken, newPassword string) error {
	f.updatePasswordCalls++
	return nil
}

func newProfileService(store *fakeProfileStore, auth *fakeAuth) (*services.ProfileService, *fakeObjectStore) {
	objects := &fakeObjectStore{}
	return services.NewProfileService(store, &fakeAvatarStore{}, objects, auth, logger.NewNop()), objects
}

func TestSignUp_CreatesProfile(t *testing.T) {
	store := newFakeProfileStore()
	auth := &fakeAuth{}
	svc, _ := newProfileService(store, auth)

	profile, err := svc.SignUp("new@example.com", "password", "New User")

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", profile.Email)
	assert.Equal(t, "New User", profile.FullName.String)
	assert.Len(t, store.profiles, 1)
}

func TestEnsureProfile_Idempotent(t *testing.T) {
	store := newFakeProfileStore()
	svc, _ := newProfileService(store, &fakeAuth{})

	userID := uuid.New()
	first, err := svc.EnsureProfile(userID, "user@example.com", "User")
	require.NoError(t, err)

	second, err := svc.EnsureProfile(userID, "user@example.com", "User")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.profiles, 1)
}

func TestGetProfile_SelfHealsMissingRow(t *testing.T) {
	store := newFakeProfileStore()
	svc, _ := newProfileService(store, &fakeAuth{})

	userID := uuid.New()
	profile, err := svc.GetProfile(userID, "user@example.com")

	require.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "user@example.com", profile.Email)
	assert.Equal(t, 1, store.createCalls)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	store := newFakeProfileStore()
	store.takenUsername = "alice"
	svc, _ := newProfileService(store, &fakeAuth{})

	userID := uuid.New()
	_, err := store.CreateProfile(userID, "user@example.com", "")
	require.NoError(t, err)
	store.updateCalls = 0

	alice := "alice"
	_, err = svc.UpdateProfile(userID, models.ProfileUpdate{Username: &alice})

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConflict))
	assert.Contains(t, err.Error(), "Username is already taken")
	// Nothing was written.
	assert.Zero(t, store.updateCalls)
}

func TestUpdateProfile_Success(t *testing.T) {
	store := newFakeProfileStore()
	svc, _ := newProfileService(store, &fakeAuth{})

	userID := uuid.New()
	_, err := store.CreateProfile(userID, "user@example.com", "")
	require.NoError(t, err)

	bob := "bob"
	bio := "draws cats"
	profile, err := svc.UpdateProfile(userID, models.ProfileUpdate{Username: &bob, Bio: &bio})

	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username.String)
	assert.Equal(t, "draws cats", profile.Bio.String)
}

func TestUpdatePassword_WrongCurrentPassword(t *testing.T) {
	store := newFakeProfileStore()
	auth := &fakeAuth{user: &models.AuthUser{ID: uuid.New(), Email: "user@example.com"}}
	auth.signInErr = errors.New("invalid credentials")
	svc, _ := newProfileService(store, auth)

	userID := auth.user.ID
	_, err := store.CreateProfile(userID, "user@example.com", "")
	require.NoError(t, err)

	err = svc.UpdatePassword(userID, "token", "wrong-password", "new-password")

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
	assert.Equal(t, "Current password is incorrect", err.Error())
	// The credential was never touched.
	assert.Zero(t, auth.updatePasswordCalls)
}

func TestUpdatePassword_Success(t *testing.T) {
	store := newFakeProfileStore()
	auth := &fakeAuth{user: &models.AuthUser{ID: uuid.New(), Email: "user@example.com"}}
	svc, _ := newProfileService(store, auth)

	userID := auth.user.ID
	_, err := store.CreateProfile(userID, "user@example.com", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(userID, "token", "current", "next"))
	assert.Equal(t, 1, auth.signInCalls)
	assert.Equal(t, 1, auth.updatePasswordCalls)
}

func TestUploadAvatar_UpdatesProfileAndBustsCache(t *testing.T) {
	store := newFakeProfileStore()
	svc, _ := newProfileService(store, &fakeAuth{})

	userID := uuid.New()
	_, err := store.CreateProfile(userID, "user@example.com", "")
	require.NoError(t, err)

	url, err := svc.UploadAvatar(userID, "me.png", "image/png", []byte("avatar-bytes"))

	require.NoError(t, err)
	assert.Contains(t, url, "?t=")

	profile, err := store.GetProfile(userID)
	require.NoError(t, err)
	assert.True(t, profile.AvatarURL.Valid)
	assert.NotContains(t, profile.AvatarURL.String, "?t=")
}

func TestUploadAvatar_RejectsNonImage(t *testing.T) {
	store := newFakeProfileStore()
	svc, _ := newProfileService(store, &fakeAuth{})

	userID := uuid.New()
	_, err := store.CreateProfile(userID, "user@example.com", "")
	require.NoError(t, err)
	store.updateCalls = 0

	_, err = svc.UploadAvatar(userID, "resume.pdf", "application/pdf", []byte("%PDF"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
	assert.Equal(t, "Only JPEG, PNG and GIF images are supported", err.Error())
	assert.Zero(t, store.updateCalls)
}

func TestDeleteAccount_RemovesRowsAndObjects(t *testing.T) {
	store := newFakeProfileStore()
	store.sketchPaths = []string{"u/one.png", "u/two.png"}
	svc, objects := newProfileService(store, &fakeAuth{})

	userID := uuid.New()
	_, err := store.CreateProfile(userID, "user@example.com", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(userID))
	assert.Equal(t, []string{"u/one.png", "u/two.png"}, objects.deleted)
	assert.True(t, store.sketchesWiped)
	assert.True(t, store.profileDeleted)
}
