package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UserProfile mirrors the user_profiles table. ID equals the Supabase
// auth user id, one row per identity.
type UserProfile struct {
	ID        uuid.UUID
	Username  sql.NullString
	FullName  sql.NullString
	Bio       sql.NullString
	AvatarURL sql.NullString
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileUpdate carries the mutable profile fields. Nil means "leave
// unchanged"; the update RPC preserves existing values for nil args.
type ProfileUpdate struct {
	Username  *string
	FullName  *string
	Bio       *string
	AvatarURL *string
}

// AuthUser is the slice of the Supabase auth identity this backend
// cares about.
type AuthUser struct {
	ID    uuid.UUID
	Email string
}

// Session is an issued Supabase session, passed back to the browser.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	UserID       uuid.UUID
	Email        string
}
