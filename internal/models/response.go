package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type SketchResponse struct {
	ID           string    `json:"sketch_id"`
	Name         string    `json:"name,omitempty"`
	OriginalURL  string    `json:"original_url"`
	ProcessedURL string    `json:"processed_url,omitempty"`
	Status       Status    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type SketchListResponse struct {
	Sketches []SketchResponse `json:"sketches"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

// NewSketchResponse flattens the nullable columns for the wire.
func NewSketchResponse(s *Sketch) SketchResponse {
	resp := SketchResponse{
		ID:          s.ID.String(),
		OriginalURL: s.OriginalURL,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
	}
	if s.Prompt.Valid {
		resp.Name = s.Prompt.String
	}
	if s.ProcessedURL.Valid {
		resp.ProcessedURL = s.ProcessedURL.String
	}
	if s.ErrorMessage.Valid {
		resp.ErrorMessage = s.ErrorMessage.String
	}
	return resp
}

// NewProfileResponse flattens the nullable columns for the wire.
func NewProfileResponse(p *UserProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:        p.ID.String(),
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Username.Valid {
		resp.Username = p.Username.String
	}
	if p.FullName.Valid {
		resp.FullName = p.FullName.String
	}
	if p.Bio.Valid {
		resp.Bio = p.Bio.String
	}
	if p.AvatarURL.Valid {
		resp.AvatarURL = p.AvatarURL.String
	}
	return resp
}
