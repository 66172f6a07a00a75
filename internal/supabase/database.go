package supabase

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sketch2photo-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// mapError translates driver errors into the shared sentinel kinds so
// callers can test with errors.Is instead of string matching.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

const sketchColumns = "id, user_id, original_url, storage_path, processed_url, status, prompt, error_message, created_at"

func scanSketch(row interface{ Scan(...interface{}) error }) (*models.Sketch, error) {
	var s models.Sketch
	err := row.Scan(
		&s.ID, &s.UserID, &s.OriginalURL, &s.StoragePath,
		&s.ProcessedURL, &s.Status, &s.Prompt, &s.ErrorMessage, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSketch inserts a new record. Every sketch starts out pending;
// original_url and storage_path are set here and never mutated.
func (d *DatabaseClient) CreateSketch(userID uuid.UUID, originalURL, storagePath, name string) (*models.Sketch, error) {
	prompt := sql.NullString{String: name, Valid: name != ""}

	sketch, err := scanSketch(d.db.QueryRow(`
		INSERT INTO sketches (user_id, original_url, storage_path, status, prompt)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+sketchColumns+`
	`, userID, originalURL, storagePath, models.StatusPending, prompt))
	if err != nil {
		return nil, mapError("failed to create sketch", err)
	}

	return sketch, nil
}

func (d *DatabaseClient) GetSketch(sketchID, userID uuid.UUID) (*models.Sketch, error) {
	sketch, err := scanSketch(d.db.QueryRow(`
		SELECT `+sketchColumns+`
		FROM sketches
		WHERE id = $1 AND user_id = $2
	`, sketchID, userID))
	if err != nil {
		return nil, mapError("failed to get sketch", err)
	}

	return sketch, nil
}

func (d *DatabaseClient) ListSketches(userID uuid.UUID) ([]models.Sketch, error) {
	rows, err := d.db.Query(`
		SELECT `+sketchColumns+`
		FROM sketches
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, mapError("failed to list sketches", err)
	}
	defer rows.Close()

	var sketches []models.Sketch
	for rows.Next() {
		sketch, err := scanSketch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sketch: %w", err)
		}
		sketches = append(sketches, *sketch)
	}

	return sketches, rows.Err()
}

// MarkProcessing moves a pending sketch to processing. Any other
// starting state is an invalid transition.
func (d *DatabaseClient) MarkProcessing(sketchID uuid.UUID) error {
	return d.transition(sketchID, models.StatusPending, `
		UPDATE sketches
		SET status = $1
		WHERE id = $2 AND status = $3
	`, models.StatusProcessing, sketchID, models.StatusPending)
}

// CompleteSketch sets processed_url and the completed status in one
// statement, so a completed row always carries its result URL.
func (d *DatabaseClient) CompleteSketch(sketchID uuid.UUID, processedURL string) error {
	return d.transition(sketchID, models.StatusProcessing, `
		UPDATE sketches
		SET status = $1, processed_url = $2
		WHERE id = $3 AND status = $4
	`, models.StatusCompleted, processedURL, sketchID, models.StatusProcessing)
}

// FailSketch moves a sketch to failed from either non-terminal state,
// so a submission that dies before processing starts still ends
// terminal.
func (d *DatabaseClient) FailSketch(sketchID uuid.UUID, errorMsg string) error {
	res, err := d.db.Exec(`
		UPDATE sketches
		SET status = $1, error_message = $2
		WHERE id = $3 AND status IN ($4, $5)
	`, models.StatusFailed, errorMsg, sketchID, models.StatusPending, models.StatusProcessing)
	if err != nil {
		return mapError("failed to update sketch status", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update sketch status: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var current models.Status
	err = d.db.QueryRow(`SELECT status FROM sketches WHERE id = $1`, sketchID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sketch %s: %w", sketchID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read sketch status: %w", err)
	}
	return fmt.Errorf("sketch %s is already %s: %w", sketchID, current, models.ErrInvalidTransition)
}

// transition runs a guarded status update. The WHERE clause pins the
// expected current status; zero rows affected means the record is gone
// or the requested move is not a legal lifecycle step.
func (d *DatabaseClient) transition(sketchID uuid.UUID, from models.Status, query string, args ...interface{}) error {
	res, err := d.db.Exec(query, args...)
	if err != nil {
		return mapError("failed to update sketch status", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update sketch status: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var current models.Status
	err = d.db.QueryRow(`SELECT status FROM sketches WHERE id = $1`, sketchID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sketch %s: %w", sketchID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read sketch status: %w", err)
	}
	return fmt.Errorf("sketch %s is %s, expected %s: %w", sketchID, current, from, models.ErrInvalidTransition)
}

func (d *DatabaseClient) DeleteSketch(sketchID, userID uuid.UUID) error {
	res, err := d.db.Exec(`
		DELETE FROM sketches
		WHERE id = $1 AND user_id = $2
	`, sketchID, userID)
	if err != nil {
		return mapError("failed to delete sketch", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("sketch %s: %w", sketchID, models.ErrNotFound)
	}
	return nil
}

// SketchStoragePaths returns the storage paths of every sketch a user
// owns, used when the account is deleted.
func (d *DatabaseClient) SketchStoragePaths(userID uuid.UUID) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT storage_path FROM sketches WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, mapError("failed to list sketch paths", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan sketch path: %w", err)
		}
		paths = append(paths, p)
	}

	return paths, rows.Err()
}

func (d *DatabaseClient) DeleteSketchesForUser(userID uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM sketches WHERE user_id = $1`, userID)
	if err != nil {
		return mapError("failed to delete sketches", err)
	}
	return nil
}

const profileColumns = "id, username, full_name, bio, avatar_url, email, created_at, updated_at"

func scanProfile(row interface{ Scan(...interface{}) error }) (*models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(
		&p.ID, &p.Username, &p.FullName, &p.Bio,
		&p.AvatarURL, &p.Email, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts a profile row for an auth identity. The insert
// is idempotent: an existing row is left untouched and returned.
func (d *DatabaseClient) CreateProfile(userID uuid.UUID, email, fullName string) (*models.UserProfile, error) {
	name := sql.NullString{String: fullName, Valid: fullName != ""}

	_, err := d.db.Exec(`
		INSERT INTO user_profiles (id, email, full_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, userID, email, name)
	if err != nil {
		return nil, mapError("failed to create profile", err)
	}

	return d.GetProfile(userID)
}

// GetProfile reads through the get_user_profile database function, the
// same RPC the platform exposes to clients.
func (d *DatabaseClient) GetProfile(userID uuid.UUID) (*models.UserProfile, error) {
	profile, err := scanProfile(d.db.QueryRow(`
		SELECT `+profileColumns+` FROM get_user_profile($1)
	`, userID))
	if err != nil {
		return nil, mapError("failed to get profile", err)
	}

	return profile, nil
}

// UpdateProfile goes through the update_user_profile database function.
// NULL arguments preserve the current column values.
func (d *DatabaseClient) UpdateProfile(userID uuid.UUID, update models.ProfileUpdate) (*models.UserProfile, error) {
	profile, err := scanProfile(d.db.QueryRow(`
		SELECT `+profileColumns+` FROM update_user_profile($1, $2, $3, $4, $5)
	`, userID, update.Username, update.FullName, update.Bio, update.AvatarURL))
	if err != nil {
		return nil, mapError("failed to update profile", err)
	}

	return profile, nil
}

// IsUsernameTaken reports whether another identity already holds the
// username. Empty usernames are never considered taken.
func (d *DatabaseClient) IsUsernameTaken(username string, userID uuid.UUID) (bool, error) {
	if username == "" {
		return false, nil
	}

	var taken bool
	err := d.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM user_profiles
			WHERE username = $1 AND id <> $2
		)
	`, username, userID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return taken, nil
}

func (d *DatabaseClient) DeleteProfile(userID uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM user_profiles WHERE id = $1`, userID)
	if err != nil {
		return mapError("failed to delete profile", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
