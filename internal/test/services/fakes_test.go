package services_test

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"sketch2photo-backend/internal/gan"
	"sketch2photo-backend/internal/models"
)

// fakeSketchStore keeps rows in memory and applies the same transition
// rules the real store enforces with guarded UPDATEs. Guarded by a
// mutex because watcher tests poll from another goroutine.
type fakeSketchStore struct {
	mu       sync.Mutex
	sketches map[uuid.UUID]*models.Sketch
	getCalls int

	createErr   error
	markErr     error
	completeErr error
	failErr     error
	deleteErr   error
}

func newFakeSketchStore() *fakeSketchStore {
	return &fakeSketchStore{sketches: make(map[uuid.UUID]*models.Sketch)}
}

func (f *fakeSketchStore) CreateSketch(userID uuid.UUID, originalURL, storagePath, name string) (*models.Sketch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	s := &models.Sketch{
		ID:          uuid.New(),
		UserID:      userID,
		OriginalURL: originalURL,
		StoragePath: storagePath,
		Status:      models.StatusPending,
		Prompt:      sql.NullString{String: name, Valid: name != ""},
		CreatedAt:   time.Now(),
	}
	f.sketches[s.ID] = s
	copy := *s
	return &copy, nil
}

func (f *fakeSketchStore) GetSketch(sketchID, userID uuid.UUID) (*models.Sketch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	s, ok := f.sketches[sketchID]
	if !ok || s.UserID != userID {
		return nil, fmt.Errorf("sketch %s: %w", sketchID, models.ErrNotFound)
	}
	copy := *s
	return &copy, nil
}

func (f *fakeSketchStore) ListSketches(userID uuid.UUID) ([]models.Sketch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Sketch
	for _, s := range f.sketches {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSketchStore) transition(sketchID uuid.UUID, to models.Status) error {
	s, ok := f.sketches[sketchID]
	if !ok {
		return fmt.Errorf("sketch %s: %w", sketchID, models.ErrNotFound)
	}
	if !s.Status.CanTransition(to) {
		return fmt.Errorf("sketch %s is %s: %w", sketchID, s.Status, models.ErrInvalidTransition)
	}
	s.Status = to
	return nil
}

func (f *fakeSketchStore) MarkProcessing(sketchID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	return f.transition(sketchID, models.StatusProcessing)
}

func (f *fakeSketchStore) CompleteSketch(sketchID uuid.UUID, processedURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	if err := f.transition(sketchID, models.StatusCompleted); err != nil {
		return err
	}
	f.sketches[sketchID].ProcessedURL = sql.NullString{String: processedURL, Valid: true}
	return nil
}

func (f *fakeSketchStore) FailSketch(sketchID uuid.UUID, errorMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	if err := f.transition(sketchID, models.StatusFailed); err != nil {
		return err
	}
	f.sketches[sketchID].ErrorMessage = sql.NullString{String: errorMsg, Valid: true}
	return nil
}

func (f *fakeSketchStore) DeleteSketch(sketchID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	s, ok := f.sketches[sketchID]
	if !ok || s.UserID != userID {
		return fmt.Errorf("sketch %s: %w", sketchID, models.ErrNotFound)
	}
	delete(f.sketches, sketchID)
	return nil
}

type fakeObjectStore struct {
	uploads      []string
	deleted      []string
	uploadErr    error
	processedErr error
	deleteErr    error
}

func (f *fakeObjectStore) UploadSketch(userID uuid.UUID, filename string, data []byte, contentType string) (string, string, error) {
	if f.uploadErr != nil {
		return "", "", f.uploadErr
	}
	path := userID.String() + "/" + filename
	f.uploads = append(f.uploads, path)
	return path, "https://storage.example/sketches/" + path, nil
}

func (f *fakeObjectStore) UploadProcessed(userID, sketchID uuid.UUID, data []byte) (string, string, error) {
	if f.processedErr != nil {
		return "", "", f.processedErr
	}
	path := userID.String() + "/processed/" + sketchID.String() + ".png"
	f.uploads = append(f.uploads, path)
	return path, "https://storage.example/sketches/" + path, nil
}

func (f *fakeObjectStore) DeleteFile(storagePath string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, storagePath)
	return nil
}

func (f *fakeObjectStore) DeleteFiles(storagePaths []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, storagePaths...)
	return nil
}

type fakeGenerator struct {
	result *gan.Result
	err    error
	calls  int
}

func (f *fakeGenerator) Process(filename string, data []byte) (*gan.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
