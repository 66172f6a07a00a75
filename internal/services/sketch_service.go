package services

import (
	"fmt"

	"github.com/google/uuid"

	"sketch2photo-backend/internal/gan"
	"sketch2photo-backend/internal/logger"
	"sketch2photo-backend/internal/models"
)

// MaxSketchSize is the upload cap enforced before anything touches the
// network.
const MaxSketchSize = 5 * 1024 * 1024

// SketchStore is the row-persistence surface the lifecycle needs.
// *supabase.DatabaseClient satisfies it.
type SketchStore interface {
	CreateSketch(userID uuid.UUID, originalURL, storagePath, name string) (*models.Sketch, error)
	GetSketch(sketchID, userID uuid.UUID) (*models.Sketch, error)
	ListSketches(userID uuid.UUID) ([]models.Sketch, error)
	MarkProcessing(sketchID uuid.UUID) error
	CompleteSketch(sketchID uuid.UUID, processedURL string) error
	FailSketch(sketchID uuid.UUID, errorMsg string) error
	DeleteSketch(sketchID, userID uuid.UUID) error
}

// SketchObjectStore is the object-storage surface for the sketches
// bucket. *supabase.StorageClient satisfies it.
type SketchObjectStore interface {
	UploadSketch(userID uuid.UUID, filename string, data []byte, contentType string) (string, string, error)
	UploadProcessed(userID, sketchID uuid.UUID, data []byte) (string, string, error)
	DeleteFile(storagePath string) error
}

// Generator produces a photorealistic image from a sketch. *gan.Client
// satisfies it.
type Generator interface {
	Process(filename string, data []byte) (*gan.Result, error)
}

// SketchService drives a sketch through pending -> processing ->
// (completed | failed) and keeps the persisted record consistent with
// the generation outcome.
type SketchService struct {
	store     SketchStore
	objects   SketchObjectStore
	generator Generator
	log       *logger.Logger
}

func NewSketchService(store SketchStore, objects SketchObjectStore, generator Generator, log *logger.Logger) *SketchService {
	return &SketchService{
		store:     store,
		objects:   objects,
		generator: generator,
		log:       log,
	}
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// validateImageUpload applies the shared image constraints; sketches
// and avatars accept the same types and cap.
func validateImageUpload(contentType string, size int) error {
	if !allowedImageTypes[contentType] {
		return models.NewValidationError("Only JPEG, PNG and GIF images are supported")
	}
	if size > MaxSketchSize {
		return models.NewValidationError("Maximum file size is 5MB")
	}
	return nil
}

// Submit runs the whole pipeline for one new sketch. The steps commit
// independently, in order: upload original, insert pending row, mark
// processing, invoke the generator, store the result, mark completed.
// Whenever a step fails after the row exists, the row is marked failed
// before the error is returned, so a returning Submit always leaves the
// record in a terminal state. A crash mid-call can still strand a row
// at processing; there is no watchdog for that.
func (s *SketchService) Submit(userID uuid.UUID, filename, contentType, name string, data []byte) (*models.Sketch, error) {
	if err := validateImageUpload(contentType, len(data)); err != nil {
		return nil, err
	}

	storagePath, originalURL, err := s.objects.UploadSketch(userID, filename, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload sketch: %w", err)
	}

	sketch, err := s.store.CreateSketch(userID, originalURL, storagePath, name)
	if err != nil {
		return nil, fmt.Errorf("failed to save sketch record: %w", err)
	}

	s.log.Info("sketch submitted", "sketch_id", sketch.ID, "user_id", userID)

	if err := s.store.MarkProcessing(sketch.ID); err != nil {
		return sketch, s.fail(sketch, fmt.Errorf("failed to mark sketch processing: %w", err))
	}
	sketch.Status = models.StatusProcessing

	result, err := s.generator.Process(filename, data)
	if err != nil {
		return sketch, s.fail(sketch, fmt.Errorf("generation failed: %w", err))
	}

	_, processedURL, err := s.objects.UploadProcessed(userID, sketch.ID, result.ImageData)
	if err != nil {
		return sketch, s.fail(sketch, fmt.Errorf("failed to upload processed image: %w", err))
	}

	if err := s.store.CompleteSketch(sketch.ID, processedURL); err != nil {
		return sketch, s.fail(sketch, fmt.Errorf("failed to complete sketch: %w", err))
	}

	sketch.Status = models.StatusCompleted
	sketch.ProcessedURL.String = processedURL
	sketch.ProcessedURL.Valid = true

	s.log.Info("sketch completed", "sketch_id", sketch.ID)

	return sketch, nil
}

// fail moves the record to failed with the error recorded, then returns
// the original error. A FailSketch failure is logged, not propagated;
// the caller's error is the one that matters.
func (s *SketchService) fail(sketch *models.Sketch, cause error) error {
	s.log.Error("sketch failed", "sketch_id", sketch.ID, "error", cause)

	if err := s.store.FailSketch(sketch.ID, cause.Error()); err != nil {
		s.log.Error("failed to mark sketch failed", "sketch_id", sketch.ID, "error", err)
	} else {
		sketch.Status = models.StatusFailed
		sketch.ErrorMessage.String = cause.Error()
		sketch.ErrorMessage.Valid = true
	}

	return cause
}

// Get reads the current record state. No side effects; this is what
// polling consumers call.
func (s *SketchService) Get(sketchID, userID uuid.UUID) (*models.Sketch, error) {
	return s.store.GetSketch(sketchID, userID)
}

func (s *SketchService) List(userID uuid.UUID) ([]models.Sketch, error) {
	return s.store.ListSketches(userID)
}

// Remove deletes the stored object first and the row second. If the
// storage delete fails the row is left in place, so a row never points
// at a missing object; a row delete failure can orphan a stored object,
// which is the accepted trade-off of this ordering.
func (s *SketchService) Remove(sketchID, userID uuid.UUID) error {
	sketch, err := s.store.GetSketch(sketchID, userID)
	if err != nil {
		return err
	}

	if err := s.objects.DeleteFile(sketch.StoragePath); err != nil {
		return fmt.Errorf("failed to delete stored sketch: %w", err)
	}

	if err := s.store.DeleteSketch(sketchID, userID); err != nil {
		return err
	}

	s.log.Info("sketch removed", "sketch_id", sketchID, "user_id", userID)

	return nil
}
