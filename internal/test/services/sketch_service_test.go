package services_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketch2photo-backend/internal/gan"
	"sketch2photo-backend/internal/logger"
	"sketch2photo-backend/internal/models"
	"sketch2photo-backend/internal/services"
)

func newSketchService(store *fakeSketchStore, objects *fakeObjectStore, generator *fakeGenerator) *services.SketchService {
	return services.NewSketchService(store, objects, generator, logger.NewNop())
}

func TestSubmit_Success(t *testing.T) {
	store := newFakeSketchStore()
	objects := &fakeObjectStore{}
	generator := &fakeGenerator{result: &gan.Result{ImageData: []byte("generated")}}
	svc := newSketchService(store, objects, generator)

	userID := uuid.New()
	sketch, err := svc.Submit(userID, "cat.png", "image/png", "My Cat", []byte("sketch-bytes"))

	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, sketch.Status)
	assert.True(t, sketch.ProcessedURL.Valid)
	assert.Equal(t, "My Cat", sketch.Prompt.String)
	assert.Equal(t, 1, generator.calls)

	// The persisted row agrees with the returned value.
	stored, err := store.GetSketch(sketch.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.True(t, stored.ProcessedURL.Valid)
	assert.NotEmpty(t, stored.OriginalURL)
}

func TestSubmit_GenerationFails(t *testing.T) {
	store := newFakeSketchStore()
	objects := &fakeObjectStore{}
	generator := &fakeGenerator{err: errors.New("Failed to process the sketch")}
	svc := newSketchService(store, objects, generator)

	userID := uuid.New()
	sketch, err := svc.Submit(userID, "cat.png", "image/png", "My Cat", []byte("sketch-bytes"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to process the sketch")
	require.NotNil(t, sketch)

	stored, getErr := store.GetSketch(sketch.ID, userID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusFailed, stored.Status)
	assert.False(t, stored.ProcessedURL.Valid)
	assert.True(t, stored.ErrorMessage.Valid)
}

func TestSubmit_MarkProcessingFails_RowEndsFailed(t *testing.T) {
	store := newFakeSketchStore()
	store.markErr = errors.New("connection reset")
	objects := &fakeObjectStore{}
	generator := &fakeGenerator{result: &gan.Result{ImageData: []byte("generated")}}
	svc := newSketchService(store, objects, generator)

	userID := uuid.New()
	sketch, err := svc.Submit(userID, "cat.png", "image/png", "", []byte("sketch-bytes"))

	require.Error(t, err)
	require.NotNil(t, sketch)
	assert.Zero(t, generator.calls)

	// The row fails straight from pending; Submit never returns with a
	// non-terminal record.
	stored, getErr := store.GetSketch(sketch.ID, userID)
	require.NoError(t, getErr)
	assert.True(t, stored.Status.Terminal())
	assert.Equal(t, models.StatusFailed, stored.Status)
	assert.True(t, stored.ErrorMessage.Valid)
}

func TestSubmit_ProcessedUploadFails(t *testing.T) {
	store := newFakeSketchStore()
	objects := &fakeObjectStore{processedErr: errors.New("bucket unavailable")}
	generator := &fakeGenerator{result: &gan.Result{ImageData: []byte("generated")}}
	svc := newSketchService(store, objects, generator)

	userID := uuid.New()
	sketch, err := svc.Submit(userID, "cat.png", "image/png", "", []byte("sketch-bytes"))

	require.Error(t, err)
	require.NotNil(t, sketch)

	stored, getErr := store.GetSketch(sketch.ID, userID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusFailed, stored.Status)
	assert.False(t, stored.ProcessedURL.Valid)
}

func TestSubmit_RejectsOversizedFile(t *testing.T) {
	store := newFakeSketchStore()
	objects := &fakeObjectStore{}
	generator := &fakeGenerator{}
	svc := newSketchService(store, objects, generator)

	data := make([]byte, services.MaxSketchSize+1)
	_, err := svc.Submit(uuid.New(), "big.png", "image/png", "", data)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
	assert.Equal(t, "Maximum file size is 5MB", err.Error())

	// Nothing was uploaded and no record was created.
	assert.Empty(t, objects.uploads)
	assert.Empty(t, store.sketches)
	assert.Zero(t, generator.calls)
}

func TestSubmit_RejectsUnsupportedType(t *testing.T) {
	svc := newSketchService(newFakeSketchStore(), &fakeObjectStore{}, &fakeGenerator{})

	_, err := svc.Submit(uuid.New(), "doc.pdf", "application/pdf", "", []byte("%PDF"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestSubmit_OriginalUploadFails_NoRecord(t *testing.T) {
	store := newFakeSketchStore()
	objects := &fakeObjectStore{uploadErr: errors.New("storage down")}
	svc := newSketchService(store, objects, &fakeGenerator{})

	sketch, err := svc.Submit(uuid.New(), "cat.png", "image/png", "", []byte("sketch-bytes"))

	require.Error(t, err)
	assert.Nil(t, sketch)
	assert.Empty(t, store.sketches)
}

func TestRemove_DeletesObjectThenRow(t *testing.T) {
	store := newFakeSketchStore()
	objects := &fakeObjectStore{}
	svc := newSketchService(store, objects, &fakeGenerator{})

	userID := uuid.New()
	sketch, err := store.CreateSketch(userID, "https://x/orig.png", userID.String()+"/orig.png", "")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(sketch.ID, userID))
	assert.Equal(t, []string{sketch.StoragePath}, objects.deleted)
	assert.Empty(t, store.sketches)
}

func TestRemove_StorageFailureKeepsRow(t *testing.T) {
	store := newFakeSketchStore()
	objects := &fakeObjectStore{deleteErr: errors.New("object already gone")}
	svc := newSketchService(store, objects, &fakeGenerator{})

	userID := uuid.New()
	sketch, err := store.CreateSketch(userID, "https://x/orig.png", userID.String()+"/orig.png", "")
	require.NoError(t, err)

	err = svc.Remove(sketch.ID, userID)
	require.Error(t, err)

	// Row survives: no half-deleted state.
	_, getErr := store.GetSketch(sketch.ID, userID)
	assert.NoError(t, getErr)
}

func TestRemove_UnknownSketch(t *testing.T) {
	svc := newSketchService(newFakeSketchStore(), &fakeObjectStore{}, &fakeGenerator{})

	err := svc.Remove(uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
