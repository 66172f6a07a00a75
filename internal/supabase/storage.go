package supabase

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// StorageClient handles object storage for one bucket. The server holds
// two instances: the sketches bucket and the avatars bucket.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, anonKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", anonKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// UploadSketch stores an original sketch under <userID>/<name> with a
// randomized name so repeated uploads of the same file never collide.
func (s *StorageClient) UploadSketch(userID uuid.UUID, filename string, data []byte, contentType string) (string, string, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		ext = "png"
	}
	name := fmt.Sprintf("%s_%d.%s", uuid.NewString()[:13], time.Now().UnixMilli(), ext)
	storagePath := fmt.Sprintf("%s/%s", userID.String(), name)

	if err := s.upload(storagePath, data, contentType, false); err != nil {
		return "", "", fmt.Errorf("failed to upload sketch: %w", err)
	}

	return storagePath, s.PublicURL(storagePath), nil
}

// UploadProcessed stores a generated result under <userID>/processed/.
func (s *StorageClient) UploadProcessed(userID, sketchID uuid.UUID, data []byte) (string, string, error) {
	name := fmt.Sprintf("processed_%s_%d.png", sketchID.String(), time.Now().UnixMilli())
	storagePath := fmt.Sprintf("%s/processed/%s", userID.String(), name)

	if err := s.upload(storagePath, data, "image/png", false); err != nil {
		return "", "", fmt.Errorf("failed to upload processed image: %w", err)
	}

	return storagePath, s.PublicURL(storagePath), nil
}

// UploadAvatar stores a profile picture under <userID>/avatar_<ts>.<ext>,
// overwriting any object at the same path.
func (s *StorageClient) UploadAvatar(userID uuid.UUID, filename string, data []byte, contentType string) (string, string, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		ext = "png"
	}
	storagePath := fmt.Sprintf("%s/avatar_%d.%s", userID.String(), time.Now().UnixMilli(), ext)

	if err := s.upload(storagePath, data, contentType, true); err != nil {
		return "", "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return storagePath, s.PublicURL(storagePath), nil
}

func (s *StorageClient) upload(storagePath string, data []byte, contentType string, upsert bool) error {
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	return err
}

func (s *StorageClient) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}

func (s *StorageClient) DeleteFiles(storagePaths []string) error {
	if len(storagePaths) == 0 {
		return nil
	}
	_, err := s.client.RemoveFile(s.bucket, storagePaths)
	return err
}

func (s *StorageClient) DownloadFile(storagePath string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}
