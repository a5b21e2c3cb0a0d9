package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"listinghub-go/internal/client/clienterr"
)

// ObjectStorage is the binary store the pipeline uploads into. Keys follow
// the products/{uid}/{timestamp}_{filename} scheme; DownloadURL returns a
// durable retrieval URL for a previously uploaded key.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	DownloadURL(ctx context.Context, key string) (string, error)
}

const signedURLTTL = 7 * 24 * time.Hour

type bucketStorage struct {
	bucket *storage.BucketHandle
}

// NewBucketStorage wraps a Cloud Storage bucket handle as an ObjectStorage.
func NewBucketStorage(bucket *storage.BucketHandle) ObjectStorage {
	return &bucketStorage{bucket: bucket}
}

func (s *bucketStorage) Upload(ctx context.Context, key, contentType string, data []byte) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return mapStorageError(err)
	}
	if err := w.Close(); err != nil {
		return mapStorageError(err)
	}
	return nil
}

func (s *bucketStorage) DownloadURL(ctx context.Context, key string) (string, error) {
	u, err := s.bucket.SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(signedURLTTL),
	})
	if err != nil {
		return "", mapStorageError(err)
	}
	return u, nil
}

// mapStorageError distinguishes permission rejections from transport
// failures, so the caller can tell "not allowed" from "try again".
func mapStorageError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 403 {
		return &clienterr.AuthorizationError{Reason: "storage permission denied: " + apiErr.Message}
	}
	return fmt.Errorf("storage operation failed: %w", err)
}
