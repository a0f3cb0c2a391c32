package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"lasanalyzer/internal/config"
)

// GCSStore writes archived files to a Cloud Storage bucket.
type GCSStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewGCSStore connects to Cloud Storage. An empty credentialsFile falls back to
// application default credentials.
func NewGCSStore(ctx context.Context, bucket, credentialsFile, baseURL string, logger *slog.Logger) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, fmt.Errorf("service account key not found at path %s: %w", credentialsFile, err)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return newGCSStore(client, bucket, baseURL, logger), nil
}

func newGCSStore(client *storage.Client, bucket, baseURL string, logger *slog.Logger) *GCSStore {
	if baseURL == "" {
		baseURL = config.DefaultGCSPublicURL + "/" + bucket
	}
	return &GCSStore{client: client, bucket: bucket, baseURL: baseURL, logger: logger}
}

// Put uploads r as a new object.
func (s *GCSStore) Put(ctx context.Context, name string, r io.Reader) (Object, error) {
	key := objectKey(name)

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/octet-stream"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("failed to copy upload to GCS object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("failed to close GCS writer for %s: %w", key, err)
	}

	s.logger.InfoContext(ctx, "file archived",
		slog.String("bucket", s.bucket),
		slog.String("key", key),
	)
	return Object{Key: key, URL: joinURL(s.baseURL, key)}, nil
}

// Delete removes the object. A missing object is not an error.
func (s *GCSStore) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %s: %w", key, err)
	}
	return nil
}

// Close releases the client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
