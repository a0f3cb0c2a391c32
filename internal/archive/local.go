package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
)

// LocalStore writes archived files under a directory.
type LocalStore struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

// NewLocalStore creates dir if needed. When baseURL is empty, object URLs are file:// URLs.
func NewLocalStore(dir, baseURL string, logger *slog.Logger) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve archive dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &LocalStore{dir: abs, baseURL: baseURL, logger: logger}, nil
}

// Put writes r to a new file named after name.
func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	key := objectKey(name)
	path := filepath.Join(s.dir, key)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("create archive file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return Object{}, fmt.Errorf("write archive file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return Object{}, fmt.Errorf("close archive file: %w", err)
	}

	s.logger.DebugContext(ctx, "file archived", slog.String("key", key), slog.String("path", path))
	return Object{Key: key, URL: s.url(key, path)}, nil
}

// Delete removes the file for key. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete archive file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *LocalStore) Close() error { return nil }

func (s *LocalStore) url(key, path string) string {
	if s.baseURL != "" {
		return joinURL(s.baseURL, url.PathEscape(key))
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
