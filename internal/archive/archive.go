// Package archive keeps the original uploaded LAS files, either in a Google Cloud Storage
// bucket or in a local directory.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"lasanalyzer/internal/config"
)

// ErrInvalidKey is returned for keys that would escape the archive.
var ErrInvalidKey = errors.New("archive: invalid object key")

// Object identifies an archived file.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store archives uploaded files.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) (Object, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	logger = logger.With(slog.String("component", "archive"))

	switch cfg.Backend {
	case config.BackendLocal, "":
		dir := cfg.LocalDir
		if dir == "" {
			dir = config.DefaultArchiveDir
		}
		return NewLocalStore(dir, cfg.PublicBaseURL, logger)
	case config.BackendGCS:
		return NewGCSStore(ctx, cfg.Bucket, cfg.CredentialsFile, cfg.PublicBaseURL, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", cfg.Backend)
	}
}

// objectKey returns "<uuid>-<base name>" with separators and blanks replaced.
func objectKey(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload.las"
	}
	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ', r == '/', r == ':':
			return '_'
		case r < 0x20:
			return -1
		}
		return r
	}, base)
	return uuid.NewString() + "-" + base
}

func validKey(key string) bool {
	return key != "" && !strings.Contains(key, "..") && !strings.ContainsAny(key, `/\`)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
