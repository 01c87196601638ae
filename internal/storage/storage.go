package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"tagfeed/internal/config"
)

// PublicPrefix is the URL and image path prefix under which stored objects are served.
const PublicPrefix = "uploads"

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidName    = errors.New("invalid object name")
)

type ObjectInfo struct {
	Size        int64
	ContentType string
	ModTime     time.Time
}

type Object interface {
	io.ReadSeekCloser
}

type Storage interface {
	Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (Object, ObjectInfo, error)
}

// ValidateName accepts only flat file names, so objects cannot escape the
// storage root.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return ErrInvalidName
	}
	return nil
}

// PublicPath is the relative location recorded on a post for a stored object.
func PublicPath(name string) string {
	return PublicPrefix + "/" + name
}

func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal:
		return NewLocalStorage(cfg.UploadDir)
	case config.StorageMinIO:
		return NewMinIOClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
