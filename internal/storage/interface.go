package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid storage key")

// ImageStore defines the interface for property image backends
// (local filesystem or MinIO/S3 compatible object storage)
type ImageStore interface {
	// Put stores the object under key
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// URL returns a browser-usable URL for key
	URL(ctx context.Context, key string) (string, error)

	// Delete removes the object; a missing object is not an error
	Delete(ctx context.Context, key string) error
}

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// NewImageKey returns a fresh key under prefix, keeping a sensible extension.
func NewImageKey(prefix, filename, contentType string) string {
	ext, ok := extByContentType[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	return path.Join(prefix, uuid.NewString()+ext)
}

// cleanKey rejects absolute keys and keys escaping the store root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
