// Package storage abstracts the photo blob store. The database row is
// the authoritative record; blob deletes are best effort.
package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage is the interface for photo blob operations.
type Storage interface {
	// Save stores a blob at the given path.
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Get retrieves a blob from the given path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a blob at the given path.
	Delete(ctx context.Context, path string) error

	// Exists checks if a blob exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a public URL for the blob.
	GetURL(ctx context.Context, path string) (string, error)
}

// Config holds storage configuration.
type Config struct {
	Type       string // local, cloudflare_r2
	BasePath   string // for local storage
	BaseURL    string // public URL base
	Bucket     string // for R2
	AccessKey  string // for R2
	SecretKey  string // for R2
	Endpoint   string // for R2
	PublicRead bool
}

// NewStorage creates a storage instance based on configuration.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2":
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
