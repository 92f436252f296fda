// Package storage abstracts media file persistence behind a small interface
// with a local-disk backend and an HTTP object-store backend.
package storage

import (
	"context"
	"fmt"
	"io"

	"calmora/internal/shared/config"
)

// Store reads and writes media objects by key. Keys are opaque relative
// paths like "audio/trk_abc123.mp3".
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds the configured backend.
func New(cfg *config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocalStore(cfg.LocalBasePath)
	case "remote":
		return NewRemoteStore(cfg.RemoteBaseURL, cfg.RemoteToken), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
