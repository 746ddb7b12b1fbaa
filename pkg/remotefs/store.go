// Package remotefs abstracts the per-player file store the game server reads
// from. Backends share path semantics: forward-slash relative paths rooted at
// the configured base directory.
package remotefs

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no file exists at the path.
var ErrNotFound = errors.New("remotefs: file not found")

// Store is the minimal surface the delivery engine needs.
type Store interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Put(ctx context.Context, path string, data []byte) error
}

// IsNotFound reports whether err means the file is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
