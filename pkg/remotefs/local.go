package remotefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local writes files under a base directory on the local filesystem.
type Local struct {
	base string
}

// NewLocal builds a local store rooted at base, creating it if needed.
func NewLocal(base string) (*Local, error) {
	if strings.TrimSpace(base) == "" {
		return nil, fmt.Errorf("remotefs: base path is required")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("remotefs: creating base dir: %w", err)
	}
	return &Local{base: base}, nil
}

func (l *Local) resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("remotefs: path %q escapes base", path)
	}
	return filepath.Join(l.base, cleaned), nil
}

func (l *Local) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("remotefs: read %s: %w", path, err)
	}
	return data, nil
}

func (l *Local) Put(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("remotefs: creating dir for %s: %w", path, err)
	}
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("remotefs: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		return fmt.Errorf("remotefs: rename %s: %w", path, err)
	}
	return nil
}

// Delete removes the file at path. Missing files are not an error.
func (l *Local) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remotefs: delete %s: %w", path, err)
	}
	return nil
}
