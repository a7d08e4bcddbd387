// Package audio stores submitted voice notes on local disk until the
// pipeline has consumed them. Blobs are transient by design: the pipeline
// deletes them on every exit path.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps blobs under a single directory, addressed by an opaque
// ref. Refs are generated here so callers cannot traverse outside the
// directory.
type LocalStore struct {
	dir string
}

// NewLocal creates the directory if needed.
func NewLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Put writes a new blob and returns its ref.
func (s *LocalStore) Put(_ context.Context, data []byte) (string, error) {
	ref := uuid.NewString()
	if err := os.WriteFile(s.path(ref), data, 0o640); err != nil {
		return "", fmt.Errorf("write audio blob: %w", err)
	}
	return ref, nil
}

// Size returns the stored blob's size in bytes.
func (s *LocalStore) Size(_ context.Context, ref string) (int64, error) {
	info, err := os.Stat(s.path(ref))
	if err != nil {
		return 0, fmt.Errorf("stat audio blob: %w", err)
	}
	return info.Size(), nil
}

// Delete removes the blob. Deleting a missing blob is not an error so
// cleanup can run unconditionally.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	err := os.Remove(s.path(ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete audio blob: %w", err)
	}
	return nil
}

func (s *LocalStore) path(ref string) string {
	// Refs are UUIDs we minted, but sanitize anyway.
	return filepath.Join(s.dir, filepath.Base(strings.TrimSpace(ref)))
}
