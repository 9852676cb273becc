// Package store implements the filesystem content store.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config captures the parameters for the filesystem content store.
type Config struct {
	// DataDir is the root directory where story archives are kept.
	DataDir string `mapstructure:"data_dir"`
}

// FS persists story artifacts as <data_dir>/<story_id>/<file_name>.
// The presence of a story's directory is the dedup marker.
type FS struct {
	dataDir string
}

// New creates a filesystem content store rooted at cfg.DataDir,
// creating the root if it does not exist.
func New(cfg Config) (*FS, error) {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return nil, fmt.Errorf("data directory is required")
	}

	info, err := os.Stat(cfg.DataDir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("data directory path is not a directory")
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(cfg.DataDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("create data directory: %w", mkErr)
		}
	default:
		return nil, fmt.Errorf("stat data directory: %w", err)
	}

	return &FS{dataDir: cfg.DataDir}, nil
}

// Exists reports whether an archive directory for the story is
// present.
func (s *FS) Exists(storyID string) bool {
	info, err := os.Stat(filepath.Join(s.dataDir, storyID))
	return err == nil && info.IsDir()
}

// Save writes data under the story's directory, creating the directory
// if absent and overwriting any existing file of the same name.
// MkdirAll is idempotent, so concurrent first writes for the same
// story are safe.
func (s *FS) Save(_ context.Context, storyID, fileName string, data []byte) error {
	if strings.TrimSpace(storyID) == "" || strings.TrimSpace(fileName) == "" {
		return fmt.Errorf("story id and file name are required")
	}

	dir := filepath.Join(s.dataDir, storyID)
	fullPath := filepath.Join(dir, fileName)

	// Verify the cleaned path stays inside the data dir.
	cleanRoot := filepath.Clean(s.dataDir)
	if !strings.HasPrefix(filepath.Clean(fullPath), cleanRoot+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create story directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// List returns the IDs of all archived stories in lexical order.
func (s *FS) List() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}
