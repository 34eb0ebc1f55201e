package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrNotFound is returned by a Store when the document does not exist yet.
var ErrNotFound = errors.New("document not found")

// Store reads and writes document text.
type Store interface {
	Read(path string) (string, error)
	Write(path, text string) error
}

// FileStore is a Store backed by a filesystem.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore creates a FileStore on fs. Use afero.NewOsFs() for the real
// filesystem.
func NewFileStore(fs afero.Fs) *FileStore {
	return &FileStore{fs: fs}
}

// Read returns the file content, or ErrNotFound when it does not exist.
func (s *FileStore) Read(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Write replaces the file content atomically.
func (s *FileStore) Write(path, text string) error {
	return WriteFileAtomic(s.fs, path, []byte(text))
}

// WriteFileAtomic writes data to a file using temp file + rename, so readers
// see either the old or the new content.
func WriteFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := afero.TempFile(fs, dir, ".validata-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = fs.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Keep the mode of an existing file.
	mode := os.FileMode(0o644)
	if info, err := fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := fs.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
