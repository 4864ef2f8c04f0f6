package flexlib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultFileMode is the permission mode used for data files.
const DefaultFileMode = 0644

// ConfigDirEnv overrides the default configuration directory.
const ConfigDirEnv = "FLEXD_CONFIG_DIR"

// Storage is the host persistence primitive. The store serializes its
// record list to an opaque blob; Storage only has to keep that blob
// durable between runs. Implementations must not do partial writes.
type Storage interface {
	// Load returns the previously saved blob, or an empty slice when
	// nothing has been saved yet.
	Load() ([]byte, error)
	// Save durably replaces the blob.
	Save(data []byte) error
}

// ConfigDir returns the flexd configuration directory, creating it if
// needed. FLEXD_CONFIG_DIR overrides the platform default.
func ConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, os.MkdirAll(dir, 0755)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "flexd")
	return dir, os.MkdirAll(dir, 0755)
}

// FileStorage keeps the blob in a single file on an afero filesystem.
// Writes go through a temp file and rename so an interrupted save never
// leaves a truncated blob behind.
type FileStorage struct {
	fs   afero.Fs
	path string
}

// NewFileStorage creates a FileStorage writing to path on fs.
// Pass afero.NewOsFs() for the real filesystem or afero.NewMemMapFs()
// in tests.
func NewFileStorage(fs afero.Fs, path string) *FileStorage {
	return &FileStorage{fs: fs, path: path}
}

// Load reads the blob. A missing file is not an error: it means a fresh
// install, and an empty blob is returned.
func (f *FileStorage) Load() ([]byte, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", f.path, err)
	}
	return data, nil
}

// Save replaces the blob atomically.
func (f *FileStorage) Save(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, DefaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

var _ Storage = (*FileStorage)(nil)
