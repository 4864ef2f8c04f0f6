package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

const (
	keyFileName = "vault.key"
	keyFileMode = 0600
)

// FileKeyStore keeps the master key in a 0600 file inside the config
// directory. Used when the OS keyring service is unavailable, e.g. on
// headless servers.
type FileKeyStore struct {
	configDir string
}

func NewFileKeyStore(configDir string) *FileKeyStore {
	return &FileKeyStore{configDir: configDir}
}

func (f *FileKeyStore) keyPath() string {
	return filepath.Join(f.configDir, keyFileName)
}

// SetKey generates a random 32-byte key and writes it hex-encoded. The
// write goes through a temp file and rename so an interrupted process
// never leaves a truncated key behind.
func (f *FileKeyStore) SetKey() ([]byte, error) {
	if err := os.MkdirAll(f.configDir, 0755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	tmpFile, err := os.CreateTemp(f.configDir, ".vault.key.tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(hex.EncodeToString(key)); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("write key: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, keyFileMode); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, f.keyPath()); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("rename key file: %w", err)
	}
	return key, nil
}

// GetKey reads the stored key back, validating length and encoding.
func (f *FileKeyStore) GetKey() ([]byte, error) {
	data, err := os.ReadFile(f.keyPath())
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: expected 32, got %d", len(key))
	}
	return key, nil
}

func (f *FileKeyStore) DeleteKey() error {
	return os.Remove(f.keyPath())
}
