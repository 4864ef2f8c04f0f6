// Package credman manages the secrets the daemon needs to talk to the
// remote reminder service. Values are encrypted with a master key that
// lives in the OS keyring, a passphrase-derived key, or a key file,
// in that order of preference.
package credman

import (
	"bytes"
	"crypto/rand"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/flexreminder/flexd/pkg/credman/encryption"
	"github.com/flexreminder/flexd/pkg/credman/keyring"
	"github.com/flexreminder/flexd/pkg/credman/types"
)

// APIToken is the credential name under which the remote API bearer
// token is stored.
const APIToken = "api_token"

// PassphraseEnv, when set, derives the master key from a passphrase
// instead of the keyring. Meant for headless deployments.
const PassphraseEnv = "FLEXD_VAULT_PASSPHRASE"

const saltFileName = "vault.salt"

// Manager persists encrypted credentials in a vault file.
type Manager struct {
	filePath string
	key      []byte

	mu    sync.Mutex
	creds map[string]*types.Credential
}

// NewManager opens (or creates) the vault at filePath with the given
// master key.
func NewManager(filePath string, key []byte) (*Manager, error) {
	m := &Manager{
		filePath: filePath,
		key:      key,
		creds:    make(map[string]*types.Credential),
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// ResolveKey determines the vault master key for the given config
// directory. Order: passphrase from the environment, OS keyring, key
// file fallback. A missing key in the chosen store is generated.
func ResolveKey(configDir string) ([]byte, error) {
	if pass := os.Getenv(PassphraseEnv); pass != "" {
		salt, err := loadOrCreateSalt(configDir)
		if err != nil {
			return nil, err
		}
		return encryption.DeriveKey(pass, salt)
	}

	kr := keyring.NewKeyring()
	if key, err := kr.GetKey(); err == nil && len(key) == 32 {
		return key, nil
	}
	if key, err := kr.SetKey(); err == nil {
		return key, nil
	}

	// Keyring service unavailable; fall back to a key file.
	fs := keyring.NewFileKeyStore(configDir)
	if key, err := fs.GetKey(); err == nil {
		return key, nil
	}
	return fs.SetKey()
}

func loadOrCreateSalt(configDir string) ([]byte, error) {
	path := filepath.Join(configDir, saltFileName)
	if salt, err := os.ReadFile(path); err == nil && len(salt) > 0 {
		return salt, nil
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, salt, 0600); err != nil {
		return nil, err
	}
	return salt, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	dec := gob.NewDecoder(bytes.NewReader(data))
	return dec.Decode(&m.creds)
}

func (m *Manager) save() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m.creds); err != nil {
		return err
	}
	tmp := m.filePath + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return err
	}
	return os.Rename(tmp, m.filePath)
}

// SetCredential encrypts and stores a credential, replacing any
// existing one with the same name.
func (m *Manager) SetCredential(cred types.Credential) error {
	sealed, err := encryption.EncryptValue(cred.Value, m.key)
	if err != nil {
		return err
	}
	cred.Value = string(sealed)
	cred.UpdatedAt = time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[cred.Name] = &cred
	return m.save()
}

// GetCredential returns the decrypted credential with the given name.
func (m *Manager) GetCredential(name string) (*types.Credential, error) {
	m.mu.Lock()
	cred, ok := m.creds[name]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("credential not found: %s", name)
	}

	plain, err := encryption.DecryptValue([]byte(cred.Value), m.key)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", name, err)
	}
	out := *cred
	out.Value = string(plain)
	return &out, nil
}

// DeleteCredential removes a credential from the vault.
func (m *Manager) DeleteCredential(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.creds[name]; !ok {
		return fmt.Errorf("credential not found: %s", name)
	}
	delete(m.creds, name)
	return m.save()
}

// Close flushes the vault to disk.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save()
}
