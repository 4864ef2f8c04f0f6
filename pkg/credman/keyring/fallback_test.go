package keyring

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFileKeyStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileKeyStore(dir)

	key, err := fs.SetKey()
	if err != nil {
		t.Fatal(err)
	}
	if len(key) != 32 {
		t.Fatalf("key length = %d, want 32", len(key))
	}

	got, err := fs.GetKey()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(key, got) {
		t.Error("stored key differs from generated key")
	}

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != keyFileMode {
		t.Errorf("key file mode = %o, want %o", perm, keyFileMode)
	}
}

func TestFileKeyStore_GetWithoutSet(t *testing.T) {
	fs := NewFileKeyStore(t.TempDir())
	if _, err := fs.GetKey(); err == nil {
		t.Error("expected error when no key stored")
	}
}

func TestFileKeyStore_RejectsCorruptKey(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileKeyStore(dir)
	if err := os.WriteFile(filepath.Join(dir, keyFileName), []byte("not-hex!"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.GetKey(); err == nil {
		t.Error("expected error for invalid hex")
	}

	if err := os.WriteFile(filepath.Join(dir, keyFileName), []byte("abcd"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.GetKey(); err == nil {
		t.Error("expected error for short key")
	}
}

func TestFileKeyStore_Delete(t *testing.T) {
	fs := NewFileKeyStore(t.TempDir())
	if _, err := fs.SetKey(); err != nil {
		t.Fatal(err)
	}
	if err := fs.DeleteKey(); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.GetKey(); err == nil {
		t.Error("key still readable after delete")
	}
}
