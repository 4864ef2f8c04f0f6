package encryption

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := randomKey(t)
	sealed, err := EncryptValue("the-token", key)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(sealed, []byte("the-token")) {
		t.Error("ciphertext contains plaintext")
	}

	plain, err := DecryptValue(sealed, key)
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != "the-token" {
		t.Errorf("got %q", plain)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	sealed, err := EncryptValue("v", randomKey(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecryptValue(sealed, randomKey(t)); err == nil {
		t.Error("expected authentication failure")
	}
}

func TestDecrypt_Malformed(t *testing.T) {
	key := randomKey(t)
	for _, blob := range [][]byte{nil, []byte("x"), []byte("gcm1"), []byte("nope-blob")} {
		if _, err := DecryptValue(blob, key); err == nil {
			t.Errorf("expected error for %q", blob)
		}
	}
}

func TestDeriveKey(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1, err := DeriveKey("pass", salt)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := DeriveKey("pass", salt)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("derivation not deterministic")
	}
	if len(k1) != DerivedKeyLen {
		t.Errorf("len = %d", len(k1))
	}

	k3, _ := DeriveKey("other", salt)
	if bytes.Equal(k1, k3) {
		t.Error("different passphrases produced the same key")
	}
	if _, err := DeriveKey("pass", nil); err == nil {
		t.Error("expected error for empty salt")
	}
}
