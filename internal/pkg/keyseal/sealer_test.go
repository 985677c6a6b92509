package keyseal

import (
	"bytes"
	"errors"
	"testing"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New([]byte("short")); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestSealOpenRoundtrip(t *testing.T) {
	sealer, err := New(testKey())
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}

	plaintext := []byte("GAME-KEY-AAAA-BBBB-CCCC")
	ciphertext, err := sealer.Seal(plaintext)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Fatal("ciphertext must not contain plaintext")
	}

	opened, err := sealer.Open(ciphertext)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("expected %q, got %q", plaintext, opened)
	}
}

func TestSealProducesUniqueCiphertexts(t *testing.T) {
	sealer, _ := New(testKey())
	a, err := sealer.Seal([]byte("key"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	b, err := sealer.Seal([]byte("key"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("expected nonce to differ between seals")
	}
}

func TestOpenRejectsTampered(t *testing.T) {
	sealer, _ := New(testKey())
	ciphertext, err := sealer.Seal([]byte("key"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	ciphertext[len(ciphertext)-1] ^= 0xff
	if _, err := sealer.Open(ciphertext); !errors.Is(err, ErrInvalidCiphertext) {
		t.Fatalf("expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestOpenRejectsTruncated(t *testing.T) {
	sealer, _ := New(testKey())
	if _, err := sealer.Open([]byte{0x01, 0x02}); !errors.Is(err, ErrInvalidCiphertext) {
		t.Fatalf("expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestOpenWithDifferentKeyFails(t *testing.T) {
	sealer, _ := New(testKey())
	ciphertext, err := sealer.Seal([]byte("key"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	other := testKey()
	other[0] ^= 0xff
	otherSealer, _ := New(other)
	if _, err := otherSealer.Open(ciphertext); !errors.Is(err, ErrInvalidCiphertext) {
		t.Fatalf("expected ErrInvalidCiphertext, got %v", err)
	}
}
