package crypt

import (
	"errors"
	"strings"
	"testing"
)

// testCipher builds a Cipher with fixed test secrets.
func testCipher(t *testing.T) *Cipher {
	t.Helper()

	cfg, err := NewConfig("test-enc-key", "test-enc-iv")
	if err != nil {
		t.Fatalf("failed to derive config: %v", err)
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	return c
}

func TestNewConfig_EmptySecrets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		encKey string
		encIV  string
	}{
		{"empty key", "", "iv"},
		{"empty iv", "key", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewConfig(tt.encKey, tt.encIV); err == nil {
				t.Error("expected error for empty secrets")
			}
		})
	}
}

func TestCipher_RoundTrip(t *testing.T) {
	c := testCipher(t)

	tests := []struct {
		name  string
		plain string
	}{
		{"empty string", ""},
		{"short payload", "hello"},
		{"block sized payload", strings.Repeat("a", 16)},
		{"json payload", `{"userID":"42","email":"user@example.com","password":"$2a$10$abc"}`},
		{"multibyte payload", "こんにちは世界"},
		{"long payload", strings.Repeat("payload-", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := c.Encrypt(tt.plain)
			if err != nil {
				t.Fatalf("unexpected encrypt error: %v", err)
			}
			if enc == tt.plain && tt.plain != "" {
				t.Error("ciphertext equals plaintext")
			}

			dec, err := c.Decrypt(enc)
			if err != nil {
				t.Fatalf("unexpected decrypt error: %v", err)
			}
			if dec != tt.plain {
				t.Errorf("round trip mismatch: expected %q, got %q", tt.plain, dec)
			}
		})
	}
}

// TestCipher_Deterministic pins the fixed-IV behavior: the same
// plaintext always encrypts to the same ciphertext.
func TestCipher_Deterministic(t *testing.T) {
	c := testCipher(t)

	enc1, err := c.Encrypt("same payload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	enc2, err := c.Encrypt("same payload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if enc1 != enc2 {
		t.Errorf("expected deterministic ciphertext, got %q and %q", enc1, enc2)
	}
}

func TestCipher_Decrypt_Malformed(t *testing.T) {
	c := testCipher(t)

	tests := []struct {
		name  string
		input string
	}{
		{"not hex", "zzzz-not-hex"},
		{"empty", ""},
		{"not block aligned", "abcdef"},
		{"garbage block", strings.Repeat("ab", 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.input)
			if !errors.Is(err, ErrDecryption) {
				t.Errorf("expected ErrDecryption, got %v", err)
			}
		})
	}
}

// TestCipher_Decrypt_WrongKey verifies that ciphertext from one key does
// not decrypt cleanly under another.
func TestCipher_Decrypt_WrongKey(t *testing.T) {
	c1 := testCipher(t)

	cfg2, err := NewConfig("another-enc-key", "another-enc-iv")
	if err != nil {
		t.Fatalf("failed to derive config: %v", err)
	}
	c2, err := New(cfg2)
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	enc, err := c1.Encrypt(`{"userID":"1"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dec, err := c2.Decrypt(enc); err == nil && dec == `{"userID":"1"}` {
		t.Error("expected decryption under a different key to fail or corrupt")
	}
}
