// Package crypt provides the symmetric cipher used to protect session
// token payloads. Key material is derived once at bootstrap and the
// resulting Config is never mutated afterwards.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters matching crypto.scryptSync defaults.
const (
	scryptN = 16384
	scryptR = 8
	scryptP = 1

	keySalt = "SpecialSalt"

	keyLen = 32 // AES-256
	ivLen  = aes.BlockSize
)

// ErrDecryption is returned when ciphertext is malformed or was not
// produced under the current key/IV. It is surfaced to the caller and
// never panics the process.
var ErrDecryption = errors.New("ciphertext could not be decrypted")

// Config holds the derived AES key and CBC initialization vector.
// Treat it as immutable once returned by NewConfig.
type Config struct {
	key []byte
	iv  []byte
}

// NewConfig derives the AES-256 key and the CBC IV from the two
// configured secrets using scrypt with a fixed salt.
func NewConfig(encKey, encIV string) (Config, error) {
	if encKey == "" || encIV == "" {
		return Config{}, errors.New("crypt: encryption secrets must not be empty")
	}

	key, err := scrypt.Key([]byte(encKey), []byte(keySalt), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return Config{}, fmt.Errorf("crypt: failed to derive key: %w", err)
	}
	iv, err := scrypt.Key([]byte(encIV), []byte(keySalt), scryptN, scryptR, scryptP, ivLen)
	if err != nil {
		return Config{}, fmt.Errorf("crypt: failed to derive iv: %w", err)
	}

	return Config{key: key, iv: iv}, nil
}

// Cipher encrypts and decrypts payload strings with AES-256-CBC.
//
// The IV is fixed process-wide, so the same plaintext always yields the
// same ciphertext. This is a known weakness inherited from the wire
// format: ciphertexts are deterministic and reveal payload equality.
type Cipher struct {
	block cipher.Block
	iv    []byte
}

// New creates a Cipher from a derived Config.
func New(cfg Config) (*Cipher, error) {
	block, err := aes.NewCipher(cfg.key)
	if err != nil {
		return nil, fmt.Errorf("crypt: failed to initialize cipher: %w", err)
	}
	return &Cipher{block: block, iv: cfg.iv}, nil
}

// Encrypt encrypts a plaintext string and returns the hex-encoded
// ciphertext.
func (c *Cipher) Encrypt(plain string) (string, error) {
	padded := pkcs7Pad([]byte(plain), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. It returns ErrDecryption when the input is
// not valid hex, not block-aligned, or does not unpad cleanly under the
// current key/IV.
func (c *Cipher) Decrypt(encHex string) (string, error) {
	raw, err := hex.DecodeString(encHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d is not block aligned", ErrDecryption, len(raw))
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, raw)

	unpadded, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

// pkcs7Pad appends PKCS#7 padding up to the next block boundary.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// pkcs7Unpad strips PKCS#7 padding, validating every padding byte.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrDecryption)
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecryption)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: invalid padding", ErrDecryption)
		}
	}
	return data[:len(data)-n], nil
}
