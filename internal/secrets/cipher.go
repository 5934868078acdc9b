// Package secrets encrypts third-party tokens at rest. Envelopes are
// base64(nonce || AES-256-GCM ciphertext); the key is derived once per process
// from a long-lived secret via scrypt and treated as immutable shared state.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// ErrDecrypt is returned when an envelope is malformed or does not verify
// under the current key. Callers must treat it as "credential unavailable",
// never as a fatal condition.
var ErrDecrypt = errors.New("secrets: decrypt failed")

const (
	kdfSalt = "schoolbreeze/credential-cipher/v1"
	kdfN    = 1 << 14
	kdfR    = 8
	kdfP    = 1
	keyLen  = 32
)

type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the symmetric key from the long-lived secret and prepares
// the AEAD. Call once at startup and share the result.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("encryption secret is empty")
	}

	key, err := scrypt.Key([]byte(secret), []byte(kdfSalt), kdfN, kdfR, kdfP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("derive cipher key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init aes: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals the plaintext under a fresh random nonce, so encrypting the
// same value twice yields different envelopes.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt. Any failure is reported as
// ErrDecrypt.
func (c *Cipher) Decrypt(envelope string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", ErrDecrypt)
	}

	if len(data) < c.aead.NonceSize() {
		return "", fmt.Errorf("%w: envelope too short", ErrDecrypt)
	}

	nonce, ciphertext := data[:c.aead.NonceSize()], data[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return string(plaintext), nil
}
