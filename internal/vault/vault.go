// Package vault encrypts API credentials at rest and classifies their expiry.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Vault errors.
var (
	// ErrSecretTooShort is returned when the operator secret is below the
	// required minimum length. The vault refuses to pad short secrets.
	ErrSecretTooShort = errors.New("vault secret must be at least 16 bytes")

	// ErrDecryptFailed is returned when a stored value is malformed or the
	// key has changed. Callers must treat this as an invalid credential.
	ErrDecryptFailed = errors.New("decrypt credential failed")
)

// MinSecretLen is the minimum operator secret length in bytes.
const MinSecretLen = 16

// pbkdf2Iterations for key derivation. Fixed so stored ciphertexts remain
// decryptable across releases.
const pbkdf2Iterations = 4096

var keySalt = []byte("leadpulse-credential-vault-v1")

// Vault encrypts and decrypts credential tokens with AES-256-GCM.
// Each Encrypt call uses a fresh random nonce, prepended to the ciphertext
// and stored as "nonce:cipher" in hex.
type Vault struct {
	aead cipher.AEAD
}

// New creates a Vault from an operator-supplied secret. Secrets shorter than
// MinSecretLen are rejected outright rather than padded.
func New(secret string) (*Vault, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrSecretTooShort
	}

	key := pbkdf2.Key([]byte(secret), keySalt, pbkdf2Iterations, 32, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt encrypts plaintext and returns "nonce:cipher" in hex.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Returns ErrDecryptFailed for malformed input,
// a tampered ciphertext, or a key mismatch.
func (v *Vault) Decrypt(encrypted string) (string, error) {
	parts := strings.SplitN(encrypted, ":", 2)
	if len(parts) != 2 {
		return "", ErrDecryptFailed
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != v.aead.NonceSize() {
		return "", ErrDecryptFailed
	}
	sealed, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrDecryptFailed
	}

	plaintext, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
