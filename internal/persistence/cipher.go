package persistence

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// Snapshot blobs are sealed with AES-256-GCM under a key derived from
// the configured passphrase. Each blob carries its own salt and nonce,
// so re-saving the same state never produces the same ciphertext.
//
// Layout: salt(16) | nonce(12) | ciphertext

const (
	saltSize = 16

	// scrypt parameters; interactive-strength, the store is local
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var errMalformedBlob = errors.New("malformed snapshot blob")

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, 32)
}

// seal encrypts plaintext under the passphrase.
func seal(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)

	return out, nil
}

// open decrypts a sealed blob. Any structural or authentication failure
// comes back as an error; callers treat that as absent data.
func open(passphrase string, blob []byte) ([]byte, error) {
	if len(blob) < saltSize {
		return nil, errMalformedBlob
	}
	salt, rest := blob[:saltSize], blob[saltSize:]

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(rest) < gcm.NonceSize() {
		return nil, errMalformedBlob
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}

	return plaintext, nil
}
