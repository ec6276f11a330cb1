// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// package crypto provides the authenticated-encryption and key-derivation
// primitives used by the secure storage layer. All randomness comes from
// crypto/rand and all ciphertext is authenticated (AES-256-GCM); decrypt
// never returns unverified plaintext.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// SaltSize is the key-derivation salt length in bytes.
	SaltSize = 32
	// IVSize is the GCM nonce length in bytes. Non-standard for GCM (the
	// default is 12) but fixed by the on-disk credential format.
	IVSize = 16
	// KDFIterations is the PBKDF2 iteration count.
	KDFIterations = 150000
	// DefaultPasswordLength is used by GeneratePassword when callers pass
	// a non-positive length.
	DefaultPasswordLength = 32
)

// ErrAuthentication is returned when decryption fails its integrity
// check: tampered ciphertext, wrong key, or mismatched IV/tag.
var ErrAuthentication = errors.New("decryption authentication failed")

// ErrMalformed is returned when an input cannot even be decoded
// (bad base64, truncated fields). Distinct from ErrAuthentication so
// callers can tell corruption from tampering.
var ErrMalformed = errors.New("malformed ciphertext input")

// passwordCharset is the fixed alphabet for generated passwords.
const passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"

// EncryptedPayload carries the three base64-encoded outputs of Encrypt.
type EncryptedPayload struct {
	Ciphertext string
	IV         string
	AuthTag    string
}

// DeriveKey stretches a password into a 32-byte AES key using
// PBKDF2-SHA512. Deterministic for a fixed (password, salt) pair.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, KDFIterations, KeySize, sha512.New)
}

// GenerateSalt returns 32 cryptographically secure random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Encrypt seals plaintext under key with AES-256-GCM and a fresh random
// 16-byte IV. Two calls with identical inputs produce different
// ciphertext and IVs.
func Encrypt(plaintext string, key []byte) (EncryptedPayload, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return EncryptedPayload{}, err
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return EncryptedPayload{}, fmt.Errorf("generate iv: %w", err)
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	// Seal appends the tag to the ciphertext; the on-disk format stores
	// them separately.
	tagStart := len(sealed) - gcm.Overhead()
	return EncryptedPayload{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed[:tagStart]),
		IV:         base64.StdEncoding.EncodeToString(iv),
		AuthTag:    base64.StdEncoding.EncodeToString(sealed[tagStart:]),
	}, nil
}

// Decrypt opens a payload produced by Encrypt. It verifies the GCM tag
// before returning any plaintext: tampering with ciphertext, IV, tag or
// key yields ErrAuthentication, undecodable input yields ErrMalformed.
func Decrypt(ciphertext string, key []byte, iv, authTag string) (string, error) {
	rawCiphertext, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext: %v", ErrMalformed, err)
	}
	rawIV, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return "", fmt.Errorf("%w: iv: %v", ErrMalformed, err)
	}
	rawTag, err := base64.StdEncoding.DecodeString(authTag)
	if err != nil {
		return "", fmt.Errorf("%w: auth tag: %v", ErrMalformed, err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(rawIV) != IVSize {
		return "", fmt.Errorf("%w: iv must be %d bytes, got %d", ErrMalformed, IVSize, len(rawIV))
	}
	if len(rawTag) != gcm.Overhead() {
		return "", fmt.Errorf("%w: auth tag must be %d bytes, got %d", ErrMalformed, gcm.Overhead(), len(rawTag))
	}

	sealed := append(rawCiphertext, rawTag...)
	plaintext, err := gcm.Open(nil, rawIV, sealed, nil)
	if err != nil {
		return "", ErrAuthentication
	}
	return string(plaintext), nil
}

// HashValue returns the hex-encoded SHA-256 digest of value. Intended
// for non-secret integrity checks, not for credential gating.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// SecureCompare reports whether a and b are equal without leaking the
// position of the first difference. Both inputs are hashed first so the
// comparison cost depends only on the digest size.
func SecureCompare(a, b string) bool {
	ah := sha256.Sum256([]byte(a))
	bh := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ah[:], bh[:]) == 1
}

// GeneratePassword returns a random password of the given length drawn
// from a fixed alphanumeric+symbol charset. Uses rand.Int to avoid
// modulo bias.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultPasswordLength
	}
	max := big.NewInt(int64(len(passwordCharset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrMalformed, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
