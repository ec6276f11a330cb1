// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// package securestore holds the unlocked encryption key in memory and
// mediates every credential encrypt/decrypt. The key is derived from the
// user's password combined with a machine fingerprint, so a store copied
// to another machine cannot be unlocked with the password alone. There is
// deliberately no recovery path: new hardware means re-entering
// credentials.
package securestore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/user"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/infrakeep/infrakeep/internal/crypto"
	"github.com/infrakeep/infrakeep/internal/model"
	"github.com/infrakeep/infrakeep/internal/security"
)

// ErrLocked is returned when a cryptographic operation is attempted
// while no key material is held. Callers should prompt for an unlock.
var ErrLocked = errors.New("secure storage is locked")

// Store holds a derived key in memory between Initialize and Lock.
// Safe for concurrent reads of the lock state; mutating operations on
// the surrounding knowledge base are serialized by the caller.
type Store struct {
	mu   sync.RWMutex
	key  security.Secret
	salt []byte
}

// New returns a locked store holding no key material.
func New() *Store {
	return &Store{}
}

// Initialize derives the encryption key from password combined with the
// machine fingerprint, using existingSalt if non-nil or a freshly
// generated salt otherwise, and transitions to unlocked. The salt (never
// the password or key) is retrievable via Salt for persistence.
func (s *Store) Initialize(password string, existingSalt []byte) error {
	salt := existingSalt
	if len(salt) == 0 {
		var err error
		salt, err = crypto.GenerateSalt()
		if err != nil {
			return fmt.Errorf("initialize secure storage: %w", err)
		}
	}

	combined := password + machineFingerprint()
	key := crypto.DeriveKey([]byte(combined), salt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key.Zero()
	s.key = security.FromBytes(key)
	s.salt = append([]byte(nil), salt...)
	for i := range key {
		key[i] = 0
	}
	return nil
}

// Lock zeroes the in-memory key material and transitions to locked.
func (s *Store) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key.Zero()
	s.key = nil
}

// Unlocked reports whether key material is currently held.
func (s *Store) Unlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.key.IsZero()
}

// Salt returns a copy of the salt used for key derivation, or nil if the
// store has never been initialized.
func (s *Store) Salt() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.salt...)
}

// Encrypt seals an opaque string under the held key. Returns ErrLocked
// before attempting any cryptographic work if the store is locked.
func (s *Store) Encrypt(plaintext string) (crypto.EncryptedPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key.IsZero() {
		return crypto.EncryptedPayload{}, ErrLocked
	}
	return crypto.Encrypt(plaintext, s.key)
}

// Decrypt opens a payload sealed by Encrypt. Returns ErrLocked if the
// store is locked; authentication failures surface as
// crypto.ErrAuthentication, never confused with the locked state.
func (s *Store) Decrypt(ciphertext, iv, authTag string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key.IsZero() {
		return "", ErrLocked
	}
	return crypto.Decrypt(ciphertext, s.key, iv, authTag)
}

// EncryptCredential seals value and wraps it in a credential record with
// a generated identifier and creation timestamp.
func (s *Store) EncryptCredential(name, service, value string) (model.EncryptedCredential, error) {
	payload, err := s.Encrypt(value)
	if err != nil {
		return model.EncryptedCredential{}, err
	}
	return model.EncryptedCredential{
		ID:         uuid.NewString(),
		Name:       name,
		Service:    service,
		Ciphertext: payload.Ciphertext,
		IV:         payload.IV,
		AuthTag:    payload.AuthTag,
		CreatedAt:  time.Now(),
	}, nil
}

// DecryptCredential recovers the plaintext value of a credential record.
// The returned string exists only for the caller; it is never logged or
// persisted.
func (s *Store) DecryptCredential(cred model.EncryptedCredential) (string, error) {
	return s.Decrypt(cred.Ciphertext, cred.IV, cred.AuthTag)
}

// machineFingerprint returns a stable per-machine string mixed into key
// derivation. Hash of hostname, OS user, platform and architecture.
func machineFingerprint() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}
	username := "unknown-user"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	raw := fmt.Sprintf("%s|%s|%s|%s", hostname, username, runtime.GOOS, runtime.GOARCH)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
