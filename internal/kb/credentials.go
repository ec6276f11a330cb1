// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package kb

import (
	"fmt"
	"time"

	"github.com/infrakeep/infrakeep/internal/model"
	"github.com/infrakeep/infrakeep/internal/securestore"
	"github.com/infrakeep/infrakeep/internal/store"
)

// AddCredential encrypts value and appends the credential record.
// Requires the store to be unlocked; the plaintext is not retained.
func (m *Manager) AddCredential(name, service, value string) (*model.EncryptedCredential, error) {
	cred, err := m.secure.EncryptCredential(name, service, value)
	if err != nil {
		return nil, err
	}

	m.credentials[cred.ID] = &cred
	m.credOrder = append(m.credOrder, cred.ID)
	if err := m.persistCredentials(); err != nil {
		return nil, err
	}
	if err := m.saveIndex(); err != nil {
		return nil, err
	}
	return &cred, nil
}

// CredentialValue decrypts one credential and returns its plaintext to
// the caller only. The value is never logged; the record's last-used
// timestamp is refreshed.
func (m *Manager) CredentialValue(id string) (string, error) {
	cred, ok := m.credentials[id]
	if !ok {
		return "", store.ErrNotFound
	}
	value, err := m.secure.DecryptCredential(*cred)
	if err != nil {
		return "", err
	}
	now := time.Now()
	cred.LastUsed = &now
	if err := m.persistCredentials(); err != nil {
		return "", err
	}
	return value, nil
}

// VerifyUnlock checks the current key against the first stored
// credential without touching its last-used timestamp. A store with no
// credentials has nothing to check the key against, so it passes.
func (m *Manager) VerifyUnlock() error {
	if !m.secure.Unlocked() {
		return securestore.ErrLocked
	}
	for _, id := range m.credOrder {
		_, err := m.secure.DecryptCredential(*m.credentials[id])
		return err
	}
	return nil
}

// DeleteCredential removes a credential and its service index entry.
// Requires the store to be unlocked so a locked session cannot silently
// destroy secrets. Unknown ids are a no-op reported as false.
func (m *Manager) DeleteCredential(id string) (bool, error) {
	if !m.secure.Unlocked() {
		return false, securestore.ErrLocked
	}
	if _, ok := m.credentials[id]; !ok {
		return false, nil
	}
	delete(m.credentials, id)
	m.credOrder = removeID(m.credOrder, id)
	if err := m.persistCredentials(); err != nil {
		return false, err
	}
	if err := m.saveIndex(); err != nil {
		return false, err
	}
	return true, nil
}

// Credentials returns the metadata of all stored credentials in
// insertion order. Ciphertext fields are included; plaintext never is.
func (m *Manager) Credentials() []model.EncryptedCredential {
	out := make([]model.EncryptedCredential, 0, len(m.credOrder))
	for _, id := range m.credOrder {
		out = append(out, *m.credentials[id])
	}
	return out
}

func (m *Manager) persistCredentials() error {
	creds := m.Credentials()
	if err := m.files.SaveCredentials(creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}
