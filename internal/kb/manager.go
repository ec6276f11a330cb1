// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// package kb implements the knowledge base manager: it owns the in-memory
// domain model (providers, credentials, preferences, index), orchestrates
// load/save through the file store, runs the document parser on imports,
// and mediates credential encryption through the secure store.
//
// A Manager instance assumes exclusive ownership of its model. Callers
// must not invoke mutating operations concurrently on the same instance
// without external serialization.
package kb

import (
	"errors"
	"fmt"

	"github.com/infrakeep/infrakeep/internal/logging"
	"github.com/infrakeep/infrakeep/internal/model"
	"github.com/infrakeep/infrakeep/internal/securestore"
	"github.com/infrakeep/infrakeep/internal/store"
)

// Manager owns the full in-memory knowledge base model and its
// persistence. Create one per application lifetime with New and call
// Initialize before use.
type Manager struct {
	files  *store.Store
	secure *securestore.Store

	prefs model.Preferences

	providers     map[string]*model.Provider
	providerOrder []string

	credentials map[string]*model.EncryptedCredential
	credOrder   []string

	index *model.KnowledgeBaseIndex
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithPreferences seeds the manager with preferences loaded by the
// config layer instead of the defaults.
func WithPreferences(p model.Preferences) Option {
	return func(m *Manager) { m.prefs = p }
}

// New returns a manager rooted at baseDir. No disk access happens until
// Initialize.
func New(baseDir string, opts ...Option) *Manager {
	m := &Manager{
		files:       store.New(baseDir),
		secure:      securestore.New(),
		prefs:       model.DefaultPreferences(),
		providers:   map[string]*model.Provider{},
		credentials: map[string]*model.EncryptedCredential{},
		index:       model.NewIndex(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize ensures the on-disk layout exists and loads the index,
// provider records and encrypted credential list. Individual unreadable
// provider files are skipped by the store layer; a corrupt index is
// rebuilt from the loaded primary data rather than treated as fatal.
func (m *Manager) Initialize() error {
	if err := m.files.EnsureLayout(); err != nil {
		return fmt.Errorf("initialize knowledge base: %w", err)
	}

	providers, err := m.files.LoadProviders()
	if err != nil {
		return fmt.Errorf("load providers: %w", err)
	}
	m.providers = map[string]*model.Provider{}
	m.providerOrder = nil
	for _, p := range providers {
		m.providers[p.ID] = p
		m.providerOrder = append(m.providerOrder, p.ID)
	}

	creds, err := m.files.LoadCredentials()
	if err != nil {
		logging.Warnf("credential list unreadable, continuing without it: %v", err)
		creds = nil
	}
	m.credentials = map[string]*model.EncryptedCredential{}
	m.credOrder = nil
	for i := range creds {
		c := creds[i]
		m.credentials[c.ID] = &c
		m.credOrder = append(m.credOrder, c.ID)
	}

	idx, err := m.files.LoadIndex()
	switch {
	case err == nil:
		m.index = idx
	case errors.Is(err, store.ErrNotFound):
		m.index = m.buildIndex()
	default:
		logging.Warnf("index unreadable, rebuilding from primary data: %v", err)
		m.index = m.buildIndex()
	}

	logging.Debugf("knowledge base loaded: %d providers, %d credentials", len(m.providerOrder), len(m.credOrder))
	return nil
}

// Unlock derives the encryption key from password, transparently reusing
// a previously persisted salt or generating and persisting a new one on
// first unlock.
func (m *Manager) Unlock(password string) error {
	salt, err := m.files.LoadSalt()
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("unlock: %w", err)
	}

	firstUnlock := len(salt) == 0
	if err := m.secure.Initialize(password, salt); err != nil {
		return err
	}
	if firstUnlock {
		if err := m.files.SaveSalt(m.secure.Salt()); err != nil {
			m.secure.Lock()
			return fmt.Errorf("persist salt: %w", err)
		}
	}
	return nil
}

// Lock zeroes the in-memory encryption key.
func (m *Manager) Lock() {
	m.secure.Lock()
}

// Unlocked reports whether credential operations are currently possible.
func (m *Manager) Unlocked() bool {
	return m.secure.Unlocked()
}

// Preferences returns the current user preferences.
func (m *Manager) Preferences() model.Preferences {
	return m.prefs
}

// SetPreferences replaces the user preferences. Persistence of the
// preference document is owned by the config layer.
func (m *Manager) SetPreferences(p model.Preferences) {
	m.prefs = p
}

// Close locks the secure store. Call on process teardown so key material
// does not outlive the manager.
func (m *Manager) Close() {
	m.secure.Lock()
}
