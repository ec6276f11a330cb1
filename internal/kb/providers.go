// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package kb

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/infrakeep/infrakeep/internal/model"
	"github.com/infrakeep/infrakeep/internal/store"
)

// ProviderPatch is a partial update for a provider. Nil fields are left
// untouched; any applied patch bumps the update timestamp.
type ProviderPatch struct {
	Name       *string
	Connection *model.Connection
}

// AddProvider creates a provider of the given type. An empty name falls
// back to the type's default display name; emoji and category always
// come from the type tables. The record is persisted and indexed before
// returning.
func (m *Manager) AddProvider(t model.ProviderType, name string, conn model.Connection) (*model.Provider, error) {
	if name == "" {
		name = model.DefaultDisplayName(t)
	}
	if conn.Kind == "" {
		conn.Kind = model.ConnectionAPI
	}
	now := time.Now()
	p := &model.Provider{
		ID:         uuid.NewString(),
		Type:       t,
		Name:       name,
		Emoji:      model.DefaultEmoji(t),
		Category:   model.CategoryFor(t),
		Connection: conn,
		Servers:    []model.Server{},
		Documents:  []model.ImportedDocument{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := m.files.SaveProvider(p); err != nil {
		return nil, fmt.Errorf("save provider: %w", err)
	}
	m.providers[p.ID] = p
	m.providerOrder = append(m.providerOrder, p.ID)
	if err := m.saveIndex(); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProvider applies a partial patch and always bumps the update
// timestamp. Returns store.ErrNotFound for an unknown id.
func (m *Manager) UpdateProvider(id string, patch ProviderPatch) (*model.Provider, error) {
	p, ok := m.providers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Name != nil && *patch.Name != "" {
		p.Name = *patch.Name
	}
	if patch.Connection != nil {
		p.Connection = *patch.Connection
	}
	p.UpdatedAt = time.Now()

	if err := m.files.SaveProvider(p); err != nil {
		return nil, fmt.Errorf("save provider: %w", err)
	}
	if err := m.saveIndex(); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProvider removes the record, its index entries and its backing
// file. Deleting an unknown id is a no-op reported as false, not an
// error.
func (m *Manager) DeleteProvider(id string) (bool, error) {
	if _, ok := m.providers[id]; !ok {
		return false, nil
	}
	if err := m.files.DeleteProvider(id); err != nil {
		return false, err
	}
	delete(m.providers, id)
	m.providerOrder = removeID(m.providerOrder, id)
	if err := m.saveIndex(); err != nil {
		return false, err
	}
	return true, nil
}

// GetProvider returns the provider with the given id, or
// store.ErrNotFound.
func (m *Manager) GetProvider(id string) (*model.Provider, error) {
	p, ok := m.providers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

// Providers returns all providers in insertion order.
func (m *Manager) Providers() []*model.Provider {
	out := make([]*model.Provider, 0, len(m.providerOrder))
	for _, id := range m.providerOrder {
		out = append(out, m.providers[id])
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
