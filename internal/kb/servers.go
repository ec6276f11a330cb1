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

// ServerPatch is a partial update for a server. Nil fields are left
// untouched. Changing ip, user, port or key path regenerates the derived
// SSH command.
type ServerPatch struct {
	Name       *string
	IP         *string
	SSHUser    *string
	SSHPort    *int
	SSHKeyPath *string
	Domain     *string
	Notes      *string
	Tags       *[]string
}

// AddServer creates a server under the given provider. Defaults are
// applied (user root, port 22) and the SSH command is derived before the
// record is persisted.
func (m *Manager) AddServer(providerID string, srv model.Server) (*model.Server, error) {
	p, ok := m.providers[providerID]
	if !ok {
		return nil, store.ErrNotFound
	}

	srv.ID = uuid.NewString()
	if srv.Provider == "" {
		srv.Provider = p.Type
	}
	if srv.SSHUser == "" {
		srv.SSHUser = "root"
	}
	if srv.SSHPort == 0 {
		srv.SSHPort = 22
	}
	if srv.Tags == nil {
		srv.Tags = []string{}
	}
	srv.RegenerateSSHCommand()

	p.Servers = append(p.Servers, srv)
	p.UpdatedAt = time.Now()
	if err := m.files.SaveProvider(p); err != nil {
		return nil, fmt.Errorf("save provider: %w", err)
	}
	if err := m.saveIndex(); err != nil {
		return nil, err
	}
	return &p.Servers[len(p.Servers)-1], nil
}

// UpdateServer applies a partial patch to a server under a provider.
// The SSH command is regenerated whenever ip, user, port or key path
// changed. Returns store.ErrNotFound when either id is unknown.
func (m *Manager) UpdateServer(providerID, serverID string, patch ServerPatch) (*model.Server, error) {
	p, ok := m.providers[providerID]
	if !ok {
		return nil, store.ErrNotFound
	}
	srv := findServer(p, serverID)
	if srv == nil {
		return nil, store.ErrNotFound
	}

	connectionChanged := false
	if patch.Name != nil && *patch.Name != "" {
		srv.Name = *patch.Name
	}
	if patch.IP != nil && *patch.IP != "" {
		srv.IP = *patch.IP
		connectionChanged = true
	}
	if patch.SSHUser != nil && *patch.SSHUser != "" {
		srv.SSHUser = *patch.SSHUser
		connectionChanged = true
	}
	if patch.SSHPort != nil && *patch.SSHPort > 0 {
		srv.SSHPort = *patch.SSHPort
		connectionChanged = true
	}
	if patch.SSHKeyPath != nil {
		srv.SSHKeyPath = *patch.SSHKeyPath
		connectionChanged = true
	}
	if patch.Domain != nil {
		srv.Domain = *patch.Domain
	}
	if patch.Notes != nil {
		srv.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		srv.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if connectionChanged {
		srv.RegenerateSSHCommand()
	}

	p.UpdatedAt = time.Now()
	if err := m.files.SaveProvider(p); err != nil {
		return nil, fmt.Errorf("save provider: %w", err)
	}
	if err := m.saveIndex(); err != nil {
		return nil, err
	}
	return srv, nil
}

// DeleteServer removes a server from its provider. An unknown provider
// or server id is a no-op reported as false.
func (m *Manager) DeleteServer(providerID, serverID string) (bool, error) {
	p, ok := m.providers[providerID]
	if !ok {
		return false, nil
	}
	kept := p.Servers[:0]
	removed := false
	for _, s := range p.Servers {
		if s.ID == serverID {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return false, nil
	}
	p.Servers = kept
	p.UpdatedAt = time.Now()
	if err := m.files.SaveProvider(p); err != nil {
		return false, fmt.Errorf("save provider: %w", err)
	}
	if err := m.saveIndex(); err != nil {
		return false, err
	}
	return true, nil
}

// GetServer returns a server by provider and server id.
func (m *Manager) GetServer(providerID, serverID string) (*model.Server, error) {
	p, ok := m.providers[providerID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if srv := findServer(p, serverID); srv != nil {
		return srv, nil
	}
	return nil, store.ErrNotFound
}

// Servers returns the server list of one provider.
func (m *Manager) Servers(providerID string) ([]model.Server, error) {
	p, ok := m.providers[providerID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]model.Server(nil), p.Servers...), nil
}

// QuickActions returns the per-server SSH command list across all
// providers, the shape consumed by the chat UI's quick-action menu.
func (m *Manager) QuickActions() []model.Server {
	var out []model.Server
	for _, id := range m.providerOrder {
		out = append(out, m.providers[id].Servers...)
	}
	return out
}

// TouchServer records a connection timestamp for a server.
func (m *Manager) TouchServer(providerID, serverID string) error {
	p, ok := m.providers[providerID]
	if !ok {
		return store.ErrNotFound
	}
	srv := findServer(p, serverID)
	if srv == nil {
		return store.ErrNotFound
	}
	now := time.Now()
	srv.LastConnected = &now
	if err := m.files.SaveProvider(p); err != nil {
		return fmt.Errorf("save provider: %w", err)
	}
	return nil
}

func findServer(p *model.Provider, serverID string) *model.Server {
	for i := range p.Servers {
		if p.Servers[i].ID == serverID {
			return &p.Servers[i]
		}
	}
	return nil
}
