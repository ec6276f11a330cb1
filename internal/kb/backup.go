// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package kb

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/infrakeep/infrakeep/internal/model"
)

// backupSchemaVersion guards restores against future format changes.
const backupSchemaVersion = 1

// BackupData is the container exported by WriteBackup: all primary data
// plus preferences. The index is derived and deliberately not included.
// Credentials stay encrypted; restoring them on a different machine
// yields records that cannot be decrypted there (the key is bound to the
// machine fingerprint).
type BackupData struct {
	SchemaVersion int                         `json:"schema_version"`
	Providers     []model.Provider            `json:"providers"`
	Credentials   []model.EncryptedCredential `json:"credentials"`
	Preferences   model.Preferences           `json:"preferences"`
}

// WriteBackup exports the full knowledge base as zstd-compressed,
// pretty-printed JSON.
func (m *Manager) WriteBackup(w io.Writer) error {
	data := BackupData{
		SchemaVersion: backupSchemaVersion,
		Providers:     make([]model.Provider, 0, len(m.providerOrder)),
		Credentials:   m.Credentials(),
		Preferences:   m.prefs,
	}
	for _, id := range m.providerOrder {
		data.Providers = append(data.Providers, *m.providers[id])
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush backup: %w", err)
	}
	return nil
}

// Restore replaces the knowledge base with the contents of a backup
// stream: the in-memory model is rebuilt, every restored record is
// persisted, provider files absent from the backup are removed from
// disk, and the index is rebuilt from the restored primary data.
func (m *Manager) Restore(r io.Reader) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var data BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}
	if data.SchemaVersion > backupSchemaVersion {
		return fmt.Errorf("unsupported backup schema version %d", data.SchemaVersion)
	}

	m.providers = map[string]*model.Provider{}
	m.providerOrder = nil
	for i := range data.Providers {
		p := data.Providers[i]
		if p.ID == "" {
			continue
		}
		if err := m.files.SaveProvider(&p); err != nil {
			return fmt.Errorf("restore provider %s: %w", p.ID, err)
		}
		m.providers[p.ID] = &p
		m.providerOrder = append(m.providerOrder, p.ID)
	}

	// A restore is a full replacement: provider files that predate the
	// backup must not resurrect on the next load.
	existing, err := m.files.ListProviderIDs()
	if err != nil {
		return err
	}
	for _, id := range existing {
		if _, ok := m.providers[id]; !ok {
			if err := m.files.DeleteProvider(id); err != nil {
				return fmt.Errorf("remove stale provider %s: %w", id, err)
			}
		}
	}

	m.credentials = map[string]*model.EncryptedCredential{}
	m.credOrder = nil
	for i := range data.Credentials {
		c := data.Credentials[i]
		if c.ID == "" {
			continue
		}
		m.credentials[c.ID] = &c
		m.credOrder = append(m.credOrder, c.ID)
	}
	if err := m.persistCredentials(); err != nil {
		return err
	}

	m.prefs = data.Preferences
	return m.saveIndex()
}
