// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package kb

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/infrakeep/infrakeep/internal/logging"
	"github.com/infrakeep/infrakeep/internal/model"
	"github.com/infrakeep/infrakeep/internal/parser"
	"github.com/infrakeep/infrakeep/internal/store"
)

// ImportResult reports what one document import produced.
type ImportResult struct {
	Document       model.ImportedDocument
	CreatedServers []model.Server
}

// ImportDocument parses content, records it as an imported document on
// the provider (raw text plus extraction result), writes a raw copy to
// the document store, and auto-creates a server for every extracted
// record that has both a name and an IP. Returns store.ErrNotFound for
// an unknown provider id.
func (m *Manager) ImportDocument(providerID, filename, content string) (*ImportResult, error) {
	p, ok := m.providers[providerID]
	if !ok {
		return nil, store.ErrNotFound
	}

	extracted := parser.Parse(content)
	doc := model.ImportedDocument{
		ID:         uuid.NewString(),
		Filename:   filename,
		Type:       documentType(filename),
		ImportedAt: time.Now(),
		Content:    content,
		Extracted:  extracted,
	}

	if err := m.files.WriteDocumentCopy(doc.ID, filename, content); err != nil {
		return nil, err
	}

	p.Documents = append(p.Documents, doc)
	p.UpdatedAt = time.Now()

	result := &ImportResult{Document: doc}
	for _, srv := range extracted.Servers {
		if srv.IP == "" || srv.Name == "" {
			continue
		}
		srv.ID = uuid.NewString()
		// The owning provider's type wins: a document filed under one
		// provider cannot spawn servers attributed to another. Heading
		// guesses survive only under a custom owner.
		if p.Type != model.ProviderCustom || srv.Provider == "" {
			srv.Provider = p.Type
		}
		if srv.Tags == nil {
			srv.Tags = []string{}
		}
		p.Servers = append(p.Servers, srv)
		result.CreatedServers = append(result.CreatedServers, srv)
	}

	if err := m.files.SaveProvider(p); err != nil {
		return nil, fmt.Errorf("save provider: %w", err)
	}
	if err := m.saveIndex(); err != nil {
		return nil, err
	}

	logging.Infof("imported %s into provider %s: %d servers discovered", filename, p.Name, len(result.CreatedServers))
	return result, nil
}

// documentType tags an imported file by its extension, defaulting to
// plain text.
func documentType(filename string) model.DocumentType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return model.DocMarkdown
	case ".json":
		return model.DocJSON
	case ".yaml", ".yml":
		return model.DocYAML
	default:
		return model.DocText
	}
}
