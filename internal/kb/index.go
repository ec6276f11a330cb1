// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package kb

import (
	"fmt"
	"strings"
	"time"

	"github.com/infrakeep/infrakeep/internal/model"
)

// buildIndex derives the full lookup index from the current provider and
// credential collections. The index is a pure function of that primary
// data; rebuilding always recovers from a corrupt persisted copy.
func (m *Manager) buildIndex() *model.KnowledgeBaseIndex {
	idx := model.NewIndex()

	for _, pid := range m.providerOrder {
		p := m.providers[pid]
		t := string(p.Type)
		idx.ProvidersByType[t] = append(idx.ProvidersByType[t], p.ID)

		for _, srv := range p.Servers {
			idx.ServersByProvider[p.ID] = append(idx.ServersByProvider[p.ID], srv.ID)
			addKeywords(idx, srv.ID, srv.Name, srv.IP, srv.Domain, strings.Join(srv.Tags, " "))
		}
		addKeywords(idx, p.ID, p.Name, t, string(p.Category))
	}

	for _, cid := range m.credOrder {
		c := m.credentials[cid]
		idx.CredsByService[c.Service] = append(idx.CredsByService[c.Service], c.ID)
	}

	idx.UpdatedAt = time.Now()
	return idx
}

// saveIndex rebuilds the index from primary data and persists it. Every
// mutating manager operation funnels through here so the index
// invariants hold at the boundary of each call.
func (m *Manager) saveIndex() error {
	m.index = m.buildIndex()
	if err := m.files.SaveIndex(m.index); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// RebuildIndex regenerates and persists the index from primary data,
// recovering from any index corruption.
func (m *Manager) RebuildIndex() error {
	return m.saveIndex()
}

// Index returns the current lookup index.
func (m *Manager) Index() *model.KnowledgeBaseIndex {
	return m.index
}

// addKeywords registers the id under every token of the given values.
func addKeywords(idx *model.KnowledgeBaseIndex, id string, values ...string) {
	for _, v := range values {
		for _, tok := range TokenizeQuery(v) {
			ids := idx.SearchKeywords[tok]
			if containsID(ids, id) {
				continue
			}
			idx.SearchKeywords[tok] = append(ids, id)
		}
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// TokenizeQuery splits a query or keyword source into lower-cased
// tokens, trimming whitespace. Returns nil for empty input.
func TokenizeQuery(q string) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	parts := strings.Fields(q)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SearchResult pairs a provider with the servers that matched a query.
type SearchResult struct {
	Provider *model.Provider
	Servers  []model.Server
}

// Search finds providers and servers whose indexed keywords contain any
// token of the query. Intended for the local UI; unlike the AI context
// it may expose IPs and domains.
func (m *Manager) Search(query string) []SearchResult {
	tokens := TokenizeQuery(query)
	if len(tokens) == 0 {
		return nil
	}

	matched := map[string]bool{}
	for keyword, ids := range m.index.SearchKeywords {
		for _, tok := range tokens {
			if strings.Contains(keyword, tok) {
				for _, id := range ids {
					matched[id] = true
				}
				break
			}
		}
	}

	var out []SearchResult
	for _, pid := range m.providerOrder {
		p := m.providers[pid]
		res := SearchResult{}
		if matched[p.ID] {
			res.Provider = p
		}
		for _, srv := range p.Servers {
			if matched[srv.ID] {
				res.Servers = append(res.Servers, srv)
			}
		}
		if res.Provider == nil && len(res.Servers) > 0 {
			res.Provider = p
		}
		if res.Provider != nil {
			out = append(out, res)
		}
	}
	return out
}
