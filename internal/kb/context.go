// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package kb

import (
	"strings"

	"github.com/infrakeep/infrakeep/internal/model"
)

// genericInfraKeywords trigger the full-context fallback when a query
// has no specific match. Recall over precision: an assistant asked about
// "my servers" should see the whole (redacted) picture.
var genericInfraKeywords = []string{"server", "ssh", "logs", "deploy", "cloud", "database", "api"}

// GenerateAIContext produces the redacted infrastructure summary that
// may be appended to an AI system prompt. It contains only provider
// display names, provider types, regions and server names. IPs, domains,
// SSH fields, key paths, instance ids, account ids and credential values
// must never appear here; this is the subsystem's most important
// privacy boundary.
func (m *Manager) GenerateAIContext() string {
	if len(m.providerOrder) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Infrastructure Knowledge Base\n")
	for _, pid := range m.providerOrder {
		writeProviderContext(&b, m.providers[pid])
	}
	return strings.TrimRight(b.String(), "\n")
}

// GetRelevantContext narrows the context to providers whose name or type
// matches the query, or that own a server whose name matches. When
// nothing specific matches but the query mentions generic infrastructure
// keywords, the full context is returned instead of nothing.
func (m *Manager) GetRelevantContext(query string) string {
	tokens := TokenizeQuery(query)
	if len(tokens) == 0 {
		return ""
	}

	var matches []*model.Provider
	for _, pid := range m.providerOrder {
		p := m.providers[pid]
		if providerMatches(p, tokens) {
			matches = append(matches, p)
		}
	}

	if len(matches) == 0 {
		if hasGenericInfraKeyword(tokens) {
			return m.GenerateAIContext()
		}
		return ""
	}

	var b strings.Builder
	b.WriteString("## Infrastructure Knowledge Base\n")
	for _, p := range matches {
		writeProviderContext(&b, p)
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeProviderContext emits the redacted block for one provider:
// display name, type, optional region, server names. Nothing else.
func writeProviderContext(b *strings.Builder, p *model.Provider) {
	b.WriteString("### ")
	if p.Emoji != "" {
		b.WriteString(p.Emoji)
		b.WriteString(" ")
	}
	b.WriteString(p.Name)
	b.WriteString(" (")
	b.WriteString(string(p.Type))
	b.WriteString(")\n")
	if p.Connection.Region != "" {
		b.WriteString("- Region: ")
		b.WriteString(p.Connection.Region)
		b.WriteString("\n")
	}
	if len(p.Servers) > 0 {
		names := make([]string, 0, len(p.Servers))
		for _, srv := range p.Servers {
			names = append(names, srv.Name)
		}
		b.WriteString("- Servers: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}
}

func providerMatches(p *model.Provider, tokens []string) bool {
	name := strings.ToLower(p.Name)
	typ := strings.ToLower(string(p.Type))
	for _, tok := range tokens {
		if strings.Contains(name, tok) || strings.Contains(typ, tok) {
			return true
		}
		for _, srv := range p.Servers {
			if strings.Contains(strings.ToLower(srv.Name), tok) {
				return true
			}
		}
	}
	return false
}

func hasGenericInfraKeyword(tokens []string) bool {
	for _, tok := range tokens {
		for _, kw := range genericInfraKeywords {
			if strings.Contains(tok, kw) {
				return true
			}
		}
	}
	return false
}
