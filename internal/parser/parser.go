// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// package parser extracts structured infrastructure data from free-form
// text documents. It is stateless: Parse walks the document once into a
// shared line representation, then runs an ordered pipeline of extraction
// passes (sections, IPs, SSH commands, domains, API-key mentions, account
// identifiers, key-value pairs, servers) over it.
//
// Tie-break rule, applied per field in every pass: the first matching
// value wins; later occurrences never overwrite an already-populated
// field, and explicit key-value lines take precedence over heuristically
// scanned bare tokens.
package parser

import (
	"regexp"
	"strings"

	"github.com/infrakeep/infrakeep/internal/model"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	// label: value, optionally as a "-" or "*" bullet
	keyValueRe = regexp.MustCompile(`^\s*[-*]?\s*([^:#][^:]*?)\s*:\s*(.+?)\s*$`)
)

// line is the shared tokenized representation every extraction pass
// operates on.
type line struct {
	raw     string
	heading string // cleaned heading text, empty for body lines
	label   string // key-value label, empty if the line is not label: value
	value   string
	section int // index into the sections slice, -1 before the first heading
}

// Parse runs all extraction passes over text and returns the combined
// structured result. The result never contains raw credential values.
func Parse(text string) model.ExtractedData {
	lines, sections := scan(text)

	data := model.ExtractedData{
		Sections:    sections,
		IPAddresses: extractIPs(lines),
		SSHCommands: extractSSHCommands(lines),
		Domains:     extractDomains(lines),
		KeyValues:   extractKeyValues(lines),
		Servers:     extractServers(lines, sections),
	}
	data.APIKeys = extractAPIKeyMentions(lines, sections)
	data.AccountIDs = extractAccountIDs(lines, sections)
	return data
}

// scan splits text into the shared line representation and collects
// section titles in document order.
func scan(text string) ([]line, []string) {
	rawLines := strings.Split(text, "\n")
	lines := make([]line, 0, len(rawLines))
	sections := []string{}
	current := -1

	for _, raw := range rawLines {
		l := line{raw: raw, section: current}
		if m := headingRe.FindStringSubmatch(raw); m != nil {
			l.heading = strings.TrimSpace(m[2])
			sections = append(sections, l.heading)
			current = len(sections) - 1
			l.section = current
		} else if m := keyValueRe.FindStringSubmatch(raw); m != nil {
			// A "label" followed by // is a URL scheme, not a key-value line.
			if !strings.HasPrefix(strings.TrimSpace(m[2]), "//") {
				l.label = strings.TrimSpace(m[1])
				l.value = strings.TrimSpace(m[2])
			}
		}
		lines = append(lines, l)
	}
	return lines, sections
}

// sectionTitle returns the most recently seen section for a line, or ""
// before the first heading.
func sectionTitle(l line, sections []string) string {
	if l.section < 0 || l.section >= len(sections) {
		return ""
	}
	return sections[l.section]
}

// extractKeyValues collects generic label: value pairs into a flat map.
// Credential-looking labels are excluded here; they are handled
// exclusively by the API-key pass so secret values never land in the
// open map. First occurrence of a label wins.
func extractKeyValues(lines []line) map[string]string {
	out := map[string]string{}
	for _, l := range lines {
		if l.label == "" || l.heading != "" {
			continue
		}
		key := strings.ToLower(l.label)
		if isCredentialLabel(key) {
			continue
		}
		if _, seen := out[key]; !seen {
			out[key] = l.value
		}
	}
	return out
}
