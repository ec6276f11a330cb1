// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	ipv4Re   = regexp.MustCompile(`\b(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\b`)
	domainRe = regexp.MustCompile(`\b([a-zA-Z0-9][a-zA-Z0-9-]*\.)+[a-zA-Z]{2,}\b`)
)

// isValidIPv4 reports whether s is a dotted quad with every octet in
// 0-255. Quads like 999.1.1.1 are rejected rather than clamped.
func isValidIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// extractIPs collects every valid IPv4 substring, deduplicated, in order
// of first occurrence.
func extractIPs(lines []line) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, l := range lines {
		for _, m := range ipv4Re.FindAllString(l.raw, -1) {
			if !isValidIPv4(m) || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// extractDomains collects hostname-like tokens with a 2+ letter final
// label, excluding IPv4 lookalikes and the literal token localhost.
// Results are lower-cased and deduplicated.
func extractDomains(lines []line) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, l := range lines {
		for _, m := range domainRe.FindAllString(l.raw, -1) {
			d := strings.ToLower(m)
			if d == "localhost" || isValidIPv4(d) {
				continue
			}
			if seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
