// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package parser

import (
	"regexp"
	"strings"

	"github.com/infrakeep/infrakeep/internal/model"
)

// credentialLabelRe marks a key-value label as credential-bearing. Lines
// with such labels never reach the generic key-value map; only the label
// and an inferred service are recorded, never the value.
var credentialLabelRe = regexp.MustCompile(`(?i)\b(api|key|token|secret|dsn|password|credential)`)

func isCredentialLabel(label string) bool {
	return credentialLabelRe.MatchString(label)
}

// keyPrefixPatterns maps well-known secret prefixes to their service.
// Order matters: more specific prefixes come before generic ones.
var keyPrefixPatterns = []struct {
	re      *regexp.Regexp
	service string
}{
	{regexp.MustCompile(`\bsk-ant-[A-Za-z0-9_-]{8,}`), "anthropic"},
	{regexp.MustCompile(`\bsk-proj-[A-Za-z0-9_-]{8,}`), "openai"},
	{regexp.MustCompile(`\bsk-[A-Za-z0-9]{16,}`), "openai"},
	{regexp.MustCompile(`\bghp_[A-Za-z0-9]{20,}`), "github"},
	{regexp.MustCompile(`\bgho_[A-Za-z0-9]{20,}`), "github"},
	{regexp.MustCompile(`\bglpat-[A-Za-z0-9_-]{16,}`), "gitlab"},
	{regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`), "aws"},
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{30,}`), "google"},
	{regexp.MustCompile(`\bSG\.[A-Za-z0-9_-]{16,}`), "sendgrid"},
	{regexp.MustCompile(`\bdop_v1_[0-9a-f]{16,}`), "digitalocean"},
	{regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}`), "slack"},
}

// serviceHints maps keywords found in labels or section titles to a
// service name, used when no key prefix identifies the value.
var serviceHints = []struct {
	keyword string
	service string
}{
	{"anthropic", "anthropic"},
	{"claude", "anthropic"},
	{"openai", "openai"},
	{"github", "github"},
	{"gitlab", "gitlab"},
	{"bitbucket", "bitbucket"},
	{"sendgrid", "sendgrid"},
	{"digitalocean", "digitalocean"},
	{"cloudflare", "cloudflare"},
	{"datadog", "datadog"},
	{"sentry", "sentry"},
	{"dsn", "sentry"},
	{"firebase", "firebase"},
	{"vercel", "vercel"},
	{"slack", "slack"},
	{"stripe", "stripe"},
	{"amazon", "aws"},
	{"aws", "aws"},
	{"gcp", "google"},
	{"google", "google"},
	{"azure", "azure"},
}

// redactedValueRe recognizes placeholder values: [ENCRYPTED], [REDACTED],
// runs of asterisks, or xxx-style masking.
var redactedValueRe = regexp.MustCompile(`(?i)\[(ENCRYPTED|REDACTED)\]|\*{3,}|\bx{3,}\b`)

// inferService guesses the owning service of a credential: the value's
// key prefix wins, then keyword hints in the label, then in the current
// section title, else "unknown".
func inferService(label, value, section string) string {
	for _, p := range keyPrefixPatterns {
		if p.re.MatchString(value) {
			return p.service
		}
	}
	lower := strings.ToLower(label)
	for _, h := range serviceHints {
		if strings.Contains(lower, h.keyword) {
			return h.service
		}
	}
	lower = strings.ToLower(section)
	for _, h := range serviceHints {
		if strings.Contains(lower, h.keyword) {
			return h.service
		}
	}
	return "unknown"
}

// extractAPIKeyMentions records credential-labeled key-value lines (label
// and inferred service only, never the value) plus standalone key-prefix
// matches on lines not already captured via the label form.
func extractAPIKeyMentions(lines []line, sections []string) []model.APIKeyMention {
	out := []model.APIKeyMention{}
	seen := map[string]bool{}

	for _, l := range lines {
		section := sectionTitle(l, sections)

		if l.label != "" && isCredentialLabel(l.label) {
			mention := model.APIKeyMention{
				Name:       l.label,
				Service:    inferService(l.label, l.value, section),
				IsRedacted: redactedValueRe.MatchString(l.value),
			}
			dedup := strings.ToLower(mention.Name) + "|" + mention.Service
			if !seen[dedup] {
				seen[dedup] = true
				out = append(out, mention)
			}
			continue
		}

		// Standalone scan: a known key prefix on a non-label line is still
		// worth reporting, with a synthesized name.
		for _, p := range keyPrefixPatterns {
			if !p.re.MatchString(l.raw) {
				continue
			}
			mention := model.APIKeyMention{
				Name:    p.service + " key",
				Service: p.service,
			}
			dedup := strings.ToLower(mention.Name) + "|" + mention.Service
			if !seen[dedup] {
				seen[dedup] = true
				out = append(out, mention)
			}
			break
		}
	}
	return out
}

var (
	bareAccountIDRe = regexp.MustCompile(`\b\d{12}\b`)
	uuidRe          = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)
	accountLabelRe  = regexp.MustCompile(`(?i)\b(account|project|subscription)\b`)
)

// accountProviderHints guesses the provider an account identifier
// belongs to from keywords in the same line or current section.
var accountProviderHints = []struct {
	keyword  string
	provider string
}{
	{"amazon", "aws"},
	{"aws", "aws"},
	{"gcp", "gcp"},
	{"google", "gcp"},
	{"azure", "azure"},
	{"digitalocean", "digitalocean"},
}

func guessAccountProvider(context string) string {
	lower := strings.ToLower(context)
	for _, h := range accountProviderHints {
		if strings.Contains(lower, h.keyword) {
			return h.provider
		}
	}
	return ""
}

// extractAccountIDs captures account/project identifiers: explicit
// account-labeled key-value lines, plus bare 12-digit sequences and
// UUID-shaped strings. Bare matches require provider keywords on the
// same line or in the current section, so unrelated numbers are not
// misreported.
func extractAccountIDs(lines []line, sections []string) []model.AccountID {
	out := []model.AccountID{}
	seen := map[string]bool{}

	add := func(provider, id string) {
		if provider == "" {
			provider = "unknown"
		}
		key := provider + "|" + id
		if id == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, model.AccountID{Provider: provider, ID: id})
	}

	for _, l := range lines {
		section := sectionTitle(l, sections)

		if l.label != "" && accountLabelRe.MatchString(l.label) {
			provider := guessAccountProvider(l.label)
			if provider == "" {
				provider = guessAccountProvider(section)
			}
			add(provider, l.value)
			continue
		}

		provider := guessAccountProvider(l.raw)
		if provider == "" {
			provider = guessAccountProvider(section)
		}
		if provider == "" {
			continue
		}
		if m := bareAccountIDRe.FindString(l.raw); m != "" {
			add(provider, m)
		}
		if m := uuidRe.FindString(l.raw); m != "" {
			add(provider, m)
		}
	}
	return out
}
