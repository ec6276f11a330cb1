// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/infrakeep/infrakeep/internal/model"
)

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	instanceIDRe    = regexp.MustCompile(`\bi-[0-9a-f]{8,17}\b`)
)

// providerKeywords maps section-heading keywords to a provider-type
// guess for servers discovered in that section.
var providerKeywords = []struct {
	keyword  string
	provider model.ProviderType
}{
	{"amazon", model.ProviderAWS},
	{"aws", model.ProviderAWS},
	{"ec2", model.ProviderAWS},
	{"lightsail", model.ProviderAWS},
	{"gcp", model.ProviderGCP},
	{"google", model.ProviderGCP},
	{"azure", model.ProviderAzure},
	{"digitalocean", model.ProviderDigitalOcean},
	{"digital ocean", model.ProviderDigitalOcean},
	{"droplet", model.ProviderDigitalOcean},
	{"cloudflare", model.ProviderCloudflare},
	{"firebase", model.ProviderFirebase},
	{"vercel", model.ProviderVercel},
	{"godaddy", model.ProviderGoDaddy},
}

func guessProviderType(heading string) model.ProviderType {
	lower := strings.ToLower(heading)
	for _, k := range providerKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.provider
		}
	}
	return model.ProviderCustom
}

// cleanServerName strips parenthetical notes from a heading and
// title-cases the remaining words.
func cleanServerName(heading string) string {
	name := parentheticalRe.ReplaceAllString(heading, "")
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}

// serverBuilder accumulates one candidate server per document section.
// Fields follow first-match-wins: setters only apply to empty fields, so
// explicit key-value lines earlier in the section beat bare tokens
// scanned later.
type serverBuilder struct {
	name         string
	provider     model.ProviderType
	ip           string
	sshUser      string
	sshPort      int
	sshKeyPath   string
	domain       string
	instanceID   string
	instanceType string
}

func newServerBuilder(heading string) *serverBuilder {
	return &serverBuilder{
		name:     cleanServerName(heading),
		provider: guessProviderType(heading),
	}
}

func (b *serverBuilder) setIP(v string) {
	if b.ip == "" && isValidIPv4(v) {
		b.ip = v
	}
}

func (b *serverBuilder) setUser(v string) {
	if b.sshUser == "" && v != "" {
		b.sshUser = v
	}
}

func (b *serverBuilder) setPort(v int) {
	if b.sshPort == 0 && v > 0 {
		b.sshPort = v
	}
}

func (b *serverBuilder) setKeyPath(v string) {
	if b.sshKeyPath == "" && v != "" {
		b.sshKeyPath = v
	}
}

func (b *serverBuilder) setDomain(v string) {
	if b.domain == "" && v != "" {
		b.domain = strings.ToLower(v)
	}
}

// applyKeyValue routes an explicit label: value line into the matching
// builder field.
func (b *serverBuilder) applyKeyValue(label, value string) {
	key := strings.ToLower(label)
	switch {
	case strings.Contains(key, "ssh command"):
		if cmd, ok := ParseSSHCommand(value); ok {
			b.applySSHCommand(cmd)
		}
	case strings.Contains(key, "instance id"):
		if b.instanceID == "" {
			b.instanceID = value
		}
	case strings.Contains(key, "instance type"):
		if b.instanceType == "" {
			b.instanceType = value
		}
	case strings.Contains(key, "ip"):
		b.setIP(value)
	case strings.Contains(key, "user"):
		b.setUser(value)
	case strings.Contains(key, "port"):
		if p, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			b.setPort(p)
		}
	case key == "key" || strings.Contains(key, "key path") || strings.Contains(key, "key file") || strings.Contains(key, "ssh key") || strings.Contains(key, "identity"):
		b.setKeyPath(value)
	case strings.Contains(key, "domain") || strings.Contains(key, "hostname"):
		b.setDomain(value)
	case strings.Contains(key, "host") || strings.Contains(key, "address"):
		if isValidIPv4(value) {
			b.setIP(value)
		} else {
			b.setDomain(value)
		}
	}
}

// applySSHCommand back-fills still-empty connection fields from a parsed
// ssh invocation without overwriting explicit earlier values.
func (b *serverBuilder) applySSHCommand(cmd model.SSHCommand) {
	b.setIP(cmd.Host)
	if b.ip == "" && b.domain == "" && cmd.Host != "" {
		b.domain = strings.ToLower(cmd.Host)
	}
	b.setUser(cmd.User)
	b.setPort(cmd.Port)
	b.setKeyPath(cmd.KeyPath)
}

// scanBody back-fills from bare tokens in a non key-value body line.
func (b *serverBuilder) scanBody(raw string) {
	if b.ip == "" {
		for _, m := range ipv4Re.FindAllString(raw, -1) {
			if isValidIPv4(m) {
				b.ip = m
				break
			}
		}
	}
	if b.instanceID == "" {
		if m := instanceIDRe.FindString(raw); m != "" {
			b.instanceID = m
		}
	}
}

// finalize emits the accumulated candidate if it gathered an IP address.
// Defaults are applied here (user root, port 22) and the derived SSH
// command is generated from the final field values.
func (b *serverBuilder) finalize() (model.Server, bool) {
	if b == nil || b.ip == "" || b.name == "" {
		return model.Server{}, false
	}
	s := model.Server{
		Name:         b.name,
		IP:           b.ip,
		Provider:     b.provider,
		InstanceID:   b.instanceID,
		InstanceType: b.instanceType,
		SSHUser:      b.sshUser,
		SSHPort:      b.sshPort,
		SSHKeyPath:   b.sshKeyPath,
		Domain:       b.domain,
	}
	if s.SSHUser == "" {
		s.SSHUser = "root"
	}
	if s.SSHPort == 0 {
		s.SSHPort = 22
	}
	s.RegenerateSSHCommand()
	return s, true
}

// extractServers walks the document section by section. Each heading
// starts a new candidate seeded from the heading text; key-value lines,
// embedded ssh commands and bare tokens populate it; the candidate is
// emitted when the next heading (or the document end) closes the
// section, provided it accumulated an IP.
func extractServers(lines []line, sections []string) []model.Server {
	out := []model.Server{}
	var current *serverBuilder

	flush := func() {
		if s, ok := current.finalize(); ok {
			out = append(out, s)
		}
		current = nil
	}

	for _, l := range lines {
		if l.heading != "" {
			flush()
			current = newServerBuilder(l.heading)
			continue
		}
		if current == nil {
			continue
		}
		if l.label != "" {
			current.applyKeyValue(l.label, l.value)
			continue
		}
		if sshStartRe.MatchString(l.raw) {
			for _, m := range sshCommandRe.FindAllString(l.raw, -1) {
				if cmd, ok := ParseSSHCommand(m); ok {
					current.applySSHCommand(cmd)
				}
			}
		}
		current.scanBody(l.raw)
	}
	flush()
	return out
}
