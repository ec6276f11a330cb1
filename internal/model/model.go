// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core domain types of the Infrakeep knowledge
// base: providers, servers, encrypted credentials, imported documents and
// the derived lookup index. Types here are plain data carriers; behavior
// lives in the kb, parser and securestore packages.
package model

import (
	"fmt"
	"time"
)

// ProviderType identifies a configured external service account.
type ProviderType string

const (
	ProviderAWS          ProviderType = "aws"
	ProviderGCP          ProviderType = "gcp"
	ProviderAzure        ProviderType = "azure"
	ProviderCloudflare   ProviderType = "cloudflare"
	ProviderDigitalOcean ProviderType = "digitalocean"
	ProviderFirebase     ProviderType = "firebase"
	ProviderVercel       ProviderType = "vercel"
	ProviderSentry       ProviderType = "sentry"
	ProviderGitHub       ProviderType = "github"
	ProviderBitbucket    ProviderType = "bitbucket"
	ProviderGitLab       ProviderType = "gitlab"
	ProviderSendGrid     ProviderType = "sendgrid"
	ProviderDatadog      ProviderType = "datadog"
	ProviderGoDaddy      ProviderType = "godaddy"
	ProviderCustom       ProviderType = "custom"
)

// ProviderCategory groups provider types into coarse buckets for display
// and filtering.
type ProviderCategory string

const (
	CategoryCloud      ProviderCategory = "cloud"
	CategoryCDN        ProviderCategory = "cdn"
	CategoryHosting    ProviderCategory = "hosting"
	CategoryMonitoring ProviderCategory = "monitoring"
	CategoryVCS        ProviderCategory = "vcs"
	CategoryEmail      ProviderCategory = "email"
	CategoryDomain     ProviderCategory = "domain"
	CategoryCustom     ProviderCategory = "custom"
)

// ConnectionKind describes how a provider is reached.
type ConnectionKind string

const (
	ConnectionAPI ConnectionKind = "api"
	ConnectionSSH ConnectionKind = "ssh"
	ConnectionCLI ConnectionKind = "cli"
)

// providerInfo holds the static per-type defaults applied when a provider
// is created without explicit values.
type providerInfo struct {
	Name     string
	Emoji    string
	Category ProviderCategory
}

var providerDefaults = map[ProviderType]providerInfo{
	ProviderAWS:          {"Amazon Web Services", "🟠", CategoryCloud},
	ProviderGCP:          {"Google Cloud", "🔵", CategoryCloud},
	ProviderAzure:        {"Microsoft Azure", "🔷", CategoryCloud},
	ProviderCloudflare:   {"Cloudflare", "🟧", CategoryCDN},
	ProviderDigitalOcean: {"DigitalOcean", "🌊", CategoryCloud},
	ProviderFirebase:     {"Firebase", "🔥", CategoryCloud},
	ProviderVercel:       {"Vercel", "▲", CategoryHosting},
	ProviderSentry:       {"Sentry", "🛡️", CategoryMonitoring},
	ProviderGitHub:       {"GitHub", "🐙", CategoryVCS},
	ProviderBitbucket:    {"Bitbucket", "🪣", CategoryVCS},
	ProviderGitLab:       {"GitLab", "🦊", CategoryVCS},
	ProviderSendGrid:     {"SendGrid", "📧", CategoryEmail},
	ProviderDatadog:      {"Datadog", "🐶", CategoryMonitoring},
	ProviderGoDaddy:      {"GoDaddy", "🌐", CategoryDomain},
	ProviderCustom:       {"Custom Service", "⚙️", CategoryCustom},
}

// DefaultDisplayName returns the human-readable name for a provider type.
func DefaultDisplayName(t ProviderType) string {
	if info, ok := providerDefaults[t]; ok {
		return info.Name
	}
	return providerDefaults[ProviderCustom].Name
}

// DefaultEmoji returns the display emoji for a provider type.
func DefaultEmoji(t ProviderType) string {
	if info, ok := providerDefaults[t]; ok {
		return info.Emoji
	}
	return providerDefaults[ProviderCustom].Emoji
}

// CategoryFor maps a provider type to its display category.
func CategoryFor(t ProviderType) ProviderCategory {
	if info, ok := providerDefaults[t]; ok {
		return info.Category
	}
	return CategoryCustom
}

// KnownProviderTypes returns all provider types with static defaults.
func KnownProviderTypes() []ProviderType {
	out := make([]ProviderType, 0, len(providerDefaults))
	for t := range providerDefaults {
		out = append(out, t)
	}
	return out
}

// Connection holds how a provider account is reached. AccountID is
// sensitive and must never appear in AI-facing summaries.
type Connection struct {
	Kind      ConnectionKind `json:"kind"`
	Region    string         `json:"region,omitempty"`
	AccountID string         `json:"accountId,omitempty"`
}

// Provider is a configured external cloud/SaaS account tracked locally.
// A provider exclusively owns its servers and imported documents.
type Provider struct {
	ID         string             `json:"id"`
	Type       ProviderType       `json:"type"`
	Name       string             `json:"name"`
	Emoji      string             `json:"emoji,omitempty"`
	Category   ProviderCategory   `json:"category"`
	Connection Connection         `json:"connection"`
	Servers    []Server           `json:"servers"`
	Documents  []ImportedDocument `json:"documents"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// Server is an SSH-reachable host owned by exactly one provider.
type Server struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	IP            string       `json:"ip"`
	Provider      ProviderType `json:"provider"`
	InstanceID    string       `json:"instanceId,omitempty"`
	InstanceType  string       `json:"instanceType,omitempty"`
	SSHUser       string       `json:"sshUser"`
	SSHPort       int          `json:"sshPort"`
	SSHKeyPath    string       `json:"sshKeyPath,omitempty"`
	Domain        string       `json:"domain,omitempty"`
	SSHCommand    string       `json:"sshCommand"`
	Notes         string       `json:"notes,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	LastConnected *time.Time   `json:"lastConnected,omitempty"`
}

// BuildSSHCommand derives the canonical ssh invocation for the given
// connection fields. The result must be regenerated whenever any of the
// four inputs changes.
func BuildSSHCommand(keyPath string, port int, user, host string) string {
	cmd := "ssh"
	if keyPath != "" {
		cmd += fmt.Sprintf(" -i %s", keyPath)
	}
	if port != 0 && port != 22 {
		cmd += fmt.Sprintf(" -p %d", port)
	}
	return fmt.Sprintf("%s %s@%s", cmd, user, host)
}

// RegenerateSSHCommand recomputes the derived SSH command from the
// server's current field values.
func (s *Server) RegenerateSSHCommand() {
	user := s.SSHUser
	if user == "" {
		user = "root"
	}
	port := s.SSHPort
	if port == 0 {
		port = 22
	}
	s.SSHCommand = BuildSSHCommand(s.SSHKeyPath, port, user, s.IP)
}

// EncryptedCredential is a secret value at rest. The plaintext never
// exists outside the moment of encryption or decryption.
type EncryptedCredential struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Service    string     `json:"service"`
	Ciphertext string     `json:"ciphertext"`
	IV         string     `json:"iv"`
	AuthTag    string     `json:"authTag"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsed   *time.Time `json:"lastUsed,omitempty"`
}

// DocumentType tags the original format of an imported document.
type DocumentType string

const (
	DocMarkdown DocumentType = "md"
	DocText     DocumentType = "txt"
	DocJSON     DocumentType = "json"
	DocYAML     DocumentType = "yaml"
)

// ImportedDocument is the audit record of a parsed input document.
type ImportedDocument struct {
	ID         string        `json:"id"`
	Filename   string        `json:"filename"`
	Type       DocumentType  `json:"type"`
	ImportedAt time.Time     `json:"importedAt"`
	Content    string        `json:"content"`
	Extracted  ExtractedData `json:"extracted"`
}

// APIKeyMention records that a credential-looking line was seen in a
// document. Only the label and inferred service are retained; the value
// itself is never stored.
type APIKeyMention struct {
	Name       string `json:"name"`
	Service    string `json:"service"`
	IsRedacted bool   `json:"isRedacted"`
}

// SSHCommand is a parsed ssh invocation found in a document.
type SSHCommand struct {
	Raw     string `json:"raw"`
	User    string `json:"user"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	KeyPath string `json:"keyPath,omitempty"`
}

// AccountID pairs a best-guess provider with an account or project
// identifier found in a document.
type AccountID struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
}

// ExtractedData is the parser's structured output. It must never carry
// raw credential values, only metadata about where one was seen.
type ExtractedData struct {
	Servers     []Server          `json:"servers"`
	APIKeys     []APIKeyMention   `json:"apiKeys"`
	Domains     []string          `json:"domains"`
	IPAddresses []string          `json:"ipAddresses"`
	SSHCommands []SSHCommand      `json:"sshCommands"`
	AccountIDs  []AccountID       `json:"accountIds"`
	Sections    []string          `json:"sections"`
	KeyValues   map[string]string `json:"keyValues"`
}

// KnowledgeBaseIndex is the derived lookup structure. It is always a pure
// function of the provider and credential collections and can be rebuilt
// from primary data at any time.
type KnowledgeBaseIndex struct {
	Version           int                 `json:"version"`
	UpdatedAt         time.Time           `json:"updatedAt"`
	ProvidersByType   map[string][]string `json:"providersByType"`
	ServersByProvider map[string][]string `json:"serversByProvider"`
	CredsByService    map[string][]string `json:"credsByService"`
	SearchKeywords    map[string][]string `json:"searchKeywords"`
}

// NewIndex returns an empty index with all buckets allocated.
func NewIndex() *KnowledgeBaseIndex {
	return &KnowledgeBaseIndex{
		Version:           1,
		UpdatedAt:         time.Now(),
		ProvidersByType:   map[string][]string{},
		ServersByProvider: map[string][]string{},
		CredsByService:    map[string][]string{},
		SearchKeywords:    map[string][]string{},
	}
}

// TerminalKind selects where quick-action SSH sessions open.
type TerminalKind string

const (
	TerminalIntegrated TerminalKind = "integrated"
	TerminalExternal   TerminalKind = "external"
)

// Preferences is the flat user-preference record persisted via the
// config layer.
type Preferences struct {
	AutoInjectContext       bool         `json:"autoInjectContext" mapstructure:"auto_inject_context" yaml:"auto_inject_context"`
	ShowSSHSuggestions      bool         `json:"showSshSuggestions" mapstructure:"show_ssh_suggestions" yaml:"show_ssh_suggestions"`
	DefaultTerminal         TerminalKind `json:"defaultTerminal" mapstructure:"default_terminal" yaml:"default_terminal"`
	ConfirmSSHCommands      bool         `json:"confirmSshCommands" mapstructure:"confirm_ssh_commands" yaml:"confirm_ssh_commands"`
	AutoDiscoverCredentials bool         `json:"autoDiscoverCredentials" mapstructure:"auto_discover_credentials" yaml:"auto_discover_credentials"`
	PasswordHint            string       `json:"passwordHint,omitempty" mapstructure:"password_hint" yaml:"password_hint,omitempty"`
}

// DefaultPreferences returns the preference record used before the user
// has saved any configuration.
func DefaultPreferences() Preferences {
	return Preferences{
		AutoInjectContext:  true,
		ShowSSHSuggestions: true,
		DefaultTerminal:    TerminalIntegrated,
		ConfirmSSHCommands: true,
	}
}
