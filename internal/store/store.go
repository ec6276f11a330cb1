// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// package store implements the file-backed persistence layer of the
// knowledge base: one JSON index document, one JSON file per provider,
// raw copies of imported documents, and restricted-permission files for
// the encrypted credential list and the key-derivation salt.
package store

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/infrakeep/infrakeep/internal/logging"
	"github.com/infrakeep/infrakeep/internal/model"
)

const (
	providersDir = "providers"
	documentsDir = "documents"
	indexFile    = "index.json"
	credsFile    = "credentials.json"
	saltFile     = "salt"

	dirPerm  = 0o700
	filePerm = 0o600
)

// Store reads and writes the on-disk layout rooted at a base directory.
// Every method completes its I/O before returning; there is no write-back
// caching.
type Store struct {
	baseDir string
}

// New returns a store rooted at baseDir. The directory layout is created
// lazily by EnsureLayout.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the root directory of the on-disk layout.
func (s *Store) BaseDir() string { return s.baseDir }

// EnsureLayout creates the base, providers and documents directories.
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{
		s.baseDir,
		filepath.Join(s.baseDir, providersDir),
		filepath.Join(s.baseDir, documentsDir),
	} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LoadIndex reads the persisted index document. Returns ErrNotFound when
// no index has been written yet.
func (s *Store) LoadIndex() (*model.KnowledgeBaseIndex, error) {
	var idx model.KnowledgeBaseIndex
	if err := s.readJSON(filepath.Join(s.baseDir, indexFile), &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// SaveIndex persists the index document.
func (s *Store) SaveIndex(idx *model.KnowledgeBaseIndex) error {
	return s.writeJSON(filepath.Join(s.baseDir, indexFile), idx)
}

// LoadProviders reads every provider file. A missing or corrupt
// individual file is logged and skipped so one bad record never blocks
// the rest of the knowledge base from loading.
func (s *Store) LoadProviders() ([]*model.Provider, error) {
	dir := filepath.Join(s.baseDir, providersDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read providers directory: %w", err)
	}

	var providers []*model.Provider
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var p model.Provider
		path := filepath.Join(dir, e.Name())
		if err := s.readJSON(path, &p); err != nil {
			logging.Warnf("skipping unreadable provider file %s: %v", e.Name(), err)
			continue
		}
		if p.ID == "" {
			logging.Warnf("skipping provider file %s: missing id", e.Name())
			continue
		}
		providers = append(providers, &p)
	}
	return providers, nil
}

// ListProviderIDs returns the ids of every provider file on disk,
// including files whose contents would be skipped by LoadProviders.
func (s *Store) ListProviderIDs() ([]string, error) {
	dir := filepath.Join(s.baseDir, providersDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read providers directory: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}

// SaveProvider persists one provider record, including its nested
// servers and imported documents.
func (s *Store) SaveProvider(p *model.Provider) error {
	return s.writeJSON(filepath.Join(s.baseDir, providersDir, p.ID+".json"), p)
}

// DeleteProvider removes a provider's backing file. Deleting a provider
// that has no file is not an error.
func (s *Store) DeleteProvider(id string) error {
	err := os.Remove(filepath.Join(s.baseDir, providersDir, id+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete provider file: %w", err)
	}
	return nil
}

// LoadCredentials reads the encrypted credential list. Returns an empty
// list when the file does not exist yet.
func (s *Store) LoadCredentials() ([]model.EncryptedCredential, error) {
	var creds []model.EncryptedCredential
	err := s.readJSON(filepath.Join(s.baseDir, credsFile), &creds)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return creds, nil
}

// SaveCredentials persists the full encrypted credential list with
// restricted permissions.
func (s *Store) SaveCredentials(creds []model.EncryptedCredential) error {
	if creds == nil {
		creds = []model.EncryptedCredential{}
	}
	return s.writeJSON(filepath.Join(s.baseDir, credsFile), creds)
}

// LoadSalt reads the base64-encoded key-derivation salt. Returns
// ErrNotFound before the first unlock.
func (s *Store) LoadSalt() ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.baseDir, saltFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read salt: %w", err)
	}
	salt, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	return salt, nil
}

// SaveSalt persists the salt with restricted permissions. The salt is
// not secret on its own but lives next to the credential store.
func (s *Store) SaveSalt(salt []byte) error {
	encoded := base64.StdEncoding.EncodeToString(salt)
	if err := os.WriteFile(filepath.Join(s.baseDir, saltFile), []byte(encoded), filePerm); err != nil {
		return fmt.Errorf("write salt: %w", err)
	}
	return nil
}

// WriteDocumentCopy stores the raw text of an imported document, named
// by document id and sanitized original filename.
func (s *Store) WriteDocumentCopy(docID, filename, content string) error {
	name := fmt.Sprintf("%s_%s", docID, sanitizeFilename(filename))
	path := filepath.Join(s.baseDir, documentsDir, name)
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return fmt.Errorf("write document copy: %w", err)
	}
	return nil
}

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// sanitizeFilename keeps document copies inside the documents directory
// regardless of what the original filename contained.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "document"
	}
	return name
}

func (s *Store) readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Store) writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
