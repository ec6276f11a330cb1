// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/infrakeep/infrakeep/internal/model"
	"github.com/infrakeep/infrakeep/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(t.TempDir())
	if err := s.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout: %v", err)
	}
	return s
}

func TestEnsureLayoutCreatesDirectories(t *testing.T) {
	s := newStore(t)
	for _, dir := range []string{"providers", "documents"} {
		info, err := os.Stat(filepath.Join(s.BaseDir(), dir))
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
	// Calling again on an existing layout is a no-op.
	if err := s.EnsureLayout(); err != nil {
		t.Errorf("second EnsureLayout: %v", err)
	}
}

func TestProviderRoundTrip(t *testing.T) {
	s := newStore(t)
	p := &model.Provider{
		ID:   "prov-1",
		Type: model.ProviderAWS,
		Name: "Amazon Web Services",
		Servers: []model.Server{
			{ID: "srv-1", Name: "Prod", IP: "10.0.0.1", SSHUser: "ubuntu", SSHPort: 22},
		},
	}
	if err := s.SaveProvider(p); err != nil {
		t.Fatalf("SaveProvider: %v", err)
	}

	loaded, err := s.LoadProviders()
	if err != nil {
		t.Fatalf("LoadProviders: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d providers, want 1", len(loaded))
	}
	got := loaded[0]
	if got.ID != "prov-1" || got.Type != model.ProviderAWS {
		t.Errorf("loaded provider = %+v", got)
	}
	if len(got.Servers) != 1 || got.Servers[0].IP != "10.0.0.1" {
		t.Errorf("nested servers = %+v", got.Servers)
	}
}

func TestLoadProvidersSkipsBadFiles(t *testing.T) {
	s := newStore(t)
	if err := s.SaveProvider(&model.Provider{ID: "good", Type: model.ProviderGCP}); err != nil {
		t.Fatalf("SaveProvider: %v", err)
	}
	dir := filepath.Join(s.BaseDir(), "providers")
	if err := os.WriteFile(filepath.Join(dir, "corrupt.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "noid.json"), []byte("{}"), 0o600); err != nil {
		t.Fatalf("write id-less file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	loaded, err := s.LoadProviders()
	if err != nil {
		t.Fatalf("LoadProviders: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "good" {
		t.Errorf("loaded = %+v, want only the good record", loaded)
	}
}

func TestDeleteProvider(t *testing.T) {
	s := newStore(t)
	if err := s.SaveProvider(&model.Provider{ID: "p1"}); err != nil {
		t.Fatalf("SaveProvider: %v", err)
	}
	if err := s.DeleteProvider("p1"); err != nil {
		t.Fatalf("DeleteProvider: %v", err)
	}
	loaded, err := s.LoadProviders()
	if err != nil {
		t.Fatalf("LoadProviders: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("provider file still loads after delete: %+v", loaded)
	}
	// Deleting a provider that never existed is not an error.
	if err := s.DeleteProvider("missing"); err != nil {
		t.Errorf("DeleteProvider(missing): %v", err)
	}
}

func TestIndexRoundTripAndNotFound(t *testing.T) {
	s := newStore(t)
	if _, err := s.LoadIndex(); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("LoadIndex before save: want ErrNotFound, got %v", err)
	}

	idx := model.NewIndex()
	idx.ProvidersByType["aws"] = []string{"prov-1"}
	if err := s.SaveIndex(idx); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}
	got, err := s.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if got.Version != idx.Version {
		t.Errorf("Version = %d, want %d", got.Version, idx.Version)
	}
	if len(got.ProvidersByType["aws"]) != 1 {
		t.Errorf("ProvidersByType = %v", got.ProvidersByType)
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	s := newStore(t)
	creds, err := s.LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials before save: %v", err)
	}
	if len(creds) != 0 {
		t.Fatalf("want empty list before first save, got %v", creds)
	}

	in := []model.EncryptedCredential{
		{ID: "c1", Name: "db", Service: "postgres", Ciphertext: "ct", IV: "iv", AuthTag: "tag"},
	}
	if err := s.SaveCredentials(in); err != nil {
		t.Fatalf("SaveCredentials: %v", err)
	}
	out, err := s.LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if len(out) != 1 || out[0].ID != "c1" || out[0].Ciphertext != "ct" {
		t.Errorf("loaded = %+v", out)
	}

	info, err := os.Stat(filepath.Join(s.BaseDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("stat credentials file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credentials file permissions = %o, want 600", perm)
	}
}

func TestSaltRoundTrip(t *testing.T) {
	s := newStore(t)
	if _, err := s.LoadSalt(); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("LoadSalt before save: want ErrNotFound, got %v", err)
	}
	salt := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := s.SaveSalt(salt); err != nil {
		t.Fatalf("SaveSalt: %v", err)
	}
	got, err := s.LoadSalt()
	if err != nil {
		t.Fatalf("LoadSalt: %v", err)
	}
	if string(got) != string(salt) {
		t.Errorf("salt round trip mismatch: %v", got)
	}
}

func TestWriteDocumentCopySanitizesFilename(t *testing.T) {
	s := newStore(t)
	if err := s.WriteDocumentCopy("doc-1", "../../etc/pass wd?.md", "content"); err != nil {
		t.Fatalf("WriteDocumentCopy: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(s.BaseDir(), "documents"))
	if err != nil {
		t.Fatalf("read documents dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("documents dir has %d entries, want 1", len(entries))
	}
	name := entries[0].Name()
	if name != "doc-1_pass_wd_.md" {
		t.Errorf("stored name = %q, want path and unsafe characters stripped", name)
	}
	raw, err := os.ReadFile(filepath.Join(s.BaseDir(), "documents", name))
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(raw) != "content" {
		t.Errorf("copy content = %q", raw)
	}
}
