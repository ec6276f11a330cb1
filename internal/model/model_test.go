// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package model_test

import (
	"testing"

	"github.com/infrakeep/infrakeep/internal/model"
)

func TestBuildSSHCommand(t *testing.T) {
	cases := []struct {
		keyPath string
		port    int
		user    string
		host    string
		want    string
	}{
		{"", 22, "root", "10.0.0.1", "ssh root@10.0.0.1"},
		{"", 2222, "root", "10.0.0.1", "ssh -p 2222 root@10.0.0.1"},
		{"~/.ssh/id.pem", 22, "ubuntu", "10.0.0.1", "ssh -i ~/.ssh/id.pem ubuntu@10.0.0.1"},
		{"~/.ssh/id.pem", 2222, "ubuntu", "10.0.0.1", "ssh -i ~/.ssh/id.pem -p 2222 ubuntu@10.0.0.1"},
		{"", 0, "root", "10.0.0.1", "ssh root@10.0.0.1"},
	}
	for _, c := range cases {
		if got := model.BuildSSHCommand(c.keyPath, c.port, c.user, c.host); got != c.want {
			t.Errorf("BuildSSHCommand(%q, %d, %q, %q) = %q, want %q", c.keyPath, c.port, c.user, c.host, got, c.want)
		}
	}
}

func TestRegenerateSSHCommandAppliesDefaults(t *testing.T) {
	s := model.Server{IP: "10.0.0.9"}
	s.RegenerateSSHCommand()
	if s.SSHCommand != "ssh root@10.0.0.9" {
		t.Errorf("SSHCommand = %q, want root/22 defaults", s.SSHCommand)
	}

	s = model.Server{IP: "10.0.0.9", SSHUser: "deploy", SSHPort: 2200, SSHKeyPath: "/k.pem"}
	s.RegenerateSSHCommand()
	if s.SSHCommand != "ssh -i /k.pem -p 2200 deploy@10.0.0.9" {
		t.Errorf("SSHCommand = %q", s.SSHCommand)
	}
}

func TestProviderDefaults(t *testing.T) {
	if got := model.DefaultDisplayName(model.ProviderAWS); got == "" {
		t.Error("aws has no default display name")
	}
	if got := model.DefaultEmoji(model.ProviderAWS); got == "" {
		t.Error("aws has no default emoji")
	}
	if got := model.CategoryFor(model.ProviderAWS); got != model.CategoryCloud {
		t.Errorf("CategoryFor(aws) = %q, want cloud", got)
	}
	// Unknown types fall back to usable values instead of empty strings.
	if got := model.DefaultDisplayName(model.ProviderType("doesnotexist")); got == "" {
		t.Error("unknown provider type has no fallback display name")
	}
}

func TestNewIndexAllocatesBuckets(t *testing.T) {
	idx := model.NewIndex()
	if idx.ProvidersByType == nil || idx.ServersByProvider == nil ||
		idx.CredsByService == nil || idx.SearchKeywords == nil {
		t.Error("NewIndex left a bucket nil")
	}
	if idx.Version == 0 {
		t.Error("NewIndex should stamp a schema version")
	}
}
