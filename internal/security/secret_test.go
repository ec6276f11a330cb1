// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package security_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/infrakeep/infrakeep/internal/security"
)

func TestSecretNeverFormatsItsValue(t *testing.T) {
	s := security.FromString("hunter2")
	for _, got := range []string{
		s.String(),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%#v", s),
		fmt.Sprintf("%x", s),
		s.Redacted(),
	} {
		if strings.Contains(got, "hunter2") {
			t.Fatalf("secret leaked through formatting: %q", got)
		}
	}
}

func TestSecretMarshalRedacts(t *testing.T) {
	s := security.FromString("hunter2")
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"[SECRET]"` {
		t.Errorf("Marshal = %s, want redacted placeholder", raw)
	}
	txt, err := s.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(txt) != "[SECRET]" {
		t.Errorf("MarshalText = %s, want redacted placeholder", txt)
	}
}

func TestSecretBytesAndZero(t *testing.T) {
	s := security.FromString("material")
	b := s.Bytes()
	if string(b) != "material" {
		t.Fatalf("Bytes = %q", b)
	}
	b[0] = 'X'
	if string(s.Bytes()) != "material" {
		t.Error("Bytes did not return an independent copy")
	}

	s.Zero()
	if !strings.HasPrefix(string(s.Bytes()), "\x00") {
		t.Error("Zero did not overwrite the underlying bytes")
	}
	if s.IsZero() {
		t.Error("Zero should not change length, only content")
	}
}

func TestSecretFromBytesCopies(t *testing.T) {
	src := []byte("material")
	s := security.FromBytes(src)
	src[0] = 'X'
	if string(s.Bytes()) != "material" {
		t.Error("FromBytes shares the caller's backing array")
	}
	if security.Secret(nil).IsZero() != true {
		t.Error("nil secret should report IsZero")
	}
}

func TestSecretUse(t *testing.T) {
	s := security.FromString("material")
	var seen string
	err := s.Use(func(b []byte) error {
		seen = string(b)
		return nil
	})
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	if seen != "material" {
		t.Errorf("Use saw %q", seen)
	}
}
