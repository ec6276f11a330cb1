// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package crypto_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/infrakeep/infrakeep/internal/crypto"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	salt, err := crypto.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	return crypto.DeriveKey([]byte("correct horse battery staple"), salt)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)
	cases := []string{
		"simple value",
		"",
		"unicode: héllo wörld 你好 🌍 Ω≈ç√",
		strings.Repeat("long-plaintext-", 1000), // 15,000 chars
		"line\nbreaks\tand\x00binary-safe text",
	}
	for _, plaintext := range cases {
		payload, err := crypto.Encrypt(plaintext, key)
		if err != nil {
			t.Fatalf("Encrypt(%q...): %v", truncate(plaintext), err)
		}
		got, err := crypto.Decrypt(payload.Ciphertext, key, payload.IV, payload.AuthTag)
		if err != nil {
			t.Fatalf("Decrypt(%q...): %v", truncate(plaintext), err)
		}
		if got != plaintext {
			t.Errorf("round trip mismatch for %q...", truncate(plaintext))
		}
	}
}

func truncate(s string) string {
	if len(s) > 24 {
		return s[:24]
	}
	return s
}

func TestEncryptProducesFreshIV(t *testing.T) {
	key := testKey(t)
	first, err := crypto.Encrypt("same plaintext", key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	second, err := crypto.Encrypt("same plaintext", key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if first.IV == second.IV {
		t.Error("two encryptions reused the same IV")
	}
	if first.Ciphertext == second.Ciphertext {
		t.Error("two encryptions produced identical ciphertext")
	}
	iv, err := base64.StdEncoding.DecodeString(first.IV)
	if err != nil {
		t.Fatalf("IV is not valid base64: %v", err)
	}
	if len(iv) != crypto.IVSize {
		t.Errorf("IV length = %d, want %d", len(iv), crypto.IVSize)
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	key := testKey(t)
	payload, err := crypto.Encrypt("super secret", key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	t.Run("wrong key", func(t *testing.T) {
		other := testKey(t)
		if _, err := crypto.Decrypt(payload.Ciphertext, other, payload.IV, payload.AuthTag); !errors.Is(err, crypto.ErrAuthentication) {
			t.Errorf("want ErrAuthentication, got %v", err)
		}
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		raw, _ := base64.StdEncoding.DecodeString(payload.Ciphertext)
		raw[0] ^= 0xff
		tampered := base64.StdEncoding.EncodeToString(raw)
		if _, err := crypto.Decrypt(tampered, key, payload.IV, payload.AuthTag); !errors.Is(err, crypto.ErrAuthentication) {
			t.Errorf("want ErrAuthentication, got %v", err)
		}
	})

	t.Run("flipped auth tag bit", func(t *testing.T) {
		raw, _ := base64.StdEncoding.DecodeString(payload.AuthTag)
		raw[len(raw)-1] ^= 0x01
		tampered := base64.StdEncoding.EncodeToString(raw)
		if _, err := crypto.Decrypt(payload.Ciphertext, key, payload.IV, tampered); !errors.Is(err, crypto.ErrAuthentication) {
			t.Errorf("want ErrAuthentication, got %v", err)
		}
	})

	t.Run("mismatched iv", func(t *testing.T) {
		other, err := crypto.Encrypt("other", key)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if _, err := crypto.Decrypt(payload.Ciphertext, key, other.IV, payload.AuthTag); !errors.Is(err, crypto.ErrAuthentication) {
			t.Errorf("want ErrAuthentication, got %v", err)
		}
	})
}

func TestDecryptMalformedInputDistinctFromAuthFailure(t *testing.T) {
	key := testKey(t)
	payload, err := crypto.Encrypt("value", key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	_, err = crypto.Decrypt("not!!!base64", key, payload.IV, payload.AuthTag)
	if !errors.Is(err, crypto.ErrMalformed) {
		t.Errorf("want ErrMalformed for bad ciphertext encoding, got %v", err)
	}
	if errors.Is(err, crypto.ErrAuthentication) {
		t.Error("malformed input must not be reported as an authentication failure")
	}

	shortIV := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := crypto.Decrypt(payload.Ciphertext, key, shortIV, payload.AuthTag); !errors.Is(err, crypto.ErrMalformed) {
		t.Errorf("want ErrMalformed for short IV, got %v", err)
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	a := crypto.DeriveKey([]byte("password"), salt)
	b := crypto.DeriveKey([]byte("password"), salt)
	if string(a) != string(b) {
		t.Error("same password and salt derived different keys")
	}
	if len(a) != crypto.KeySize {
		t.Errorf("key length = %d, want %d", len(a), crypto.KeySize)
	}

	c := crypto.DeriveKey([]byte("passwore"), salt)
	if string(a) == string(c) {
		t.Error("different passwords derived the same key")
	}
	otherSalt, err := crypto.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	d := crypto.DeriveKey([]byte("password"), otherSalt)
	if string(a) == string(d) {
		t.Error("different salts derived the same key")
	}
}

func TestGenerateSaltIsRandom(t *testing.T) {
	a, err := crypto.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	b, err := crypto.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	if len(a) != crypto.SaltSize {
		t.Errorf("salt length = %d, want %d", len(a), crypto.SaltSize)
	}
	if string(a) == string(b) {
		t.Error("two salts were identical")
	}
}

func TestHashValue(t *testing.T) {
	digest := crypto.HashValue("value")
	if len(digest) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(digest))
	}
	if digest != crypto.HashValue("value") {
		t.Error("hash is not deterministic")
	}
	if digest == crypto.HashValue("other") {
		t.Error("different inputs hashed identically")
	}
}

func TestSecureCompare(t *testing.T) {
	if !crypto.SecureCompare("same", "same") {
		t.Error("equal strings compared unequal")
	}
	if crypto.SecureCompare("same", "different") {
		t.Error("different strings compared equal")
	}
	if crypto.SecureCompare("short", "short-but-longer") {
		t.Error("different-length strings compared equal")
	}
	if !crypto.SecureCompare("", "") {
		t.Error("empty strings compared unequal")
	}
}

func TestGeneratePassword(t *testing.T) {
	pw, err := crypto.GeneratePassword(0)
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if len(pw) != crypto.DefaultPasswordLength {
		t.Errorf("default length = %d, want %d", len(pw), crypto.DefaultPasswordLength)
	}

	pw, err = crypto.GeneratePassword(64)
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if len(pw) != 64 {
		t.Errorf("length = %d, want 64", len(pw))
	}

	other, err := crypto.GeneratePassword(64)
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if pw == other {
		t.Error("two generated passwords were identical")
	}
}
