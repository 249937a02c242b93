package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in plaintext")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestVerifyPasswordLegacyDigest(t *testing.T) {
	stored := LegacyDigest("password")
	if len(stored) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(stored))
	}
	if !VerifyPassword(stored, "password") {
		t.Error("legacy digest rejected")
	}
	if VerifyPassword(stored, "Password") {
		t.Error("case-variant password accepted against legacy digest")
	}
}

func TestLegacyDigestIsDeterministic(t *testing.T) {
	if LegacyDigest("admin") != LegacyDigest("admin") {
		t.Error("digest not deterministic")
	}
	if LegacyDigest("admin") == LegacyDigest("admin ") {
		t.Error("distinct inputs collide")
	}
	if strings.ToLower(LegacyDigest("admin")) != LegacyDigest("admin") {
		t.Error("digest not lowercase hex")
	}
}
