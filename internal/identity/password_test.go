package identity

import (
	"strings"
	"testing"
)

func TestHashPassword_ProducesVerifiableHash(t *testing.T) {
	hash, err := HashPassword("Senha123!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$2a$10$") {
		t.Errorf("hash = %q, want bcrypt cost-10 prefix", hash)
	}

	if !VerifyPassword("Senha123!", hash) {
		t.Error("VerifyPassword() = false for correct password")
	}
	if VerifyPassword("Senha123?", hash) {
		t.Error("VerifyPassword() = true for wrong password")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("Senha123!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	h2, err := HashPassword("Senha123!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	// Roster-only members are stored with the hash of the empty string.
	hash, err := HashPassword("")
	if err != nil {
		t.Fatalf("HashPassword(\"\") error = %v", err)
	}

	// No real password verifies against it.
	for _, pw := range []string{"Senha123!", "anything", "a"} {
		if VerifyPassword(pw, hash) {
			t.Errorf("VerifyPassword(%q) = true against empty-password hash", pw)
		}
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if VerifyPassword("Senha123!", "not-a-bcrypt-hash") {
		t.Error("VerifyPassword() = true for malformed hash")
	}
}
