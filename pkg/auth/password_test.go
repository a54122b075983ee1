package auth

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "Secret123!" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPassword("Secret123!", hash) {
		t.Fatal("expected password to match its hash")
	}
	if CheckPassword("wrong-password1", hash) {
		t.Fatal("wrong password should not match")
	}
}

func TestHashPasswordProducesUniqueHashes(t *testing.T) {
	first, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Fatal("expected salted hashes to differ")
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Secret123!", false},
		{"too short", "ab1", true},
		{"no digit", "abcdefgh", true},
		{"no letter", "12345678", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr && !errors.Is(err, ErrPasswordTooWeak) {
				t.Fatalf("expected ErrPasswordTooWeak, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
