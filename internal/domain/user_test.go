package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("alice", "Alice@Example.com", "password123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %s", user.Username)
	}

	// Email is normalized to lowercase at construction time.
	if user.Email != "alice@example.com" {
		t.Errorf("Expected lowercased email, got %s", user.Email)
	}

	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test trimming of surrounding whitespace
	user, err = NewUser("  bob  ", " bob@example.com ", "password123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Username != "bob" || user.Email != "bob@example.com" {
		t.Errorf("Expected trimmed fields, got %q / %q", user.Username, user.Email)
	}

	cases := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"empty username", "", "a@example.com", "password123", ErrEmptyUsername},
		{"empty email", "alice", "", "password123", ErrEmptyEmail},
		{"missing at sign", "alice", "aliceexample.com", "password123", ErrInvalidEmail},
		{"missing domain dot", "alice", "alice@example", "password123", ErrInvalidEmail},
		{"empty password", "alice", "a@example.com", "", ErrEmptyPassword},
		{"short password", "alice", "a@example.com", "short", ErrPasswordTooShort},
		{"long password", "alice", "a@example.com", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.username, tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	// A user loaded from the store has no plaintext password; the hash alone
	// must satisfy validation.
	stored := User{
		ID:             1,
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}

	if err := stored.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	stored.HashedPassword = ""
	if err := stored.Validate(); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}
