package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-must-be-at-least-32-characters-long"

func TestNewJWTManager(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		wantError error
	}{
		{"valid secret", testSecret, nil},
		{"exactly 32 chars", strings.Repeat("s", 32), nil},
		{"short secret", "too-short", ErrShortSecret},
		{"31 chars", strings.Repeat("s", 31), ErrShortSecret},
		{"empty secret", "", ErrShortSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewJWTManager(tt.secret, 15*time.Minute)

			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("Expected %v, got %v", tt.wantError, err)
				}
				if m != nil {
					t.Error("Expected nil manager on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if m == nil {
				t.Fatal("Expected non-nil manager")
			}
		})
	}
}

func TestJWTManager_GenerateToken(t *testing.T) {
	m, err := NewJWTManager(testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("Failed to create JWT manager: %v", err)
	}

	token, err := m.GenerateToken("reach-client")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if token == "" {
		t.Error("Expected non-empty token")
	}
	// header.payload.signature
	if strings.Count(token, ".") != 2 {
		t.Errorf("Token does not look like a JWT: %s", token)
	}
}

func TestJWTManager_GenerateToken_EmptySubject(t *testing.T) {
	m, _ := NewJWTManager(testSecret, 15*time.Minute)

	_, err := m.GenerateToken("")
	if !errors.Is(err, ErrEmptySubject) {
		t.Errorf("Expected ErrEmptySubject, got %v", err)
	}
}

func TestJWTManager_ValidateToken(t *testing.T) {
	m, _ := NewJWTManager(testSecret, 15*time.Minute)

	token, err := m.GenerateToken("reach-client")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := m.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims.Subject != "reach-client" {
		t.Errorf("Expected subject reach-client, got %s", claims.Subject)
	}
	if claims.ExpiresAt.Before(time.Now()) {
		t.Error("Token should not be expired")
	}
	if claims.IssuedAt.After(time.Now().Add(time.Minute)) {
		t.Error("IssuedAt should be in the past")
	}
}

func TestJWTManager_ValidateToken_Invalid(t *testing.T) {
	m, _ := NewJWTManager(testSecret, 15*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not-a-jwt"},
		{"truncated token", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateToken(context.Background(), tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestJWTManager_ValidateToken_WrongSecret(t *testing.T) {
	m1, _ := NewJWTManager(testSecret, 15*time.Minute)
	m2, _ := NewJWTManager(strings.Repeat("x", 32), 15*time.Minute)

	token, err := m1.GenerateToken("reach-client")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	_, err = m2.ValidateToken(context.Background(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestJWTManager_ValidateToken_Expired(t *testing.T) {
	m, _ := NewJWTManager(testSecret, -1*time.Minute)

	token, err := m.GenerateToken("reach-client")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	_, err = m.ValidateToken(context.Background(), token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTManager_TokenDuration(t *testing.T) {
	m, _ := NewJWTManager(testSecret, 42*time.Minute)

	if m.TokenDuration() != 42*time.Minute {
		t.Errorf("Expected 42m, got %v", m.TokenDuration())
	}
}
