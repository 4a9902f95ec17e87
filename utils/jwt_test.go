package utils

import (
	"testing"

	"tourly/config"

	"github.com/golang-jwt/jwt"
)

func signedToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestExtractIDUsesConfiguredSecret(t *testing.T) {
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = "configured-secret"
	defer func() { config.AppConfig.JWTSecret = prev }()

	sub, err := ExtractIDFromToken(signedToken(t, "configured-secret", "tourist-1"))
	if err != nil {
		t.Fatalf("ExtractIDFromToken: %v", err)
	}
	if sub != "tourist-1" {
		t.Errorf("sub = %q, want tourist-1", sub)
	}

	// A token signed with a different secret must not validate.
	if _, err := ExtractIDFromToken(signedToken(t, "other-secret", "tourist-1")); err == nil {
		t.Error("expected a validation error for a mismatched secret")
	}
}

func TestExtractIDFallsBackToDevSecret(t *testing.T) {
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = ""
	defer func() { config.AppConfig.JWTSecret = prev }()

	sub, err := ExtractIDFromToken(signedToken(t, "tourly-dev", "guide-1"))
	if err != nil {
		t.Fatalf("ExtractIDFromToken: %v", err)
	}
	if sub != "guide-1" {
		t.Errorf("sub = %q, want guide-1", sub)
	}
}

func TestExtractIDRequiresSubject(t *testing.T) {
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = "configured-secret"
	defer func() { config.AppConfig.JWTSecret = prev }()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"aud": "tourly"})
	signed, err := token.SignedString([]byte("configured-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	if _, err := ExtractIDFromToken(signed); err == nil {
		t.Error("expected an error for a token without a subject")
	}
}
