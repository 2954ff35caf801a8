package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuerIssuesVerifiableTokens(t *testing.T) {
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte("super-secret"),
		Issuer:        "lottery-auth",
		Audience:      "lottery-api",
		TokenTTL:      7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	tokenString, err := issuer.IssueToken(42, "user@example.com")
	if err != nil {
		t.Fatalf("expected successful issuance: %v", err)
	}

	claims, err := issuer.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("expected token to verify immediately after issuance: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("unexpected user id %d", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestTokenIssuerRejectsMissingSecret(t *testing.T) {
	_, err := NewTokenIssuer(TokenIssuerConfig{
		Issuer:   "lottery-auth",
		Audience: "lottery-api",
	})
	if err == nil {
		t.Fatalf("expected constructor to reject empty signing secret")
	}
}

func TestValidateTokenRejectsTamperedToken(t *testing.T) {
	issuer := mustIssuer(t, []byte("secret-one"), nil)
	other := mustIssuer(t, []byte("secret-two"), nil)

	tokenString, err := issuer.IssueToken(7, "user@example.com")
	if err != nil {
		t.Fatalf("unexpected issuance error: %v", err)
	}

	if _, err := other.ValidateToken(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong signing key, got %v", err)
	}

	if _, err := issuer.ValidateToken(tokenString + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for mangled token, got %v", err)
	}

	if _, err := issuer.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestValidateTokenRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0).UTC()
	current := issuedAt
	issuer := mustIssuer(t, []byte("super-secret"), func() time.Time {
		return current
	})

	tokenString, err := issuer.IssueToken(42, "user@example.com")
	if err != nil {
		t.Fatalf("unexpected issuance error: %v", err)
	}

	if _, err := issuer.ValidateToken(tokenString); err != nil {
		t.Fatalf("expected token valid inside window: %v", err)
	}

	current = issuedAt.Add(7*24*time.Hour + time.Minute)
	if _, err := issuer.ValidateToken(tokenString); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken past validity window, got %v", err)
	}
}

func TestValidateTokenRejectsForeignSigningAlgorithm(t *testing.T) {
	issuer := mustIssuer(t, []byte("super-secret"), nil)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:  "42",
		Issuer:   "lottery-auth",
		Audience: []string{"lottery-api"},
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := issuer.ValidateToken(tokenString); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none token, got %v", err)
	}
}

func mustIssuer(t *testing.T, secret []byte, clock func() time.Time) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: secret,
		Issuer:        "lottery-auth",
		Audience:      "lottery-api",
		TokenTTL:      7 * 24 * time.Hour,
		Clock:         clock,
	})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return issuer
}
