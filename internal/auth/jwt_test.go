package auth_test

import (
	"testing"
	"time"

	"craftbazaar/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := auth.GenerateToken("test-secret", time.Hour, "acc-1", "seller")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := auth.ValidateToken("test-secret", tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.AccountID != "acc-1" || claims.Role != "seller" {
		t.Fatalf("bad claims: %+v", claims)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tok, err := auth.GenerateToken("secret-a", time.Hour, "acc-1", "customer")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ValidateToken("secret-b", tok); err == nil {
		t.Fatal("token signed with a different secret should not validate")
	}
}

func TestTokenExpiryEnforced(t *testing.T) {
	tok, err := auth.GenerateToken("test-secret", -time.Minute, "acc-1", "customer")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ValidateToken("test-secret", tok); err == nil {
		t.Fatal("expired token should not validate")
	}
}
