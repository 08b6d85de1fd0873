package security

import (
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !CheckPassword(hash, "secret1") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "secret2") {
		t.Fatalf("expected wrong password to fail")
	}
	if CheckPassword("", "secret1") {
		t.Fatalf("expected empty hash to fail")
	}
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(16)
	if err != nil {
		t.Fatalf("random hex: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}
	b, _ := RandomHex(16)
	if a == b {
		t.Fatalf("expected distinct tokens")
	}
}

func TestSessionToken(t *testing.T) {
	token, expiresAt, err := IssueSessionToken("s3cret", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected expiry in the future")
	}
	claims, err := ParseSessionToken("s3cret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.UserID)
	}
	if _, errWrong := ParseSessionToken("other", token); errWrong == nil {
		t.Fatalf("expected wrong secret to fail")
	}
	if _, errShare := ParseShareToken("s3cret", token); errShare == nil {
		t.Fatalf("expected session token to be rejected as share token")
	}
}

func TestShareTokenExpiry(t *testing.T) {
	token, _, err := IssueShareToken("s3cret", "p1", "abc", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, errParse := ParseShareToken("s3cret", token); errParse == nil {
		t.Fatalf("expected expired token to fail")
	}

	token, _, err = IssueShareToken("s3cret", "p1", "abc", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ParseShareToken("s3cret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ProjectID != "p1" || claims.ShareToken != "abc" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestEmptySecret(t *testing.T) {
	if _, _, err := IssueSessionToken("", "u", time.Hour); err == nil {
		t.Fatalf("expected empty secret to fail")
	}
}
