package web

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestMintAndParse(t *testing.T) {
	am := NewAuthManager("secret", time.Hour)
	tok, err := am.Mint("user-42", "x@example.com")
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	claims, err := am.ParseFromRequest(req)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "user-42" || claims.Email != "x@example.com" {
		t.Fatalf("claims: %+v", claims)
	}
}

func TestParseRejects(t *testing.T) {
	am := NewAuthManager("secret", time.Hour)

	req := httptest.NewRequest("GET", "/", nil)
	if _, err := am.ParseFromRequest(req); err == nil {
		t.Fatal("missing header accepted")
	}

	req.Header.Set("Authorization", "Basic abc")
	if _, err := am.ParseFromRequest(req); err == nil {
		t.Fatal("non-bearer scheme accepted")
	}

	// Token signed with a different secret.
	other := NewAuthManager("other-secret", time.Hour)
	tok, err := other.Mint("user-1", "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	if _, err := am.ParseFromRequest(req); err == nil {
		t.Fatal("wrong signature accepted")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	am := NewAuthManager("secret", -time.Minute)
	tok, err := am.Mint("user-1", "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	if _, err := am.ParseFromRequest(req); err == nil {
		t.Fatal("expired token accepted")
	}
}
