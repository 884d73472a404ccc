package helpers

import (
	"errors"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("a-secret", "r-secret", time.Minute, time.Hour)

	tok, exp, err := m.GenerateAccessToken(42, "sid-1", true)
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) > time.Minute || time.Until(exp) < 50*time.Second {
		t.Fatalf("exp = %v", exp)
	}
	c, err := m.ParseAccessToken(tok)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if c.UserID != 42 || c.SessionID != "sid-1" || !c.IsAdmin || c.ID == "" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("same", "same", time.Minute, time.Hour)
	refresh, _, _ := m.GenerateRefreshToken(1, "s", 0)

	if _, err := m.ParseAccessToken(refresh); !errors.Is(err, ErrTokenType) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := m.ParseRefreshToken(refresh); err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
}

func TestRefreshTTL(t *testing.T) {
	m := NewJWTManager("a", "r", time.Minute, time.Hour)

	_, exp, _ := m.GenerateRefreshToken(1, "s", 0)
	if d := time.Until(exp); d < 59*time.Minute || d > time.Hour {
		t.Fatalf("default ttl gave %v", d)
	}
	tok, exp, _ := m.GenerateRefreshToken(1, "s", 30*24*time.Hour)
	if d := time.Until(exp); d < 29*24*time.Hour {
		t.Fatalf("remember ttl gave %v", d)
	}
	c, _ := m.ParseRefreshToken(tok)
	if c.Remaining() < 29*24*time.Hour {
		t.Fatalf("Remaining = %v", c.Remaining())
	}
}

func TestExpiredAndTamperedTokens(t *testing.T) {
	m := NewJWTManager("a", "r", -time.Second, time.Hour)
	expired, _, _ := m.GenerateAccessToken(1, "s", false)
	if _, err := m.ParseAccessToken(expired); err == nil {
		t.Fatal("expired token accepted")
	}

	other := NewJWTManager("b", "r", time.Minute, time.Hour)
	tok, _, _ := other.GenerateAccessToken(1, "s", false)
	if _, err := m.ParseAccessToken(tok); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
	if (&Claims{}).Remaining() != 0 {
		t.Fatal("claims without expiry should have no time left")
	}
}

func TestUniqueTokenIDs(t *testing.T) {
	m := NewJWTManager("a", "r", time.Minute, time.Hour)
	a, _, _ := m.GenerateRefreshToken(1, "s", 0)
	b, _, _ := m.GenerateRefreshToken(1, "s", 0)
	ca, _ := m.ParseRefreshToken(a)
	cb, _ := m.ParseRefreshToken(b)
	if ca.ID == cb.ID {
		t.Fatal("jti must differ between tokens")
	}
}
