package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/listora/listora/internal/common"
)

func newTestIssuer() *Issuer {
	return NewIssuer([]byte("test-secret"), "k1", 15*time.Minute, 24*time.Hour, time.Hour)
}

func TestIssuer_AccessTokenRoundTrip(t *testing.T) {
	i := newTestIssuer()

	tok, err := i.AccessToken("user-1")
	if err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}

	claims, err := i.Verify(tok, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want user-1", claims.Subject)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("typ = %q", claims.TokenType)
	}
	if claims.ID == "" {
		t.Fatal("missing jti")
	}
}

func TestIssuer_TypeConfusionRejected(t *testing.T) {
	i := newTestIssuer()

	access, err := i.AccessToken("user-1")
	if err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}
	refresh, err := i.RefreshToken("user-1")
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}

	if _, err := i.Verify(access, TokenTypeRefresh); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("access-as-refresh: want ErrInvalidToken, got %v", err)
	}
	if _, err := i.Verify(refresh, TokenTypeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("refresh-as-access: want ErrInvalidToken, got %v", err)
	}
	if _, err := i.Verify(refresh, TokenTypeVerify); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("refresh-as-verify: want ErrInvalidToken, got %v", err)
	}
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	i := newTestIssuer()
	other := NewIssuer([]byte("other-secret"), "", time.Minute, time.Hour, time.Hour)

	tok, err := other.AccessToken("user-1")
	if err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}

	if _, err := i.Verify(tok, TokenTypeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
	if _, err := i.ExtractUserID(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("ExtractUserID: want ErrInvalidToken, got %v", err)
	}
}

func TestIssuer_RejectsMalformed(t *testing.T) {
	i := newTestIssuer()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := i.Verify(tok, TokenTypeAccess); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("Verify(%q): want ErrInvalidToken, got %v", tok, err)
		}
	}
	if !i.IsExpired("garbage") {
		t.Fatal("malformed token should count as expired")
	}
}

func TestIssuer_ExpiredToken(t *testing.T) {
	// negative TTL produces an already expired token
	i := NewIssuer([]byte("test-secret"), "", -time.Minute, -time.Minute, -time.Minute)

	tok, err := i.AccessToken("user-1")
	if err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}

	if _, err := i.Verify(tok, TokenTypeAccess); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}

	// Expiry and ExtractUserID still work on expired tokens.
	exp, err := i.Expiry(tok)
	if err != nil {
		t.Fatalf("Expiry error: %v", err)
	}
	if !exp.Before(time.Now()) {
		t.Fatalf("expiry %v should be in the past", exp)
	}
	if !i.IsExpired(tok) {
		t.Fatal("IsExpired should agree with a past expiry")
	}
	sub, err := i.ExtractUserID(tok)
	if err != nil || sub != "user-1" {
		t.Fatalf("ExtractUserID = %q, %v", sub, err)
	}
}

func TestIssuer_IsExpiredAgreesWithExpiry(t *testing.T) {
	i := newTestIssuer()

	tok, err := i.RefreshToken("user-1")
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	exp, err := i.Expiry(tok)
	if err != nil {
		t.Fatalf("Expiry error: %v", err)
	}
	if exp.Before(time.Now()) != i.IsExpired(tok) {
		t.Fatal("IsExpired disagrees with Expiry")
	}
}

func TestIssuer_KeyIDHeader(t *testing.T) {
	i := newTestIssuer()

	tok, err := i.AccessToken("user-1")
	if err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, &Claims{})
	if err != nil {
		t.Fatalf("ParseUnverified error: %v", err)
	}
	if kid, _ := parsed.Header["kid"].(string); kid != "k1" {
		t.Fatalf("kid = %v, want k1", parsed.Header["kid"])
	}
}
