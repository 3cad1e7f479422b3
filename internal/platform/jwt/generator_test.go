package jwtmw

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestNewGenerator は各種設定でGeneratorが正しく生成されることを検証します。
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
	}{
		{"standard config", "my-secret-key", time.Hour},
		{"long expiration", "secret", 24 * time.Hour * 30},
		{"short expiration", "s", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator(tt.secret, tt.expiration)

			if string(gen.secret) != tt.secret {
				t.Errorf("expected secret %q, got %q", tt.secret, string(gen.secret))
			}
			if gen.expiration != tt.expiration {
				t.Errorf("expected expiration %v, got %v", tt.expiration, gen.expiration)
			}
		})
	}
}

// TestNewGenerator_NonPositiveExpiration は0以下の有効期間がデフォルトに置き換えられ、
// 発行直後のトークンが有効であることを検証します。
func TestNewGenerator_NonPositiveExpiration(t *testing.T) {
	t.Parallel()

	for _, exp := range []time.Duration{0, -time.Minute} {
		gen := NewGenerator("test-secret", exp)
		if gen.expiration != DefaultExpiration {
			t.Errorf("expiration %v: expected default %v, got %v", exp, DefaultExpiration, gen.expiration)
		}

		tokenStr, err := gen.GenerateToken("s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id, err := gen.ParseToken(tokenStr); err != nil || id != "s1" {
			t.Errorf("expiration %v: expected fresh token to parse, got id=%q err=%v", exp, id, err)
		}
	}
}

// TestGenerator_RoundTrip は生成したトークンから同じセッションIDが取り出せることを検証します。
func TestGenerator_RoundTrip(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret", time.Hour)
	tokenStr, err := gen.GenerateToken("3f0c7b8e-6d1a-4c2e-9b7f-1a2b3c4d5e6f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := gen.ParseToken(tokenStr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "3f0c7b8e-6d1a-4c2e-9b7f-1a2b3c4d5e6f" {
		t.Errorf("expected session id to round-trip, got %q", id)
	}
}

// TestGenerator_ParseToken_Invalid は不正なトークンがErrInvalidTokenで拒否されることを検証します。
func TestGenerator_ParseToken_Invalid(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret", time.Hour)
	other := NewGenerator("other-secret", time.Hour)

	otherToken, _ := other.GenerateToken("s1")
	expiredToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "s1", Issuer: issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte("test-secret"))
	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "s1", Issuer: issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	emptySubject, _ := gen.GenerateToken("")
	wrongIssuer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "s1", Issuer: "someone-else", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", otherToken},
		{"expired", expiredToken},
		{"alg none", noneToken},
		{"empty subject", emptySubject},
		{"wrong issuer", wrongIssuer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := gen.ParseToken(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
