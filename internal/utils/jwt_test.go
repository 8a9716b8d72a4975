package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	tc, err := NewTokenCodec("s3cret", time.Hour)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	tok, err := tc.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := tc.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 42 {
		t.Fatalf("want id 42, got %d", id)
	}
}

func TestTokenExpired(t *testing.T) {
	tc, _ := NewTokenCodec("s3cret", time.Hour)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tok, err := tc.WithClock(func() time.Time { return issued }).Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := tc.WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	if _, err := later.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
	if _, err := later.Parse(tok); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("want wrapped jwt.ErrTokenExpired, got %v", err)
	}

	within := tc.WithClock(func() time.Time { return issued.Add(59 * time.Minute) })
	if _, err := within.Parse(tok); err != nil {
		t.Fatalf("token inside its lifetime rejected: %v", err)
	}
}

func TestTokenRejected(t *testing.T) {
	tc, _ := NewTokenCodec("s3cret", time.Hour)
	other, _ := NewTokenCodec("other", time.Hour)
	foreign, _ := other.Issue(1)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1}).SignedString([]byte("s3cret"))

	tests := []struct {
		name string
		raw  string
	}{
		{"wrong secret", foreign},
		{"malformed", "not.a.token"},
		{"empty", ""},
		{"alg none", unsigned},
		{"no expiry", noExp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tc.Parse(tt.raw); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("want ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewTokenCodec(t *testing.T) {
	if _, err := NewTokenCodec("", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("want ErrMissingSecret, got %v", err)
	}
	tc, err := NewTokenCodec("s", 0)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	if tc.ttl != DefaultTokenTTL {
		t.Fatalf("want default ttl %s, got %s", DefaultTokenTTL, tc.ttl)
	}
}

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"abc.def.ghi", "abc.def.ghi"},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer  abc.def.ghi ", "abc.def.ghi"},
		{"  abc ", "abc"},
		{"", ""},
		{"Bearer", "Bearer"},
	}
	for _, tt := range tests {
		if got := TokenFromHeader(tt.header); got != tt.want {
			t.Errorf("TokenFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
