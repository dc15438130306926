package jwtmw

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

// fixedClock はテスト用に進められる時計を返します。
func fixedClock(t *time.Time) Option {
	return WithClock(func() time.Time { return *t })
}

// TestNewIssuer は対応アルゴリズムと非対応アルゴリズムの扱いを検証します。
func TestNewIssuer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		secret    string
		algorithm string
		wantAlg   string
		wantErr   bool
	}{
		{"default algorithm", "secret", "", "HS256", false},
		{"HS256", "secret", "HS256", "HS256", false},
		{"HS384", "secret", "HS384", "HS384", false},
		{"HS512", "secret", "HS512", "HS512", false},
		{"RS256 rejected", "secret", "RS256", "", true},
		{"none rejected", "secret", "none", "", true},
		{"unknown rejected", "secret", "XX999", "", true},
		{"empty secret", "", "HS256", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			iss, err := NewIssuer(tt.secret, tt.algorithm)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if iss.Algorithm() != tt.wantAlg {
				t.Errorf("expected algorithm %q, got %q", tt.wantAlg, iss.Algorithm())
			}
		})
	}
}

// TestIssuer_RoundTrip は発行したトークンから同じsubjectが取り出せることを検証します。
func TestIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			t.Parallel()

			iss, err := NewIssuer("test-secret", alg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tokenStr, err := iss.Issue("user@example.com", time.Hour)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sub, err := iss.Verify(tokenStr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sub != "user@example.com" {
				t.Errorf("expected subject %q, got %q", "user@example.com", sub)
			}
		})
	}
}

// TestIssuer_Claims はsub, iat, expが正しく設定されることを検証します。
func TestIssuer_Claims(t *testing.T) {
	now := testNow
	iss, err := NewIssuer("test-secret", "HS256", fixedClock(&now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokenStr, err := iss.IssueDefault("user+tag@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tokenStr, claims)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.Subject != "user+tag@example.com" {
		t.Errorf("unexpected subject %q", claims.Subject)
	}
	if !claims.IssuedAt.Time.Equal(now) {
		t.Errorf("expected iat %v, got %v", now, claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(DefaultTTL)) {
		t.Errorf("expected exp %v, got %v", now.Add(DefaultTTL), claims.ExpiresAt.Time)
	}
}

// TestIssuer_Expiry はttl=0のトークンが1秒後に期限切れとして拒否されることを検証します。
func TestIssuer_Expiry(t *testing.T) {
	now := testNow
	iss, err := NewIssuer("test-secret", "HS256", fixedClock(&now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokenStr, err := iss.Issue("user@example.com", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(time.Second)
	if _, err := iss.Verify(tokenStr); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}

	longLived, err := iss.Issue("user@example.com", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now = now.Add(59 * time.Second)
	if _, err := iss.Verify(longLived); err != nil {
		t.Errorf("expected token to be valid before exp, got %v", err)
	}
	now = now.Add(2 * time.Second)
	if _, err := iss.Verify(longLived); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

// TestIssuer_Invalid は改ざん・別鍵・別アルゴリズム・subjectなしのトークンが拒否されることを検証します。
func TestIssuer_Invalid(t *testing.T) {
	t.Parallel()

	iss, _ := NewIssuer("test-secret", "HS256")
	other, _ := NewIssuer("other-secret", "HS256")
	hs512, _ := NewIssuer("test-secret", "HS512")

	valid, _ := iss.Issue("user@example.com", time.Hour)
	wrongKey, _ := other.Issue("user@example.com", time.Hour)
	wrongAlg, _ := hs512.Issue("user@example.com", time.Hour)
	noSubject, _ := iss.Issue("", time.Hour)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user@example.com"}).
		SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"tampered signature", tampered},
		{"wrong key", wrongKey},
		{"unexpected algorithm", wrongAlg},
		{"missing subject", noSubject},
		{"missing exp", noExp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sub, err := iss.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
			if sub != "" {
				t.Errorf("expected empty subject, got %q", sub)
			}
		})
	}
}
