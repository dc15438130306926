// Package jwtmw issues and verifies HMAC-signed access tokens and provides
// the gin middleware guarding authenticated routes.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of tokens issued by IssueDefault.
const DefaultTTL = 15 * time.Minute

var (
	// ErrInvalidToken is returned for a bad signature, unexpected algorithm,
	// malformed payload or missing subject.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when the exp claim has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrUnsupportedAlgorithm is returned by NewIssuer for non-HMAC algorithms.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// Issuer signs and verifies tokens with a static secret.
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock replaces the clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer creates an Issuer for one of HS256, HS384 or HS512.
// An empty algorithm selects HS256.
func NewIssuer(secret, algorithm string, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	i := &Issuer{secret: []byte(secret), method: method, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Algorithm returns the name of the signing algorithm.
func (i *Issuer) Algorithm() string {
	return i.method.Alg()
}

// Issue creates a signed token for subject that expires ttl from now.
func (i *Issuer) Issue(subject string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// IssueDefault is Issue with DefaultTTL.
func (i *Issuer) IssueDefault(subject string) (string, error) {
	return i.Issue(subject, DefaultTTL)
}

// Verify checks the signature and expiry of tokenStr and returns its subject.
// No leeway is applied to exp.
func (i *Issuer) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
