// Package token implements the signed bearer token pair used by the
// authentication service: a stateless HMAC-SHA256 issuer and the matching
// verifier. The server keeps no session state; a token is valid exactly when
// its signature checks out against the shared secret and its expiry claim is
// still in the future.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime applied when no override is configured.
const DefaultTTL = 30 * time.Minute

// DefaultIssuer is the iss claim stamped on every issued token.
const DefaultIssuer = "auth-service"

var (
	// ErrInvalidSignature means the signature segment does not match the
	// claims under the shared secret.
	ErrInvalidSignature = errors.New("token: invalid signature")
	// ErrExpired means the expiry claim is at or before the evaluation time.
	ErrExpired = errors.New("token: expired")
	// ErrMalformed means the token could not be decoded or is missing the
	// subject claim.
	ErrMalformed = errors.New("token: malformed")
)

// Claims is the claim set embedded in every issued token. Subject carries the
// account email; Role and HospitalID are informational — the verifier's
// callers re-resolve the subject against the credential store, so stale role
// or hospital claims are never trusted.
type Claims struct {
	jwt.RegisteredClaims
	Role       string `json:"role"`
	HospitalID string `json:"hospital_id,omitempty"`
}

// Issuer signs claim sets with a symmetric secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewIssuer creates an Issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl, issuer: DefaultIssuer}
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue builds and signs a token for an already-authenticated subject.
// The expiry is always iat + TTL; two calls at different now values produce
// different signatures because iat and exp differ.
func (i *Issuer) Issue(subject, role, hospitalID string, now time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Role:       role,
		HospitalID: hospitalID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verifier checks tokens against the same shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify decodes and validates a token at the given evaluation time.
// Expiry is checked before the signature, so an expired token reports
// ErrExpired whether or not its signature segment was tampered with; a
// live token with a bad signature reports ErrInvalidSignature.
func (v *Verifier) Verify(tokenStr string, now time.Time) (*Claims, error) {
	unverified := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, unverified); err != nil {
		return nil, ErrMalformed
	}
	if unverified.ExpiresAt != nil && !now.Before(unverified.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case err != nil:
		return nil, ErrMalformed
	case !tok.Valid:
		return nil, ErrMalformed
	}

	if claims.Subject == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}
