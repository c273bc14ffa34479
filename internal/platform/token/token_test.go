package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer(testSecret, 30*time.Minute)
	ver := NewVerifier(testSecret)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tok, err := iss.Issue("doctor@chu-ouaga.bf", "doctor", "BF-CHU-YALG", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ver.Verify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "doctor@chu-ouaga.bf" {
		t.Errorf("expected subject doctor@chu-ouaga.bf, got %s", claims.Subject)
	}
	if claims.Role != "doctor" {
		t.Errorf("expected role doctor, got %s", claims.Role)
	}
	if claims.HospitalID != "BF-CHU-YALG" {
		t.Errorf("expected hospital_id BF-CHU-YALG, got %s", claims.HospitalID)
	}
	if claims.Issuer != DefaultIssuer {
		t.Errorf("expected issuer %s, got %s", DefaultIssuer, claims.Issuer)
	}
}

func TestIssue_ExpiryIsIssuedAtPlusTTL(t *testing.T) {
	iss := NewIssuer(testSecret, 30*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tok, err := iss.Issue("nurse@chu-ouaga.bf", "nurse", "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := NewVerifier(testSecret).Verify(tok, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != 30*time.Minute {
		t.Errorf("expected exp-iat of 30m, got %v", got)
	}
}

func TestIssue_DifferentTimesDifferentSignatures(t *testing.T) {
	iss := NewIssuer(testSecret, 30*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a, _ := iss.Issue("admin@danaya.bf", "admin", "BF-CHU-YALG", now)
	b, _ := iss.Issue("admin@danaya.bf", "admin", "BF-CHU-YALG", now.Add(time.Second))
	if a == b {
		t.Error("expected different tokens for different issue times")
	}
}

func TestVerify_Expired(t *testing.T) {
	iss := NewIssuer(testSecret, 30*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tok, _ := iss.Issue("doctor@chu-ouaga.bf", "doctor", "", now)

	// Presented 31 minutes after issuance.
	_, err := NewVerifier(testSecret).Verify(tok, now.Add(31*time.Minute))
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}

	// Boundary: exp itself is already invalid.
	_, err = NewVerifier(testSecret).Verify(tok, now.Add(30*time.Minute))
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired at exact expiry, got %v", err)
	}
}

func TestVerify_ExpiredWinsOverTamperedSignature(t *testing.T) {
	iss := NewIssuer(testSecret, 30*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tok, _ := iss.Issue("doctor@chu-ouaga.bf", "doctor", "", now)
	tampered := tamperSignature(t, tok)

	_, err := NewVerifier(testSecret).Verify(tampered, now.Add(31*time.Minute))
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	iss := NewIssuer(testSecret, 30*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tok, _ := iss.Issue("doctor@chu-ouaga.bf", "doctor", "", now)

	_, err := NewVerifier(testSecret).Verify(tamperSignature(t, tok), now)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	iss := NewIssuer(testSecret, 30*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tok, _ := iss.Issue("doctor@chu-ouaga.bf", "doctor", "", now)

	_, err := NewVerifier([]byte("other-secret")).Verify(tok, now)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	iss := NewIssuer(testSecret, 30*time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tok, _ := iss.Issue("", "doctor", "", now)

	_, err := NewVerifier(testSecret).Verify(tok, now)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := NewVerifier(testSecret).Verify(tok, time.Now())
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("token %q: expected ErrMalformed, got %v", tok, err)
		}
	}
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	iss := NewIssuer(testSecret, 0)
	if iss.TTL() != DefaultTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultTTL, iss.TTL())
	}
}

// tamperSignature flips one byte of the signature segment.
func tamperSignature(t *testing.T, tok string) string {
	t.Helper()
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	sig[0] ^= 0xFF
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)
	return strings.Join(parts, ".")
}

// Guard against the claim set ever growing a field that would leak secrets
// into the payload segment.
func TestClaims_JSONShape(t *testing.T) {
	c := &Claims{Role: "doctor", HospitalID: "BF-CHU-YALG"}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var m map[string]interface{}
	json.Unmarshal(data, &m)
	for k := range m {
		switch k {
		case "sub", "role", "hospital_id", "iat", "exp", "iss":
		default:
			t.Errorf("unexpected claim field %q", k)
		}
	}
}
