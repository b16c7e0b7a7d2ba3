package devjwt

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func TestIssuerClaimSet(t *testing.T) {
	issuer, err := NewIssuer(IssuerConfig{})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	claims, token, err := issuer.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	payload := decodePayload(t, token)

	want := []string{"sub", "tenant_id", "org_id", "email", "name", "iat", "exp", "iss", "aud"}
	if len(payload) != len(want) {
		t.Fatalf("expected %d claims, got %d: %v", len(want), len(payload), payload)
	}
	for _, name := range want {
		if _, ok := payload[name]; !ok {
			t.Fatalf("missing claim %q in payload %v", name, payload)
		}
	}

	if payload["tenant_id"] != payload["org_id"] {
		t.Fatalf("tenant_id %v != org_id %v", payload["tenant_id"], payload["org_id"])
	}
	if payload["sub"] != claims.Subject {
		t.Fatalf("unexpected subject: %v", payload["sub"])
	}
	if payload["email"] != DefaultEmail {
		t.Fatalf("unexpected email: %v", payload["email"])
	}
	if payload["name"] != DefaultName {
		t.Fatalf("unexpected name: %v", payload["name"])
	}
	if payload["iss"] != DefaultIssuer {
		t.Fatalf("unexpected issuer: %v", payload["iss"])
	}
	if payload["aud"] != DefaultAudience {
		t.Fatalf("unexpected audience: %v", payload["aud"])
	}
}

func TestIssuerExpiryWindow(t *testing.T) {
	at := time.Date(2025, 6, 15, 10, 30, 45, 789000000, time.UTC)
	issuer, err := NewIssuer(IssuerConfig{Clock: func() time.Time { return at }})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	claims, token, err := issuer.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	payload := decodePayload(t, token)
	iat, ok := payload["iat"].(float64)
	if !ok {
		t.Fatalf("iat is not numeric: %v", payload["iat"])
	}
	exp, ok := payload["exp"].(float64)
	if !ok {
		t.Fatalf("exp is not numeric: %v", payload["exp"])
	}

	if int64(iat) != at.Truncate(time.Second).Unix() {
		t.Fatalf("iat %d != issuance instant %d", int64(iat), at.Truncate(time.Second).Unix())
	}
	if int64(exp)-int64(iat) != 86400 {
		t.Fatalf("exp - iat = %d, want 86400", int64(exp)-int64(iat))
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Fatalf("expires_at %v not after issued_at %v", claims.ExpiresAt, claims.IssuedAt)
	}
}

func TestIssuerSignature(t *testing.T) {
	issuer, err := NewIssuer(IssuerConfig{})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	_, token, err := issuer.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256, symmetricKey(t, DefaultDevSecret))); err != nil {
		t.Fatalf("parse with dev secret: %v", err)
	}
	if _, err := jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256, symmetricKey(t, "some-other-secret"))); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestIssuerFreshIdentifiers(t *testing.T) {
	issuer, err := NewIssuer(IssuerConfig{})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	first, _, err := issuer.Issue()
	if err != nil {
		t.Fatalf("Issue first: %v", err)
	}
	second, _, err := issuer.Issue()
	if err != nil {
		t.Fatalf("Issue second: %v", err)
	}

	if first.Subject == second.Subject {
		t.Fatalf("subject reused across invocations: %s", first.Subject)
	}
	if first.TenantID == second.TenantID {
		t.Fatalf("tenant reused across invocations: %s", first.TenantID)
	}
}

func TestIssuerOptions(t *testing.T) {
	issuer, err := NewIssuer(IssuerConfig{})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	claims, _, err := issuer.Issue(
		WithSubject("user-42"),
		WithTenant("tenant-7"),
		WithEmail("alt@example.com"),
		WithName("Alt User"),
		WithTTL(time.Hour),
	)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.TenantID != "tenant-7" || claims.OrgID != "tenant-7" {
		t.Fatalf("tenant/org not pinned: %s / %s", claims.TenantID, claims.OrgID)
	}
	if claims.Email != "alt@example.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if claims.Name != "Alt User" {
		t.Fatalf("unexpected name: %s", claims.Name)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
		t.Fatalf("unexpected lifetime: %v", got)
	}
}

func TestIssuerRoundTripStability(t *testing.T) {
	issuer, err := NewIssuer(IssuerConfig{})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	_, token, err := issuer.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parsed, err := jwt.Parse([]byte(token), jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	resigned, err := jwt.Sign(parsed, jwt.WithKey(jwa.HS256, symmetricKey(t, DefaultDevSecret)))
	if err != nil {
		t.Fatalf("re-sign: %v", err)
	}

	original := strings.SplitN(token, ".", 3)
	replica := strings.SplitN(string(resigned), ".", 3)
	if len(original) != 3 || len(replica) != 3 {
		t.Fatalf("malformed compact serialization: %q / %q", token, resigned)
	}
	if original[0] != replica[0] {
		t.Fatalf("header segment changed after round trip:\n%s\n%s", original[0], replica[0])
	}
	if original[1] != replica[1] {
		t.Fatalf("payload segment changed after round trip:\n%s\n%s", original[1], replica[1])
	}
}

func TestIssuerCompactSerialization(t *testing.T) {
	issuer, err := NewIssuer(IssuerConfig{})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	_, token, err := issuer.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for i, segment := range segments {
		if _, err := base64.RawURLEncoding.DecodeString(segment); err != nil {
			t.Fatalf("segment %d is not base64url: %v", i, err)
		}
	}

	header, err := base64.RawURLEncoding.DecodeString(segments[0])
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if !bytes.Contains(header, []byte(`"alg":"HS256"`)) {
		t.Fatalf("header does not declare HS256: %s", header)
	}
}

func decodePayload(t *testing.T, token string) map[string]any {
	t.Helper()
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	raw, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	payload := make(map[string]any)
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return payload
}

func symmetricKey(t *testing.T, secret string) jwk.Key {
	t.Helper()
	key, err := jwk.FromRaw([]byte(secret))
	if err != nil {
		t.Fatalf("symmetric key: %v", err)
	}
	return key
}
