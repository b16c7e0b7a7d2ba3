package devjwt

import (
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Wire-level names for the private claims. tenant_id and org_id are
// intentionally duplicated: some consumers of the subscription API read one,
// some the other, and both must carry the same identifier.
const (
	ClaimTenantID = "tenant_id"
	ClaimOrgID    = "org_id"
	ClaimEmail    = "email"
	ClaimName     = "name"
)

func init() {
	// Serialize a single-element audience as a plain string, matching what
	// the subscription API expects in the "aud" claim.
	jwt.Settings(jwt.WithFlattenAudience(true))
}

// Claims represents the synthetic identity carried by a dev token.
type Claims struct {
	Subject   string
	TenantID  string
	OrgID     string
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Issuer    string
	Audience  []string
}

// toToken converts the claims into a jwx token ready for signing.
func (c *Claims) toToken() (jwt.Token, error) {
	return jwt.NewBuilder().
		Subject(c.Subject).
		Issuer(c.Issuer).
		Audience(append([]string(nil), c.Audience...)).
		IssuedAt(c.IssuedAt).
		Expiration(c.ExpiresAt).
		Claim(ClaimTenantID, c.TenantID).
		Claim(ClaimOrgID, c.OrgID).
		Claim(ClaimEmail, c.Email).
		Claim(ClaimName, c.Name).
		Build()
}

// Map returns the claims keyed by their wire names, timestamps as epoch
// seconds. Useful for displaying or re-serializing the payload.
func (c *Claims) Map() map[string]any {
	m := map[string]any{
		"sub":         c.Subject,
		ClaimTenantID: c.TenantID,
		ClaimOrgID:    c.OrgID,
		ClaimEmail:    c.Email,
		ClaimName:     c.Name,
		"iat":         c.IssuedAt.Unix(),
		"exp":         c.ExpiresAt.Unix(),
		"iss":         c.Issuer,
	}
	switch len(c.Audience) {
	case 0:
	case 1:
		m["aud"] = c.Audience[0]
	default:
		m["aud"] = append([]string(nil), c.Audience...)
	}
	return m
}
