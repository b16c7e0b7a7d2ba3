package devjwt

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Issuer mints HS256-signed development tokens carrying synthetic
// tenant/user identity for exercising the subscription API by hand.
type Issuer struct {
	cfg IssuerConfig
	key jwk.Key
}

type issueParams struct {
	subject string
	tenant  string
	email   string
	name    string
	ttl     time.Duration
}

// IssueOption customizes the claims for a single Issue call.
type IssueOption func(*issueParams)

// WithSubject pins the user identifier instead of generating a fresh one.
func WithSubject(subject string) IssueOption {
	return func(p *issueParams) {
		p.subject = subject
	}
}

// WithTenant pins the tenant identifier instead of generating a fresh one.
// Both tenant_id and org_id are set from this value.
func WithTenant(tenant string) IssueOption {
	return func(p *issueParams) {
		p.tenant = tenant
	}
}

// WithEmail overrides the email claim for a single call.
func WithEmail(email string) IssueOption {
	return func(p *issueParams) {
		p.email = email
	}
}

// WithName overrides the display name claim for a single call.
func WithName(name string) IssueOption {
	return func(p *issueParams) {
		p.name = name
	}
}

// WithTTL overrides the token lifetime for a single call.
func WithTTL(ttl time.Duration) IssueOption {
	return func(p *issueParams) {
		p.ttl = ttl
	}
}

// NewIssuer builds an issuer from the given configuration.
func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, newError(ErrCodeInvalidConfig, err)
	}
	cfg.normalize()

	key, err := jwk.FromRaw([]byte(cfg.Secret))
	if err != nil {
		return nil, newError(ErrCodeSigning, fmt.Errorf("build signing key: %w", err))
	}
	return &Issuer{cfg: cfg, key: key}, nil
}

// Issue mints one signed token and returns the claims it carries alongside
// the compact serialization. Each call generates fresh tenant and user
// identifiers unless pinned via options.
func (i *Issuer) Issue(opts ...IssueOption) (*Claims, string, error) {
	params := issueParams{
		email: i.cfg.Email,
		name:  i.cfg.Name,
		ttl:   i.cfg.TTL,
	}
	for _, opt := range opts {
		opt(&params)
	}
	if params.subject == "" {
		params.subject = uuid.NewString()
	}
	if params.tenant == "" {
		params.tenant = uuid.NewString()
	}
	if params.ttl <= 0 {
		params.ttl = i.cfg.TTL
	}

	// Whole seconds only, so exp-iat survives numeric-date encoding exactly.
	issuedAt := i.cfg.Clock().UTC().Truncate(time.Second)
	claims := &Claims{
		Subject:   params.subject,
		TenantID:  params.tenant,
		OrgID:     params.tenant,
		Email:     params.email,
		Name:      params.name,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(params.ttl),
		Issuer:    i.cfg.Issuer,
		Audience:  []string{i.cfg.Audience},
	}

	token, err := claims.toToken()
	if err != nil {
		return nil, "", newError(ErrCodeSigning, fmt.Errorf("build claims: %w", err))
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, i.key))
	if err != nil {
		return nil, "", newError(ErrCodeSigning, err)
	}
	return claims, string(signed), nil
}
