package devjwt

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// NewTokenSource adapts an Issuer to the oauth2 token-source contract so
// HTTP clients can inject dev bearer tokens the standard way. The synthetic
// identity is pinned once, so tokens minted after expiry keep the same
// subject and tenant; explicit WithSubject/WithTenant options still win.
func NewTokenSource(issuer *Issuer, opts ...IssueOption) oauth2.TokenSource {
	pinned := append([]IssueOption{
		WithSubject(uuid.NewString()),
		WithTenant(uuid.NewString()),
	}, opts...)
	return oauth2.ReuseTokenSource(nil, &issuingSource{issuer: issuer, opts: pinned})
}

type issuingSource struct {
	mu     sync.Mutex
	issuer *Issuer
	opts   []IssueOption
}

// Token mints a fresh dev token. oauth2.ReuseTokenSource caches the result,
// so this only runs when no valid token is held.
func (s *issuingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims, signed, err := s.issuer.Issue(s.opts...)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		Expiry:      claims.ExpiresAt,
	}, nil
}
