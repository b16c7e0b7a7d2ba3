package devjwt

import (
	"errors"
	"time"
)

// Development-only defaults. DefaultDevSecret is deliberately public and must
// never guard a real deployment; normalize falls back to it only when no
// secret is supplied, so callers can always inject their own.
const (
	DefaultDevSecret = "dev-secret-key-not-for-production"
	DefaultIssuer    = "https://dev-placeholder.local"
	DefaultAudience  = "subscription-engine"
	DefaultEmail     = "test@example.com"
	DefaultName      = "Test User"
	DefaultTTL       = 24 * time.Hour

	defaultClockSkew = 30 * time.Second
)

// IssuerConfig describes how dev tokens are minted.
type IssuerConfig struct {
	Secret   string
	Issuer   string
	Audience string
	Email    string
	Name     string
	TTL      time.Duration

	// Clock overrides the time source used for issued-at; tests use this to
	// pin issuance to a known instant.
	Clock func() time.Time
}

// normalize sets dev default values for optional fields.
func (c *IssuerConfig) normalize() {
	if c.Secret == "" {
		c.Secret = DefaultDevSecret
	}
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	if c.Audience == "" {
		c.Audience = DefaultAudience
	}
	if c.Email == "" {
		c.Email = DefaultEmail
	}
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}

// validate ensures the issuer configuration is usable.
func (c IssuerConfig) validate() error {
	if c.TTL < 0 {
		return errors.New("ttl must not be negative")
	}
	return nil
}

// VerifierConfig contains validation parameters for dev tokens.
type VerifierConfig struct {
	Secret    string
	Issuer    string
	Audience  string
	ClockSkew time.Duration
}

// normalize sets default values for optional fields.
func (c *VerifierConfig) normalize() {
	if c.Secret == "" {
		c.Secret = DefaultDevSecret
	}
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	if c.Audience == "" {
		c.Audience = DefaultAudience
	}
	if c.ClockSkew <= 0 {
		c.ClockSkew = defaultClockSkew
	}
}
