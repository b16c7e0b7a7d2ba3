package devjwt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Verifier validates dev tokens against the shared symmetric secret.
type Verifier struct {
	cfg VerifierConfig
	key jwk.Key
}

// NewVerifier builds a verifier from the given configuration.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	cfg.normalize()

	key, err := jwk.FromRaw([]byte(cfg.Secret))
	if err != nil {
		return nil, newError(ErrCodeInvalidConfig, fmt.Errorf("build verification key: %w", err))
	}
	return &Verifier{cfg: cfg, key: key}, nil
}

// Verify checks the token signature and standard claims and returns the
// decoded claims on success.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, newError(ErrCodeInvalidToken, errors.New("token is empty"))
	}

	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, v.key),
		jwt.WithAcceptableSkew(v.cfg.ClockSkew),
	)
	if err != nil {
		if mapped := classifyValidationError(err); mapped != nil {
			return nil, mapped
		}
		return nil, newError(ErrCodeInvalidToken, err)
	}

	validateOpts := []jwt.ValidateOption{
		jwt.WithAcceptableSkew(v.cfg.ClockSkew),
	}
	if v.cfg.Issuer != "" {
		validateOpts = append(validateOpts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		validateOpts = append(validateOpts, jwt.WithAudience(v.cfg.Audience))
	}
	if err := jwt.Validate(parsed, validateOpts...); err != nil {
		switch {
		case errors.Is(err, jwt.ErrInvalidIssuer()):
			return nil, newError(ErrCodeInvalidIssuer, err)
		case errors.Is(err, jwt.ErrInvalidAudience()):
			return nil, newError(ErrCodeInvalidAudience, err)
		case errors.Is(err, jwt.ErrTokenExpired()):
			return nil, newError(ErrCodeExpired, err)
		case errors.Is(err, jwt.ErrTokenNotYetValid()):
			return nil, newError(ErrCodeNotYetValid, err)
		default:
			if mapped := classifyValidationError(err); mapped != nil {
				return nil, mapped
			}
			return nil, newError(ErrCodeInvalidToken, err)
		}
	}

	return claimsFromToken(parsed), nil
}

func claimsFromToken(token jwt.Token) *Claims {
	var audience []string
	if audList := token.Audience(); len(audList) > 0 {
		audience = append([]string(nil), audList...)
	}
	claims := &Claims{
		Subject:   token.Subject(),
		Issuer:    token.Issuer(),
		Audience:  audience,
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}

	if v, ok := token.Get(ClaimTenantID); ok {
		if s, ok := v.(string); ok {
			claims.TenantID = s
		}
	}
	if v, ok := token.Get(ClaimOrgID); ok {
		if s, ok := v.(string); ok {
			claims.OrgID = s
		}
	}
	if v, ok := token.Get(ClaimEmail); ok {
		if s, ok := v.(string); ok {
			claims.Email = strings.ToLower(s)
		}
	}
	if v, ok := token.Get(ClaimName); ok {
		if s, ok := v.(string); ok {
			claims.Name = s
		}
	}
	return claims
}

func classifyValidationError(err error) error {
	if err == nil {
		return nil
	}
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "token expired") || strings.Contains(lower, `"exp" not satisfied`):
		return newError(ErrCodeExpired, err)
	case strings.Contains(lower, `"nbf" not satisfied`):
		return newError(ErrCodeNotYetValid, err)
	}
	return nil
}
