package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingToken is returned when an identity token is required but absent.
var ErrMissingToken = errors.New("missing identity token")

// IdentityClaims carry the display label the booking system assigned to a
// participant. The subject is the participant's external id.
type IdentityClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// IdentityConfig holds identity token configuration.
type IdentityConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Enabled reports whether identity tokens can be verified.
func (c *IdentityConfig) Enabled() bool {
	return c != nil && len(c.Secret) > 0
}

// IssueIdentityToken signs a token for subject with the given display name.
func IssueIdentityToken(cfg *IdentityConfig, subject, name string) (string, error) {
	if !cfg.Enabled() {
		return "", errors.New("identity secret is not configured")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}

	now := time.Now()
	claims := IdentityClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}

// ParseIdentityToken validates a token and returns its claims.
func ParseIdentityToken(cfg *IdentityConfig, tokenString string) (*IdentityClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(*jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// DisplayName prefers the name claim and falls back to the subject.
func (c *IdentityClaims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Subject
}
