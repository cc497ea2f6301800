package identity

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds identity-provider verification settings.
type Config struct {
	SigningSecret string `env:"IDENTITY_SIGNING_SECRET,required"`
	Issuer        string `env:"IDENTITY_ISSUER"`
	Audience      string `env:"IDENTITY_AUDIENCE"`
}

// TokenVerifier validates provider-issued HS256 ID tokens.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenVerifier creates a verifier from the given config.
func NewTokenVerifier(cfg Config) (*TokenVerifier, error) {
	if cfg.SigningSecret == "" {
		return nil, ErrMissingSigningSecret
	}
	return &TokenVerifier{
		secret:   []byte(cfg.SigningSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

// Verify validates the raw token and extracts the Principal. All parse
// and validation failures collapse into ErrInvalidToken; callers must
// not learn why a credential was rejected.
func (v *TokenVerifier) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	if rawToken == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	p := &Principal{
		Subject: sub,
		Claims:  map[string]any(claims),
	}
	// Email is optional and only trusted when it is a string claim.
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}

	return p, nil
}
