// Package token issues and verifies the HS256 access tokens that carry a caller's tenant.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/code19m/errx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CodeExpiredToken = "EXPIRED_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"

	// ActorUser is the actor type of tokens issued without one.
	ActorUser = "user"

	minSecretKeySize = 16
)

// Claims are the registered JWT claims plus the tenant and actor kind of the bearer.
type Claims struct {
	jwt.RegisteredClaims

	CompanyID uuid.UUID `json:"company_id"`
	ActorType string    `json:"actor_type,omitempty"`
}

// Actor returns the actor type, ActorUser when the token has none.
func (c *Claims) Actor() string {
	if c.ActorType == "" {
		return ActorUser
	}
	return c.ActorType
}

// Option customizes a JWTMaker.
type Option func(*JWTMaker)

// WithIssuer sets the iss claim of issued tokens and requires it on verification.
func WithIssuer(issuer string) Option {
	return func(m *JWTMaker) { m.issuer = issuer }
}

// WithLeeway tolerates clock skew when checking exp and nbf.
func WithLeeway(d time.Duration) Option {
	return func(m *JWTMaker) { m.leeway = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *JWTMaker) { m.now = now }
}

// JWTMaker signs and verifies tokens with a shared secret.
type JWTMaker struct {
	key    []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// NewJWTMaker returns a maker for secret, which must be at least 16 bytes long.
func NewJWTMaker(secret string, opts ...Option) (*JWTMaker, error) {
	if len(secret) < minSecretKeySize {
		return nil, errx.New(
			fmt.Sprintf("jwt secret must be at least %d bytes", minSecretKeySize),
			errx.WithType(errx.T_Validation),
		)
	}

	m := &JWTMaker{key: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs a token for subject within companyID that expires after ttl.
func (m *JWTMaker) Issue(subject string, companyID uuid.UUID, ttl time.Duration) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CompanyID: companyID,
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", nil, errx.Wrap(err)
	}
	return raw, claims, nil
}

// VerifyToken checks the signature, time claims and issuer of raw and returns its claims.
// Tokens without a company are rejected.
func (m *JWTMaker) VerifyToken(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.leeway),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return m.key, nil }, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, unauthenticated(CodeExpiredToken, "token is expired", err)
	case err != nil:
		return nil, unauthenticated(CodeInvalidToken, "token is invalid", err)
	case claims.CompanyID == uuid.Nil:
		return nil, unauthenticated(CodeInvalidToken, "token has no company_id claim", nil)
	}
	return claims, nil
}

func unauthenticated(code, msg string, cause error) error {
	details := errx.D{}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	return errx.New(msg, errx.WithCode(code), errx.WithType(errx.T_Authentication), errx.WithDetails(details))
}
