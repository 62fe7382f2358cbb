package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// DefaultSessionTTL is how long a session survives without being used.
const DefaultSessionTTL = 12 * time.Hour

// sessionClaims is the token payload: {iat, uid} plus a jti so two tokens
// minted within the same second still differ.
type sessionClaims struct {
	UID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenIssuer mints HS256 session tokens and records each one as the single
// valid token for its user in a population-scoped SessionCache.
type TokenIssuer struct {
	secret []byte
	cache  ports.SessionCache
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, cache ports.SessionCache, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenIssuer{
		secret: []byte(secret),
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL is the lifetime applied on issue and on every renewal.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a fresh token for userID and makes it the only valid one,
// superseding anything cached before.
func (t *TokenIssuer) Issue(ctx context.Context, userID int64) (string, error) {
	claims := sessionClaims{
		UID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(t.now()),
			ID:       uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := t.cache.Set(ctx, userID, signed, t.ttl); err != nil {
		return "", fmt.Errorf("cache token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and extracts the payload. Every failure is
// reported as domain.ErrInvalidToken; the wrapped text is for logs only.
func (t *TokenIssuer) Decode(token string) (domain.TokenClaims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.UID <= 0 || claims.IssuedAt == nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: missing uid or iat", domain.ErrInvalidToken)
	}

	return domain.TokenClaims{
		UserID:   claims.UID,
		IssuedAt: claims.IssuedAt.Time,
		ID:       claims.ID,
	}, nil
}
