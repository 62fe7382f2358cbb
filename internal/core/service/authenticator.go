package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// UserLoader resolves a user id to the population's user type. A miss must
// be reported as domain.ErrUserNotFound.
type UserLoader[U any] interface {
	FindByID(ctx context.Context, id int64) (U, error)
}

// Authenticator is the per-request gate for one principal population. It
// accepts a bearer token only when it decodes and equals the cached token
// for its user, then slides the session TTL and resolves the user.
type Authenticator[U any] struct {
	principal domain.Principal
	issuer    *TokenIssuer
	cache     ports.SessionCache
	users     UserLoader[U]
	log       zerolog.Logger
}

func NewAuthenticator[U any](
	principal domain.Principal,
	issuer *TokenIssuer,
	cache ports.SessionCache,
	users UserLoader[U],
	log zerolog.Logger,
) *Authenticator[U] {
	return &Authenticator[U]{
		principal: principal,
		issuer:    issuer,
		cache:     cache,
		users:     users,
		log:       log.With().Str("principal", string(principal)).Logger(),
	}
}

// Principal names the population this gate serves.
func (a *Authenticator[U]) Principal() domain.Principal { return a.principal }

// Authenticate runs the gate. An empty token yields domain.ErrUnauthenticated;
// a token that fails to decode or is not the cached one yields
// domain.ErrInvalidToken. Infrastructure failures are returned wrapped.
func (a *Authenticator[U]) Authenticate(ctx context.Context, token string) (U, error) {
	var zero U
	if token == "" {
		return zero, domain.ErrUnauthenticated
	}

	claims, err := a.issuer.Decode(token)
	if err != nil {
		a.log.Warn().Err(err).Str("reason", "decode").Msg("token rejected")
		return zero, err
	}

	cached, ok, err := a.cache.Get(ctx, claims.UserID)
	if err != nil {
		return zero, fmt.Errorf("read session: %w", err)
	}
	if !ok || cached != token {
		reason := "superseded"
		if !ok {
			reason = "expired"
		}
		a.log.Warn().Int64("user_id", claims.UserID).Str("reason", reason).Msg("token rejected")
		return zero, domain.ErrInvalidToken
	}

	if err := a.cache.Set(ctx, claims.UserID, token, a.issuer.TTL()); err != nil {
		return zero, fmt.Errorf("renew session: %w", err)
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return zero, fmt.Errorf("%w: user not found", domain.ErrUnauthenticated)
		}
		return zero, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
