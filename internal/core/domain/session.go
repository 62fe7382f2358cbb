package domain

import "time"

// Principal names a user population. Session cache keys are namespaced by it
// so that a token for one population never authenticates in another.
type Principal string

const (
	PrincipalAdmin Principal = "AdminUser"
	PrincipalUser  Principal = "User"
)

// TokenClaims is the decoded payload of a session token.
type TokenClaims struct {
	UserID   int64
	IssuedAt time.Time
	ID       string
}
