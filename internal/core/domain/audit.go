package domain

import "time"

// AuthAction labels an entry in the authentication audit trail.
type AuthAction string

const (
	ActionLogin          AuthAction = "login"
	ActionPasswordChange AuthAction = "password_change"
	ActionPasswordReset  AuthAction = "password_reset"
)

// AuthEvent records a credential-related action.
type AuthEvent struct {
	Principal Principal  `json:"principal" bson:"principal"`
	UserID    int64      `json:"user_id" bson:"user_id"`
	Username  string     `json:"username" bson:"username"`
	Action    AuthAction `json:"action" bson:"action"`
	Success   bool       `json:"success" bson:"success"`
	IP        string     `json:"ip,omitempty" bson:"ip,omitempty"`
	At        time.Time  `json:"at" bson:"at"`
}
