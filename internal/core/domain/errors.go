package domain

import "errors"

// Authentication failures. Both surface to clients as HTTP 401.
var (
	ErrUnauthenticated = errors.New("login expired")
	ErrInvalidToken    = errors.New("invalid token")
)

// Business failures. These surface inside the envelope with HTTP 200.
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("wrong password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleExists         = errors.New("role already exists")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrUnsupportedUpload  = errors.New("unsupported file extension")
)

// ErrInvalidPage is returned when a requested page lies outside the result set.
var ErrInvalidPage = errors.New("invalid page")
