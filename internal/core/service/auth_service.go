package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

// AuthService implements login and password management for admin users.
type AuthService struct {
	repo    ports.AdminUserRepository
	issuer  *TokenIssuer
	checker ports.PermissionChecker
	audit   ports.AuditRecorder
	log     zerolog.Logger
	now     func() time.Time
}

func NewAuthService(repo ports.AdminUserRepository, issuer *TokenIssuer, checker ports.PermissionChecker, audit ports.AuditRecorder, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, issuer: issuer, checker: checker, audit: audit, log: log, now: time.Now}
}

// Login verifies credentials and issues a token that supersedes any earlier
// session of the same user. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password, ip string) (string, *domain.AdminUser, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(0, username, domain.ActionLogin, false, ip)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !checkPassword(user.PasswordHash, password) {
		s.record(user.ID, username, domain.ActionLogin, false, ip)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.record(user.ID, username, domain.ActionLogin, true, ip)
	return token, user, nil
}

// ChangePassword replaces the caller's own password. The current session
// stays valid.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.AdminUser, oldPassword, newPassword, ip string) error {
	if !checkPassword(user.PasswordHash, oldPassword) {
		s.record(user.ID, user.Username, domain.ActionPasswordChange, false, ip)
		return domain.ErrWrongPassword
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	user.PasswordHash = hash

	s.record(user.ID, user.Username, domain.ActionPasswordChange, true, ip)
	return nil
}

// ResetPassword sets the target's password to its own username. Only actors
// holding the Admin permission may call it.
func (s *AuthService) ResetPassword(ctx context.Context, actor *domain.AdminUser, username, ip string) error {
	ok, err := s.checker.HasPermission(ctx, actor, domain.PermissionAdmin)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if !ok {
		return domain.ErrPermissionDenied
	}

	target, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	hash, err := hashPassword(target.Username)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, target.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().
		Int64("actor_id", actor.ID).
		Int64("target_id", target.ID).
		Msg("admin password reset")
	s.record(target.ID, target.Username, domain.ActionPasswordReset, true, ip)
	return nil
}

func (s *AuthService) record(userID int64, username string, action domain.AuthAction, success bool, ip string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Principal: domain.PrincipalAdmin,
		UserID:    userID,
		Username:  username,
		Action:    action,
		Success:   success,
		IP:        ip,
		At:        s.now().UTC(),
	})
}

// UserAuthService implements login for end users.
type UserAuthService struct {
	repo   ports.UserRepository
	issuer *TokenIssuer
	audit  ports.AuditRecorder
	now    func() time.Time
}

func NewUserAuthService(repo ports.UserRepository, issuer *TokenIssuer, audit ports.AuditRecorder) *UserAuthService {
	return &UserAuthService{repo: repo, issuer: issuer, audit: audit, now: time.Now}
}

func (s *UserAuthService) Login(ctx context.Context, username, password, ip string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if !checkPassword(user.PasswordHash, password) {
		s.record(user, false, ip)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	s.record(user, true, ip)
	return token, user, nil
}

func (s *UserAuthService) record(user *domain.User, success bool, ip string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Principal: domain.PrincipalUser,
		UserID:    user.ID,
		Username:  user.Username,
		Action:    domain.ActionLogin,
		Success:   success,
		IP:        ip,
		At:        s.now().UTC(),
	})
}
