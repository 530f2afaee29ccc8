package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/mail"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthService coordinates login, one-time token and session refresh flows.
type AuthService struct {
	users     repository.UserRepository
	tokens    repository.TokenRepository
	tokenMgr  *auth.TokenManager
	hasher    auth.Hasher
	failures  auth.FailureCounter
	mailer    mail.Sender
	cache     cacheSettings
	authCfg   config.AuthConfig
	frontHost string
	logger    *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	TokenRepo      repository.TokenRepository
	TokenManager   *auth.TokenManager
	Hasher         auth.Hasher
	FailureCounter auth.FailureCounter
	Mailer         mail.Sender
	Cache          cache.Store
	Logger         *zap.Logger
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	User   *domain.User
	Tokens auth.SessionTokens
}

// PasswordResetInput carries the new password for a reset token.
type PasswordResetInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := orNop(deps.Logger)
	failures := deps.FailureCounter
	if failures == nil {
		failures = auth.NewMemoryFailureCounter()
	}
	return &AuthService{
		users:     deps.UserRepo,
		tokens:    deps.TokenRepo,
		tokenMgr:  deps.TokenManager,
		hasher:    deps.Hasher,
		failures:  failures,
		mailer:    deps.Mailer,
		cache:     cacheSettings{store: deps.Cache, ttl: cfg.Cache.TTL, logger: logger},
		authCfg:   cfg.Auth,
		frontHost: cfg.Mail.FrontHost,
		logger:    logger,
	}
}

// Login checks credentials. Repeated failures for one email deactivate the
// account once MaxPassFailures is reached.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			s.logger.Warn("login for unknown email", zap.String("email", email))
		}
		return nil, lookupError(err, ErrAuthUserNotFound)
	}
	if !user.Active {
		return nil, apperrors.NewNotFound(ErrAuthUserNotActive, nil)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, s.handleFailedLogin(ctx, user)
	}

	if err := s.failures.Reset(ctx, email); err != nil {
		s.logger.Warn("failed to reset login failures", zap.String("email", email), zap.Error(err))
	}
	tokens, err := s.tokenMgr.IssueSession(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user.PasswordHash = ""
	return &LoginResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) handleFailedLogin(ctx context.Context, user *domain.User) error {
	count, err := s.failures.Increment(ctx, user.Email)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	limit := s.authCfg.MaxPassFailures
	if limit <= 0 || count < limit {
		return apperrors.NewBadRequest(ErrAuthInvalidLogin)
	}

	s.logger.Warn("blocking user after failed logins", zap.String("email", user.Email), zap.Int("failures", count))
	if err := s.users.SetActive(ctx, user.ID, false); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.failures.Reset(ctx, user.Email); err != nil {
		s.logger.Warn("failed to reset login failures", zap.String("email", user.Email), zap.Error(err))
	}
	s.cache.invalidate(ctx, cache.EntityUsers)
	return apperrors.NewBadRequest(ErrAuthUserBlocked)
}

// SendVerification issues a verification token for a new user and mails it.
func (s *AuthService) SendVerification(ctx context.Context, user *domain.User) error {
	token, err := s.issueOneTime(ctx, domain.TokenPurposeVerify, user.Email, s.authCfg.VerifyTokenTTL)
	if err != nil {
		return err
	}
	return s.send(ctx, mail.QueueRegister, mail.Message{
		Email:    user.Email,
		Name:     user.FirstName,
		LastName: user.LastName,
		URL:      fmt.Sprintf("%s/verify/%s", s.frontHost, token),
		Subject:  fmt.Sprintf("%s, activa tu cuenta", user.FirstName),
	})
}

// VerifyAccount consumes a verification token and activates the user.
func (s *AuthService) VerifyAccount(ctx context.Context, token, email string) error {
	user, err := s.consume(ctx, domain.TokenPurposeVerify, token, email)
	if err != nil {
		return err
	}
	if err := s.users.SetActive(ctx, user.ID, true); err != nil {
		return writeError(err, ErrUserError)
	}
	s.cache.invalidate(ctx, cache.EntityUsers)

	return s.send(ctx, mail.QueueLogin, mail.Message{
		Email:    user.Email,
		Name:     user.FirstName,
		LastName: user.LastName,
		URL:      s.frontHost + "/iniciarsesion",
		Subject:  fmt.Sprintf("%s, gracias por activar tu cuenta", user.FirstName),
	})
}

// ForgotPassword stores a reset token for the user and mails the reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return lookupError(err, ErrUserNotFound)
	}
	token, err := s.issueOneTime(ctx, domain.TokenPurposeReset, user.Email, s.authCfg.ResetTokenTTL)
	if err != nil {
		return err
	}
	return s.send(ctx, mail.QueueForgotPassword, mail.Message{
		Email:    user.Email,
		Name:     user.FirstName,
		LastName: user.LastName,
		URL:      fmt.Sprintf("%s/change-password/%s", s.frontHost, token),
		Subject:  fmt.Sprintf("%s, sigue los pasos para recuperar tu contraseña", user.FirstName),
	})
}

// ChangePassword consumes a reset token and stores the new password.
func (s *AuthService) ChangePassword(ctx context.Context, token string, input PasswordResetInput) error {
	if input.Password != input.ConfirmPassword {
		return apperrors.NewBadRequest(ErrUserPasswordNotMatch)
	}
	user, err := s.consume(ctx, domain.TokenPurposeReset, token, input.Email)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return writeError(err, ErrUserError)
	}

	return s.send(ctx, mail.QueueRecovery, mail.Message{
		Email:    user.Email,
		Name:     user.FirstName,
		LastName: user.LastName,
		URL:      s.frontHost + "/iniciarsesion",
		Subject:  fmt.Sprintf("%s, has cambiado con éxito la contraseña", user.FirstName),
	})
}

// Refresh mints a new access token from a valid refresh token.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokenMgr.ParseRefresh(refreshToken)
	if err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized(ErrAuthRefreshInvalid)
	}
	token, exp, err := s.tokenMgr.IssueAccess(claims.UserID, claims.Email)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// Profile returns the caller's own record.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID, false)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound)
	}
	user.PasswordHash = ""
	return user, nil
}

// PurgeExpiredTokens deletes one-time token records older than the longest
// one-time token lifetime. Their signatures have expired, so they can no
// longer be consumed.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	lifetime := s.authCfg.VerifyTokenTTL
	if s.authCfg.ResetTokenTTL > lifetime {
		lifetime = s.authCfg.ResetTokenTTL
	}
	removed, err := s.tokens.DeleteCreatedBefore(ctx, time.Now().Add(-lifetime))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("expired tokens purged", zap.Int64("removed", removed))
	}
	return removed, nil
}

func (s *AuthService) issueOneTime(ctx context.Context, purpose domain.TokenPurpose, email string, ttl time.Duration) (string, error) {
	token, tokenID, err := s.tokenMgr.IssueOneTime(purpose, email, ttl)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	record := &domain.ActionToken{
		Token:   token,
		Email:   email,
		TokenID: tokenID,
		Purpose: purpose,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return token, nil
}

// consume validates a one-time token against its persisted record, marks it
// used and returns the user it was issued for.
func (s *AuthService) consume(ctx context.Context, purpose domain.TokenPurpose, token, email string) (*domain.User, error) {
	claims, err := s.tokenMgr.ParseOneTime(purpose, token)
	if err != nil {
		return nil, apperrors.NewBadRequest(ErrAuthTokenInvalid)
	}
	record, err := s.tokens.GetByTokenID(ctx, claims.TokenID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewBadRequest(ErrAuthTokenNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if record.IsUsed {
		return nil, apperrors.NewBadRequest(ErrAuthTokenUsed)
	}
	if domain.NormalizeEmail(email) != domain.NormalizeEmail(claims.Email) {
		return nil, apperrors.NewBadRequest(ErrAuthMailDifferent)
	}
	if err := s.tokens.MarkUsed(ctx, claims.TokenID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, apperrors.NewBadRequest(ErrAuthTokenUsed)
		}
		return nil, apperrors.NewInternalError(err)
	}

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(claims.Email))
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *AuthService) send(ctx context.Context, queue string, msg mail.Message) error {
	if err := s.mailer.Send(ctx, queue, msg); err != nil {
		s.logger.Error("mail dispatch failed", zap.String("queue", queue), zap.String("email", msg.Email), zap.Error(err))
		return apperrors.NewInternalErrorMessage(MsgInternalServerError, err)
	}
	return nil
}
