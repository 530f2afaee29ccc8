package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/api/validator"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthHandler exposes login, account verification and password recovery.
type AuthHandler struct {
	auth      *service.AuthService
	validator *validator.Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, v *validator.Validator) *AuthHandler {
	return &AuthHandler{auth: authService, validator: v}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return ok(c, dto.LoginResponse{
		User:             dto.ToUserResponse(result.User),
		AccessToken:      result.Tokens.AccessToken,
		AccessExpiresAt:  result.Tokens.AccessExpiresAt,
		RefreshToken:     result.Tokens.RefreshToken,
		RefreshExpiresAt: result.Tokens.RefreshExpiresAt,
	})
}

// Verify POST /auth/verify/:token.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	token, err := pathToken(c, req.Token)
	if err != nil {
		return err
	}
	if err := h.auth.VerifyAccount(c.UserContext(), token, req.Email); err != nil {
		return err
	}
	return message(c, service.MsgUserValidated)
}

// ForgotPassword POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return message(c, service.MsgForgotPasswordSent)
}

// ChangePassword POST /auth/change-password/:token.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	token, err := pathToken(c, req.Token)
	if err != nil {
		return err
	}
	input := service.PasswordResetInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	if err := h.auth.ChangePassword(c.UserContext(), token, input); err != nil {
		return err
	}
	return message(c, service.MsgPasswordChanged)
}

// Refresh POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	token, expiresAt, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return ok(c, dto.AccessTokenResponse{AccessToken: token, ExpiresAt: expiresAt})
}

// Profile GET /auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Profile(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return ok(c, dto.ToUserResponse(user))
}

// pathToken returns the :token parameter after checking the body repeats it.
func pathToken(c *fiber.Ctx, bodyToken string) (string, error) {
	token := c.Params("token")
	if token == "" || token != bodyToken {
		return "", apperrors.NewBadRequest(service.ErrAuthTokenInvalid)
	}
	return token, nil
}
