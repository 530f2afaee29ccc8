package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/api/validator"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func bindBody(c *fiber.Ctx, v *validator.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return v.Validate(out)
}

func bindListQuery(c *fiber.Ctx, v *validator.Validator) (dto.ListQuery, error) {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return q, apperrors.NewValidationError("invalid query", nil)
	}
	return q, v.Validate(&q)
}

// idParam returns the named path parameter if it is a UUID.
func idParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.NewValidationError("invalid id", map[string]any{name: raw})
	}
	return id.String(), nil
}

func callerID(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return "", apperrors.NewUnauthorized("user required")
	}
	return principal.UserID(), nil
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": data})
}

func message(c *fiber.Ctx, msg string) error {
	return ok(c, dto.MessageResponse{Message: msg})
}
