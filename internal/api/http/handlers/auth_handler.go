package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/session-auth-service/internal/api/dto"
	"github.com/spec-kit/session-auth-service/internal/auth"
	"github.com/spec-kit/session-auth-service/internal/service"
	apperrors "github.com/spec-kit/session-auth-service/pkg/util"
)

// AuthHandler exposes account and session endpoints.
type AuthHandler struct {
	accounts *service.AccountService
	sessions *service.SessionService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts *service.AccountService, sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

// SignUp handles POST /api/auth/sign-up.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	req, err := parseAccountRequest(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.SignUp(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err, req.Email)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": dto.AccountResponse{
			ID:        account.ID,
			Email:     account.Email,
			Roles:     account.Roles,
			CreatedAt: account.CreatedAt,
		},
	})
}

// SignIn handles POST /api/auth/sign-in.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	req, err := parseAccountRequest(c)
	if err != nil {
		return err
	}

	token, exp, err := h.sessions.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err, req.Email)
	}

	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}

// Detail handles GET /api/auth/detail.
func (h *AuthHandler) Detail(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromFiber(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}
	return c.JSON(fiber.Map{"data": dto.DetailResponse{Subject: identity.Subject, Roles: identity.Roles}})
}

// SignOut handles POST /api/auth/sign-out.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if err := h.sessions.SignOut(c.UserContext(), rawAuthorization(c)); err != nil {
		return toHTTPError(err, "")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "signed out"}})
}

// DeleteAccount handles DELETE /api/auth/account.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromFiber(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}
	if err := h.accounts.Delete(c.UserContext(), identity.Subject, rawAuthorization(c)); err != nil {
		return toHTTPError(err, identity.Subject)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseAccountRequest(c *fiber.Ctx) (dto.AccountRequest, error) {
	var req dto.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	return req, dto.Validate(req)
}

// rawAuthorization copies the header out of fiber's reusable buffer, since the
// value may be persisted after the handler returns.
func rawAuthorization(c *fiber.Ctx) string {
	return utils.CopyString(c.Get(fiber.HeaderAuthorization))
}

func toHTTPError(err error, email string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return apperrors.NewValidationError(err.Error(), nil)
	case errors.Is(err, service.ErrDuplicateAccount):
		return apperrors.NewDuplicateAccount(email)
	case errors.Is(err, service.ErrAccountNotFound):
		return apperrors.NewAccountNotFound()
	case errors.Is(err, service.ErrPasswordIncorrect):
		return apperrors.NewPasswordIncorrect()
	case errors.Is(err, service.ErrUnauthenticated):
		return apperrors.NewUnauthorized()
	default:
		return apperrors.NewInternalError(err)
	}
}
