package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6,max=100"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := decodeJSON(c.Body(), &req); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_body"})
		return err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return err
	}

	res, err := h.Auth.Authenticate(c.UserContext(), req.Email, req.Password, req.RememberMe)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return err
	}
	if err != nil {
		return err
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": req.Email, "remember_me": req.RememberMe})
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, err := h.Auth.CurrentUser(c.UserContext(), subject(c))
	if err != nil {
		return err
	}
	return success(c, "Current user retrieved", u)
}

// decodeJSON maps a wrongly typed field to TypeMismatch and any other decode
// failure to a body-level validation error.
func decodeJSON(body []byte, v any) error {
	if len(body) == 0 {
		return validate.Errors{"body": "is required"}
	}
	err := json.Unmarshal(body, v)
	if err == nil {
		return nil
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &validate.TypeMismatch{Field: te.Field, Value: te.Value}
	}
	return validate.Errors{"body": "must be a valid JSON object"}
}
