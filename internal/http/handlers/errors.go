package handlers

import (
	"errors"
	"time"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeAuthFailed        = "AUTHENTICATION_FAILED"
	CodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeTypeMismatch      = "TYPE_MISMATCH"
	CodeRateLimited       = "RATE_LIMITED"
	CodeNotFound          = "NOT_FOUND"
	CodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	msgInternal           = "internal server error"
	msgInvalidCredentials = "invalid credentials"
)

// ErrUnauthenticated is a missing or rejected bearer token.
var ErrUnauthenticated = errors.New("authentication required")

// ErrorHandler renders every failure as an ErrorEnvelope. Anything it does not
// recognise becomes a 500 without internal detail.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, env := classify(err)
	env.Success = false
	env.Timestamp = time.Now().UTC()
	env.RequestID = requestID(c)
	c.Status(status)
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	return c.JSON(env)
}

func classify(err error) (int, ErrorEnvelope) {
	var (
		fieldErrs validate.Errors
		mismatch  *validate.TypeMismatch
		fe        *fiber.Error
	)
	switch {
	case errors.Is(err, services.ErrBadCreds):
		return fiber.StatusUnauthorized, ErrorEnvelope{ErrorCode: CodeAuthFailed, Message: msgInvalidCredentials}
	case errors.Is(err, ErrUnauthenticated):
		return fiber.StatusUnauthorized, ErrorEnvelope{ErrorCode: CodeAuthFailed, Message: ErrUnauthenticated.Error()}
	case errors.Is(err, services.ErrCategoryNotFound):
		return fiber.StatusNotFound, ErrorEnvelope{ErrorCode: CodeCategoryNotFound, Message: err.Error()}
	case errors.As(err, &fieldErrs):
		return fiber.StatusBadRequest, ErrorEnvelope{ErrorCode: CodeValidation, Message: "invalid input", FieldErrors: fieldErrs}
	case errors.As(err, &mismatch):
		return fiber.StatusBadRequest, ErrorEnvelope{ErrorCode: CodeTypeMismatch, Message: mismatch.Error()}
	case errors.As(err, &fe):
		return fiberError(fe)
	default:
		return fiber.StatusInternalServerError, ErrorEnvelope{ErrorCode: CodeInternal, Message: msgInternal}
	}
}

func fiberError(fe *fiber.Error) (int, ErrorEnvelope) {
	switch fe.Code {
	case fiber.StatusNotFound:
		return fe.Code, ErrorEnvelope{ErrorCode: CodeNotFound, Message: "resource not found"}
	case fiber.StatusMethodNotAllowed:
		return fe.Code, ErrorEnvelope{ErrorCode: CodeMethodNotAllowed, Message: "method not allowed"}
	case fiber.StatusTooManyRequests:
		return fe.Code, ErrorEnvelope{ErrorCode: CodeRateLimited, Message: fe.Message}
	case fiber.StatusRequestEntityTooLarge:
		return fe.Code, ErrorEnvelope{ErrorCode: CodePayloadTooLarge, Message: "request body too large"}
	}
	if fe.Code >= fiber.StatusBadRequest && fe.Code < fiber.StatusInternalServerError {
		return fe.Code, ErrorEnvelope{ErrorCode: CodeValidation, Message: fe.Message}
	}
	return fiber.StatusInternalServerError, ErrorEnvelope{ErrorCode: CodeInternal, Message: msgInternal}
}
