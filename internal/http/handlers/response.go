package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId"`
}

type ErrorEnvelope struct {
	Success     bool              `json:"success"`
	ErrorCode   string            `json:"error_code"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	RequestID   string            `json:"requestId"`
}

// requestID is the id assigned by the requestid middleware, or a fresh one
// when the middleware did not run.
func requestID(c *fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		return rid
	}
	return uuid.NewString()
}

func success(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
		RequestID: requestID(c),
	})
}
