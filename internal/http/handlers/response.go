package handlers

import (
	"context"
	"errors"
	"time"

	"aifinder/internal/apperror"
	applog "aifinder/internal/log"

	"github.com/gofiber/fiber/v2"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		data["RequestID"] = rid
	}
	return c.Render(tmpl, data)
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch apperror.Kind(err) {
	case apperror.ErrInvalidInput:
		return fiber.StatusBadRequest
	case apperror.ErrDuplicateEmail:
		return fiber.StatusConflict
	case apperror.ErrInvalidCredentials:
		return fiber.StatusUnauthorized
	case apperror.ErrNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// KindName is the machine-readable "error" field of an error body.
func KindName(err error) string {
	switch apperror.Kind(err) {
	case apperror.ErrInvalidInput:
		return "invalid_input"
	case apperror.ErrDuplicateEmail:
		return "duplicate_email"
	case apperror.ErrInvalidCredentials:
		return "invalid_credentials"
	case apperror.ErrNotFound:
		return "not_found"
	default:
		return "store_error"
	}
}

// writeError sends the JSON error body for err. Store failures are logged
// with their cause; the client only sees the generic message.
func writeError(c *fiber.Ctx, action string, err error) error {
	status := StatusOf(err)
	body := fiber.Map{"error": KindName(err), "message": apperror.Public(err)}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "" {
		body["field"] = appErr.Field
	}

	c.Status(status)
	switch {
	case status >= fiber.StatusInternalServerError:
		applog.Error(c, action+".fail", err, nil)
	case status == fiber.StatusBadRequest:
		applog.Security(c, "validation.fail", map[string]any{"action": action, "field": body["field"]})
	}
	return c.JSON(body)
}

// dbContext bounds a store call by the configured timeout, derived from the
// request's own context.
func dbContext(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), timeout)
}

// parseBody accepts JSON or form bodies. A body that cannot be decoded is
// InvalidInput.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.InvalidInput("body", "request body could not be parsed")
	}
	return nil
}
