package handlers

import (
	"errors"

	"hostelhub/internal/types"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, types.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(kind, types.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(kind, types.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(kind, types.ErrInvalidTransition),
		errors.Is(kind, types.ErrInvalidState),
		errors.Is(kind, types.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// writeError renders lifecycle outcomes with their kind and hides everything
// else behind a generic 500.
func writeError(c *fiber.Ctx, log logger.Logger, err error) error {
	if requestErr, ok := types.AsRequestError(err); ok {
		status := statusFor(requestErr.Kind)
		if status != fiber.StatusInternalServerError {
			log.Info("request rejected", "code", requestErr.Code(), "reason", requestErr.Message)
			return c.Status(status).JSON(fiber.Map{
				"error": requestErr.Message,
				"code":  requestErr.Code(),
			})
		}
	}

	_ = log.Err("request failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
		"code":  "internal",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"code":  types.ErrValidation.Error(),
	})
}
