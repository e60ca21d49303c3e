package handler

import (
	"errors"

	"go-apotek-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorFromCtx reads the identity set by the RequireAuth middleware.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{ID: "system", Name: "Unknown"}
	if id, ok := c.Locals("user_id").(string); ok {
		actor.ID = id
	}
	if name, ok := c.Locals("user_name").(string); ok {
		actor.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	return actor
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// conflictStatus maps lifecycle/state errors to 409, everything else to
// the given fallback.
func errStatus(err error, fallback int) int {
	switch {
	case errors.Is(err, service.ErrAlreadyReceived),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrCannotCancelReceived),
		errors.Is(err, service.ErrDeleteReceived),
		errors.Is(err, service.ErrApproveNotPending),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrSelfTarget):
		return 409
	}
	return fallback
}
