package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const ClientIdHeader = "X-Client-Id"

// ClientMiddleware resolves the caller's opaque client identifier from
// the X-Client-Id header. This is an ownership boundary, not an
// authentication scheme: the id only scopes which sessions are visible.
func ClientMiddleware(ctx *fiber.Ctx) error {
	raw := ctx.Get(ClientIdHeader)
	if raw == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, "Missing "+ClientIdHeader+" header"))
	}

	clientId, err := uuid.Parse(raw)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, "Invalid "+ClientIdHeader+" header"))
	}

	ctx.Locals("client_id", clientId)
	return ctx.Next()
}

// ClientId reads the identifier stored by ClientMiddleware.
func ClientId(ctx *fiber.Ctx) uuid.UUID {
	if id, ok := ctx.Locals("client_id").(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
