package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// HeaderIdempotencyKey cabecera que identifica un POST reintentable.
const HeaderIdempotencyKey = "Idempotency-Key"

// Idempotency rechaza con 409 DUPLICATE_REQUEST un POST que repite una clave ya usada, para que
// un reintento del cliente no genere un segundo movimiento. Sin cabecera no hace nada.
// Si la operación falla la clave se libera y el cliente puede reintentar.
func Idempotency(store ports.IdempotencyStore, ttl time.Duration, log *logger.Logger) fiber.Handler {
	log = log.WithComponent("idempotency")
	release := func(c *fiber.Ctx, key string) {
		if err := store.Release(c.UserContext(), key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
		}
	}
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" || store == nil {
			return c.Next()
		}
		scoped := GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + key

		ok, err := store.Claim(c.UserContext(), scoped, ttl)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "IDEMPOTENCY_UNAVAILABLE",
				Message: "no se pudo verificar la clave de idempotencia, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "DUPLICATE_REQUEST",
				Message: "la solicitud con esta Idempotency-Key ya fue procesada",
			})
		}

		if err := c.Next(); err != nil {
			release(c, scoped)
			return err
		}
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			release(c, scoped)
		}
		return nil
	}
}
