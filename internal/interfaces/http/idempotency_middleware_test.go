package http_test

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// releaseFails toma cualquier clave pero no puede liberarla.
type releaseFails struct {
	claims   int
	releases int
}

func (s *releaseFails) Claim(context.Context, string, time.Duration) (bool, error) {
	s.claims++
	return true, nil
}

func (s *releaseFails) Release(context.Context, string) error {
	s.releases++
	return errors.New("redis: connection refused")
}

func TestIdempotency_ErrorAlLiberarSeRegistra(t *testing.T) {
	store := &releaseFails{}
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug")

	app := fiber.New()
	app.Post("/cobros", apphttp.Idempotency(store, time.Minute, log), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnprocessableEntity).SendString("no cierra")
	})

	req := httptest.NewRequest(fiber.MethodPost, "/cobros", nil)
	req.Header.Set(apphttp.HeaderIdempotencyKey, "k-1")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode, "la respuesta del handler no cambia")
	assert.Equal(t, 1, store.claims)
	assert.Equal(t, 1, store.releases)
	out := buf.String()
	assert.Contains(t, out, `"component":"idempotency"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, ":POST:/cobros:k-1")
}

func TestIdempotency_RespuestaExitosaNoLibera(t *testing.T) {
	store := &releaseFails{}
	var buf bytes.Buffer

	app := fiber.New()
	app.Post("/cobros", apphttp.Idempotency(store, time.Minute, logger.NewWithWriter(&buf, "debug")), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/cobros", nil)
	req.Header.Set(apphttp.HeaderIdempotencyKey, "k-2")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Zero(t, store.releases)
	assert.Empty(t, buf.String())
}
