package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/counterparties"
	"github.com/jhoicas/taller-api/internal/application/dto"
)

// CounterpartyHandler clientes y proveedores.
type CounterpartyHandler struct {
	uc *counterparties.UseCase
}

// NewCounterpartyHandler construye el handler.
func NewCounterpartyHandler(uc *counterparties.UseCase) *CounterpartyHandler {
	return &CounterpartyHandler{uc: uc}
}

// Create POST /api/counterparties
func (h *CounterpartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCounterpartyRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/counterparties?kind=cliente&limit=20&offset=0
func (h *CounterpartyHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	list, err := h.uc.List(c.UserContext(), c.Query("kind"), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// Get GET /api/counterparties/:id
func (h *CounterpartyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/counterparties/:id
func (h *CounterpartyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
