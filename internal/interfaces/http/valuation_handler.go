package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/documents"
	"github.com/jhoicas/taller-api/internal/application/dto"
)

// ValuationHandler vista previa del cálculo de una línea (edición campo a campo).
type ValuationHandler struct {
	uc *documents.UseCase
}

// NewValuationHandler construye el handler.
func NewValuationHandler(uc *documents.UseCase) *ValuationHandler {
	return &ValuationHandler{uc: uc}
}

// PreviewLine POST /api/valuation/line
func (h *ValuationHandler) PreviewLine(c *fiber.Ctx) error {
	var req dto.LineItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	item, err := h.uc.PreviewLine(req.ToEntity())
	if err != nil {
		return err
	}
	return c.JSON(dto.LineItemFromEntity(item))
}
