package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/settlements"
)

// SettlementHandler cobros y pagos sobre documentos en cuenta corriente.
type SettlementHandler struct {
	uc *settlements.UseCase
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(uc *settlements.UseCase) *SettlementHandler {
	return &SettlementHandler{uc: uc}
}

// Apply POST /api/documents/:id/settlements (admite Idempotency-Key)
func (h *SettlementHandler) Apply(c *fiber.Ctx) error {
	var req dto.ApplySettlementRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}
	s, doc, err := h.uc.Apply(c.UserContext(), c.Params("id"), settlements.ApplyInput{
		ExpectedVersion:   req.ExpectedVersion,
		Instrument:        req.Instrument,
		TreasuryAccountID: req.TreasuryAccountID,
		Date:              date,
		Notes:             req.Notes,
		UserID:            GetUserID(c),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ApplySettlementResponse{
		Settlement: dto.SettlementFromEntity(s),
		Document:   dto.DocumentFromEntity(doc),
	})
}

// List GET /api/documents/:id/settlements
func (h *SettlementHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListByDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]dto.SettlementResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SettlementFromEntity(s))
	}
	return c.JSON(out)
}

// Delete DELETE /api/settlements/:id
func (h *SettlementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
