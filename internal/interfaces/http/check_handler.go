package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/checks"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// CheckHandler cartera de cheques.
type CheckHandler struct {
	uc *checks.UseCase
}

// NewCheckHandler construye el handler.
func NewCheckHandler(uc *checks.UseCase) *CheckHandler {
	return &CheckHandler{uc: uc}
}

// List GET /api/checks?status=en_cartera&type=recibido&limit=20&offset=0
func (h *CheckHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	list, err := h.uc.List(c.UserContext(), repository.CheckFilter{
		Status: entity.CheckStatus(c.Query("status")),
		Type:   entity.CheckType(c.Query("type")),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.CheckListFromEntities(list, h.uc.Now(), dto.PageResponse{Limit: page.Limit, Offset: page.Offset}))
}

// Get GET /api/checks/:id
func (h *CheckHandler) Get(c *fiber.Ctx) error {
	chk, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.CheckFromEntity(chk, h.uc.Now()))
}

// Transition POST /api/checks/:id/transition
func (h *CheckHandler) Transition(c *fiber.Ctx) error {
	var req dto.TransitionCheckRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	chk, err := h.uc.Transition(c.UserContext(), c.Params("id"), entity.CheckStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.CheckFromEntity(chk, h.uc.Now()))
}
