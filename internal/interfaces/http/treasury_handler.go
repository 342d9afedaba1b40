package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// TreasuryHandler cuentas, movimientos manuales, extractos y auditoría del libro.
type TreasuryHandler struct {
	uc *treasury.LedgerUseCase
}

// NewTreasuryHandler construye el handler.
func NewTreasuryHandler(uc *treasury.LedgerUseCase) *TreasuryHandler {
	return &TreasuryHandler{uc: uc}
}

// CreateAccount POST /api/treasury/accounts
func (h *TreasuryHandler) CreateAccount(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	acc, err := h.uc.CreateAccount(c.UserContext(), treasury.AccountInput{
		Name:           req.Name,
		Type:           entity.AccountType(req.Type),
		PaymentMethod:  entity.PaymentMethod(req.PaymentMethod),
		OpeningBalance: req.OpeningBalance,
		UserID:         GetUserID(c),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AccountFromEntity(acc))
}

// ListAccounts GET /api/treasury/accounts
func (h *TreasuryHandler) ListAccounts(c *fiber.Ctx) error {
	list, err := h.uc.ListAccounts(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AccountFromEntity(a))
	}
	return c.JSON(out)
}

// DeleteAccount DELETE /api/treasury/accounts/:id
func (h *TreasuryHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.uc.DeleteAccount(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Statement GET /api/treasury/accounts/:id/statement
func (h *TreasuryHandler) Statement(c *fiber.Ctx) error {
	st, err := h.uc.Statement(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.StatementFromLedger(st.Account, st.Lines))
}

// Audit GET /api/treasury/accounts/:id/audit
func (h *TreasuryHandler) Audit(c *fiber.Ctx) error {
	res, err := h.uc.Audit(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.AuditFromLedger(res))
}

// CreateMovement POST /api/treasury/movements (admite Idempotency-Key)
func (h *TreasuryHandler) CreateMovement(c *fiber.Ctx) error {
	var req dto.CreateMovementRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}
	m, err := h.uc.Post(c.UserContext(), treasury.MovementInput{
		Type:                 entity.MovementType(req.Type),
		Amount:               req.Amount,
		OriginAccountID:      req.OriginAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Concept:              req.Concept,
		Date:                 date,
		UserID:               GetUserID(c),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(m))
}

// DeleteMovement DELETE /api/treasury/movements/:id (solo manuales)
func (h *TreasuryHandler) DeleteMovement(c *fiber.Ctx) error {
	if err := h.uc.DeleteManual(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
