// Package settlements registra cobros (sobre ventas) y pagos (sobre compras) en cuenta corriente.
package settlements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/allocation"
	"github.com/jhoicas/taller-api/internal/domain/checks"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/numbering"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// LedgerPoster puerto hacia el libro de tesorería (misma transacción).
type LedgerPoster interface {
	PostInTx(ctx context.Context, repos repository.Repos, m *entity.CashMovement) error
	ReverseRelatedInTx(ctx context.Context, repos repository.Repos, relatedType, relatedID string) error
}

// UseCase cobros y pagos.
type UseCase struct {
	tx     ports.TxRunner
	ledger LedgerPoster
	now    ports.Clock
	log    *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, ledger LedgerPoster, now ports.Clock, log *logger.Logger) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{tx: tx, ledger: ledger, now: now, log: log.WithComponent("settlements")}
}

// ApplyInput cobro o pago a registrar. ExpectedVersion 0 omite el control de versión del documento.
type ApplyInput struct {
	ExpectedVersion   int
	Instrument        entity.PaymentInstrument
	TreasuryAccountID string
	Date              time.Time
	Notes             string
	UserID            string
}

// Apply registra un cobro/pago: baja el saldo del documento, genera exactamente un movimiento
// de tesorería y, si es con cheque, el cheque correspondiente.
func (uc *UseCase) Apply(ctx context.Context, documentID string, in ApplyInput) (*entity.Settlement, *entity.Document, error) {
	allocation.Normalize(&in.Instrument)
	if err := allocation.ValidateInstrument(in.Instrument); err != nil {
		return nil, nil, err
	}
	if !in.Instrument.Amount.IsPositive() {
		return nil, nil, domain.ErrInvalidAmount
	}

	var (
		settlement *entity.Settlement
		doc        *entity.Document
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		doc, err = repos.Documents.GetForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if in.ExpectedVersion != 0 && doc.Version != in.ExpectedVersion {
			return &domain.ConflictError{Entity: "documento", ID: documentID}
		}
		if doc.PaymentType != entity.PaymentTypeAccount {
			return domain.NewValidationError("document_id", "solo se registran cobros/pagos sobre documentos en cuenta corriente")
		}
		res, err := allocation.Settle(doc.Balance, in.Instrument.Amount)
		if err != nil {
			return err
		}

		now := uc.now()
		date := in.Date
		if date.IsZero() {
			date = now
		}
		settlement = &entity.Settlement{
			ID:         uuid.New().String(),
			Kind:       doc.SettlementKind(),
			DocumentID: doc.ID,
			Instrument: in.Instrument,
			Date:       date,
			Notes:      strings.TrimSpace(in.Notes),
			CreatedAt:  now,
			CreatedBy:  in.UserID,
		}
		settlement.Instrument.ID = settlement.ID
		if in.TreasuryAccountID != "" {
			settlement.Instrument.TreasuryAccountID = in.TreasuryAccountID
		}

		acc, err := treasury.ResolveAccount(ctx, repos, settlement.Instrument)
		if err != nil {
			return err
		}
		settlement.TreasuryAccountID = acc.ID
		m := &entity.CashMovement{
			Type:                doc.MovementType(),
			Amount:              settlement.Instrument.Amount,
			OriginAccountID:     acc.ID,
			Concept:             fmt.Sprintf("%s %s %s (%s)", settlement.Kind, doc.Kind, numbering.FormatNumber(doc.Number), settlement.Instrument.Method),
			RelatedDocumentID:   settlement.ID,
			RelatedDocumentType: string(settlement.Kind),
			Date:                date,
			CreatedBy:           in.UserID,
		}
		if err := uc.ledger.PostInTx(ctx, repos, m); err != nil {
			return err
		}
		settlement.MovementID = m.ID
		if err := repos.Settlements.Create(ctx, settlement); err != nil {
			return err
		}

		if _, ok := settlement.Instrument.CheckDetails(); ok {
			c := checks.NewCheck(doc, settlement.Instrument, now)
			c.ID = uuid.New().String()
			if err := repos.Checks.Create(ctx, &c); err != nil {
				return err
			}
		}

		doc.Balance, doc.Status = res.Balance, res.Status
		doc.UpdatedAt = now
		return repos.Documents.Update(ctx, doc, doc.Version)
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Info().
		Str("settlement_id", settlement.ID).
		Str("document_id", doc.ID).
		Str("amount", settlement.Instrument.Amount.String()).
		Str("balance", doc.Balance.String()).
		Msg("cobro/pago registrado")
	return settlement, doc, nil
}

// Delete anula un cobro/pago: revierte su movimiento, elimina su cheque (si sigue en cartera)
// y recalcula el saldo del documento.
func (uc *UseCase) Delete(ctx context.Context, settlementID string) error {
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		s, err := repos.Settlements.GetByID(ctx, settlementID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		doc, err := repos.Documents.GetForUpdate(ctx, s.DocumentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}

		c, err := repos.Checks.FindByPayment(ctx, doc.ID, s.ID)
		if err != nil {
			return err
		}
		if c != nil {
			if err := checks.EnsureEditable(*c); err != nil {
				return err
			}
			if err := repos.Checks.Delete(ctx, c.ID); err != nil {
				return err
			}
		}
		if err := uc.ledger.ReverseRelatedInTx(ctx, repos, string(s.Kind), s.ID); err != nil {
			return err
		}

		all, err := repos.Settlements.ListByDocument(ctx, doc.ID)
		if err != nil {
			return err
		}
		settled := decimal.Zero
		for _, other := range all {
			if other.ID != s.ID {
				settled = settled.Add(other.Instrument.Amount)
			}
		}
		res, err := allocation.Rebalance(doc.Total, settled)
		if err != nil {
			return err
		}
		doc.Balance, doc.Status = res.Balance, res.Status
		doc.UpdatedAt = uc.now()
		if err := repos.Documents.Update(ctx, doc, doc.Version); err != nil {
			return err
		}
		return repos.Settlements.Delete(ctx, s.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("settlement_id", settlementID).Msg("cobro/pago anulado")
	return nil
}

// ListByDocument cobros/pagos de un documento.
func (uc *UseCase) ListByDocument(ctx context.Context, documentID string) ([]*entity.Settlement, error) {
	doc, err := uc.tx.Repos().Documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return uc.tx.Repos().Settlements.ListByDocument(ctx, documentID)
}
