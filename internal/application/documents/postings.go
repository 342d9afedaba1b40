package documents

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/numbering"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// postPayments registra un movimiento por cada medio de un documento de contado:
// ingreso en una venta, egreso en una compra.
func (uc *UseCase) postPayments(ctx context.Context, repos repository.Repos, doc *entity.Document, userID string) error {
	if doc.PaymentType != entity.PaymentTypeCash {
		return nil
	}
	for _, p := range doc.Payments {
		if !p.Amount.IsPositive() {
			continue
		}
		acc, err := treasury.ResolveAccount(ctx, repos, p)
		if err != nil {
			return err
		}
		m := &entity.CashMovement{
			Type:                doc.MovementType(),
			Amount:              p.Amount,
			OriginAccountID:     acc.ID,
			Concept:             fmt.Sprintf("%s %s (%s)", doc.Kind, numbering.FormatNumber(doc.Number), p.Method),
			RelatedDocumentID:   doc.ID,
			RelatedDocumentType: string(doc.Kind),
			Date:                doc.Date,
			CreatedBy:           userID,
		}
		if err := uc.ledger.PostInTx(ctx, repos, m); err != nil {
			return err
		}
	}
	return nil
}
