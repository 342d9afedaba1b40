// Package documents orquesta el guardado de ventas y compras: valuación de líneas, totales,
// imputación de pagos, numeración, cheques y movimientos de tesorería en una sola transacción.
package documents

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/domain/valuation"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// LedgerPoster puerto hacia el libro de tesorería; se ejecuta en la transacción del documento.
type LedgerPoster interface {
	PostInTx(ctx context.Context, repos repository.Repos, m *entity.CashMovement) error
	ReverseRelatedInTx(ctx context.Context, repos repository.Repos, relatedType, relatedID string) error
}

// UseCase casos de uso de documentos comerciales.
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
	return &UseCase{tx: tx, ledger: ledger, now: now, log: log.WithComponent("documents")}
}

// SaveInput alta (ID vacío) o edición de un documento.
// Number 0 = numeración automática; mayor a 0 = número manual.
type SaveInput struct {
	ID              string
	ExpectedVersion int
	Kind            entity.DocumentKind
	CounterpartyID  string
	Date            time.Time
	Letter          string
	PointOfSale     int
	Number          int64
	PaymentType     entity.PaymentType
	Items           []entity.LineItem
	Payments        []entity.PaymentInstrument
	Notes           string
	UserID          string
}

// GetDocument obtiene un documento con líneas y medios de pago.
func (uc *UseCase) GetDocument(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := uc.tx.Repos().Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// ListDocuments lista documentos con filtros y paginación.
func (uc *UseCase) ListDocuments(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.tx.Repos().Documents.List(ctx, f)
}

// PreviewLine recalcula una línea sin persistir (edición campo a campo).
func (uc *UseCase) PreviewLine(item entity.LineItem) (entity.LineItem, error) {
	if err := valuation.Recalculate(&item); err != nil {
		return item, err
	}
	return item, nil
}
