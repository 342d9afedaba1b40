package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// CashMovementRepository define el puerto de persistencia del libro de tesorería.
type CashMovementRepository interface {
	// Create persiste el movimiento y asigna Seq (orden total de aplicación).
	Create(ctx context.Context, m *entity.CashMovement) error
	GetByID(ctx context.Context, id string) (*entity.CashMovement, error)
	Delete(ctx context.Context, id string) error
	// ListByAccount movimientos que tocan la cuenta (origen o destino) en orden de Seq.
	ListByAccount(ctx context.Context, accountID string) ([]*entity.CashMovement, error)
	// ListByRelated movimientos generados por un documento o un cobro/pago.
	ListByRelated(ctx context.Context, relatedType, relatedID string) ([]*entity.CashMovement, error)
}
