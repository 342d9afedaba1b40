package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// CounterpartyRepository define el puerto de persistencia para clientes y proveedores.
// Los Get devuelven (nil, nil) si no existe.
type CounterpartyRepository interface {
	Create(ctx context.Context, c *entity.Counterparty) error
	GetByID(ctx context.Context, id string) (*entity.Counterparty, error)
	GetByKindAndTaxID(ctx context.Context, kind entity.CounterpartyKind, taxID string) (*entity.Counterparty, error)
	List(ctx context.Context, kind entity.CounterpartyKind, limit, offset int) ([]*entity.Counterparty, error)
	Update(ctx context.Context, c *entity.Counterparty) error
	Delete(ctx context.Context, id string) error
}
