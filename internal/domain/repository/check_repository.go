package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// CheckFilter filtros del listado de cheques.
type CheckFilter struct {
	Status entity.CheckStatus
	Type   entity.CheckType
	Limit  int
	Offset int
}

// CheckRepository define el puerto de persistencia de cheques.
type CheckRepository interface {
	Create(ctx context.Context, c *entity.Check) error
	Update(ctx context.Context, c *entity.Check) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Check, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Check, error)
	ListByDocument(ctx context.Context, documentID string) ([]*entity.Check, error)
	// FindByPayment ubica el cheque por documento e id sintético del medio o cobro/pago.
	FindByPayment(ctx context.Context, documentID, paymentID string) (*entity.Check, error)
	// FindByNumber búsqueda de respaldo por documento y número original.
	FindByNumber(ctx context.Context, documentID, number string) (*entity.Check, error)
	List(ctx context.Context, f CheckFilter) ([]*entity.Check, error)
}
