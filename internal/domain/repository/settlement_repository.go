package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// SettlementRepository define el puerto de persistencia de cobros y pagos.
type SettlementRepository interface {
	Create(ctx context.Context, s *entity.Settlement) error
	GetByID(ctx context.Context, id string) (*entity.Settlement, error)
	Delete(ctx context.Context, id string) error
	ListByDocument(ctx context.Context, documentID string) ([]*entity.Settlement, error)
}
