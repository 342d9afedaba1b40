package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// DocumentFilter filtros del listado de documentos.
type DocumentFilter struct {
	Kind           entity.DocumentKind
	CounterpartyID string
	Status         entity.DocumentStatus
	Limit          int
	Offset         int
}

// DocumentRepository define el puerto de persistencia para ventas y compras (cabecera, líneas y medios).
type DocumentRepository interface {
	// Create inserta el documento con Version = 1. Número repetido → domain.ErrDuplicate.
	Create(ctx context.Context, doc *entity.Document) error
	// Update escribe solo si la versión guardada es expectedVersion (compare-and-set);
	// si no, devuelve *domain.ConflictError. Deja doc.Version = expectedVersion + 1.
	Update(ctx context.Context, doc *entity.Document, expectedVersion int) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate obtiene el documento y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context, f DocumentFilter) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
	// MaxSequence mayor secuencia existente para tipo, letra y punto de venta (0 si no hay).
	MaxSequence(ctx context.Context, kind entity.DocumentKind, letter string, pointOfSale int) (int64, error)
	// IDsByCounterparty ids de documentos del tercero (para informar dependientes al borrar).
	IDsByCounterparty(ctx context.Context, counterpartyID string, limit int) ([]string, error)
}
