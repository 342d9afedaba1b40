package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo marca de agua de la numeración por (tipo, letra, punto de venta).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el repositorio. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// HighWaterForUpdate crea la fila si falta y la bloquea hasta el fin de la transacción.
// Dos altas concurrentes en la misma serie quedan serializadas sobre esta fila.
func (r *SequenceRepo) HighWaterForUpdate(ctx context.Context, kind entity.DocumentKind, letter string, pointOfSale int) (int64, error) {
	const upsert = `
		INSERT INTO document_sequences (kind, letter, point_of_sale, high_water)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (kind, letter, point_of_sale) DO NOTHING`
	if _, err := r.q.Exec(ctx, upsert, kind, letter, pointOfSale); err != nil {
		return 0, fmt.Errorf("ensure document_sequence: %w", err)
	}
	const q = `
		SELECT high_water FROM document_sequences
		WHERE kind = $1 AND letter = $2 AND point_of_sale = $3
		FOR UPDATE`
	var hw int64
	if err := r.q.QueryRow(ctx, q, kind, letter, pointOfSale).Scan(&hw); err != nil {
		return 0, fmt.Errorf("lock document_sequence: %w", err)
	}
	return hw, nil
}

// SetHighWater registra el último número emitido.
func (r *SequenceRepo) SetHighWater(ctx context.Context, kind entity.DocumentKind, letter string, pointOfSale int, n int64) error {
	const q = `
		UPDATE document_sequences SET high_water = $4
		WHERE kind = $1 AND letter = $2 AND point_of_sale = $3`
	if _, err := r.q.Exec(ctx, q, kind, letter, pointOfSale, n); err != nil {
		return fmt.Errorf("update document_sequence: %w", err)
	}
	return nil
}
