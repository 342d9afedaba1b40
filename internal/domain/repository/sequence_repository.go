package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// SequenceRepository guarda la marca de agua de la numeración por (tipo, letra, punto de venta).
type SequenceRepository interface {
	// HighWaterForUpdate devuelve el último número emitido y bloquea la fila; la crea en 0 si no existe.
	HighWaterForUpdate(ctx context.Context, kind entity.DocumentKind, letter string, pointOfSale int) (int64, error)
	SetHighWater(ctx context.Context, kind entity.DocumentKind, letter string, pointOfSale int, n int64) error
}
