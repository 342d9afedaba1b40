package ports

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback de todo: no quedan cheques ni movimientos a medio aplicar.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error
	// Repos repositorios fuera de transacción, para lecturas.
	Repos() repository.Repos
}

// Clock fuente de la hora actual (inyectable en tests).
type Clock func() time.Time
