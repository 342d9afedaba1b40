package ports

import (
	"context"
	"time"
)

// IdempotencyStore registra claves Idempotency-Key ya usadas.
type IdempotencyStore interface {
	// Claim marca la clave como usada durante ttl. Devuelve false si ya estaba tomada.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release libera la clave (la operación falló y el cliente puede reintentar).
	Release(ctx context.Context, key string) error
}
