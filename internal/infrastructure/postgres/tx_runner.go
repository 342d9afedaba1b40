package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Ante una falla de serialización o un deadlock reintenta la transacción completa con backoff exponencial.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        *logger.Logger
}

// NewTxRunner construye el runner con el pool. maxRetries acota los reintentos (0 = sin reintentos).
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log *logger.Logger) *TxRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, log: log.WithComponent("tx")}
}

// reposFor arma los repositorios sobre el Querier dado (pool o tx).
func reposFor(q Querier) repository.Repos {
	return repository.Repos{
		Documents:      NewDocumentRepository(q),
		Sequences:      NewSequenceRepository(q),
		Checks:         NewCheckRepository(q),
		Accounts:       NewTreasuryAccountRepository(q),
		Movements:      NewCashMovementRepository(q),
		Settlements:    NewSettlementRepository(q),
		Counterparties: NewCounterpartyRepository(q),
	}
}

// Repos repositorios sobre el pool (lecturas fuera de transacción).
func (r *TxRunner) Repos() repository.Repos {
	return reposFor(r.pool)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// fn puede ejecutarse más de una vez: no debe tener efectos fuera de la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxRetries)), ctx)

	op := func() error {
		err := r.runOnce(ctx, fn)
		if err == nil || isRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		r.log.Warn().Err(err).Dur("wait", wait).Msg("conflicto de serialización, reintentando transacción")
	}

	err := backoff.RetryNotify(op, b, notify)
	if err != nil && isRetryable(err) {
		return &domain.ConflictError{Entity: "transacción"}
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
