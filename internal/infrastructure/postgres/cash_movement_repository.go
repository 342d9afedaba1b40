package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo libro de tesorería sobre PostgreSQL (usable con pool o tx).
// seq es BIGSERIAL: da el orden total de aplicación.
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

const movementColumns = `
	id, seq, type, amount, origin_account_id, destination_account_id, concept,
	related_document_id, related_document_type, is_manual, date, created_at, created_by`

func scanMovement(row pgx.Row) (*entity.CashMovement, error) {
	var (
		m                         entity.CashMovement
		destination, relID, relTy *string
	)
	err := row.Scan(
		&m.ID, &m.Seq, &m.Type, &m.Amount, &m.OriginAccountID, &destination, &m.Concept,
		&relID, &relTy, &m.IsManual, &m.Date, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.DestinationAccountID = derefStr(destination)
	m.RelatedDocumentID = derefStr(relID)
	m.RelatedDocumentType = derefStr(relTy)
	return &m, nil
}

// Create persiste el movimiento y devuelve en m.Seq el número asignado por la base.
func (r *CashMovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cash_movements (id, type, amount, origin_account_id, destination_account_id, concept,
		                            related_document_id, related_document_type, is_manual, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.Type, m.Amount, m.OriginAccountID, nullIfEmpty(m.DestinationAccountID), m.Concept,
		nullIfEmpty(m.RelatedDocumentID), nullIfEmpty(m.RelatedDocumentType), m.IsManual,
		m.Date, m.CreatedAt, m.CreatedBy,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("create cash movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *CashMovementRepo) GetByID(ctx context.Context, id string) (*entity.CashMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM cash_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash movement: %w", err)
	}
	return m, nil
}

// Delete elimina el movimiento (la reversión de saldos la hace el llamador).
func (r *CashMovementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cash_movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cash movement: %w", err)
	}
	return nil
}

func (r *CashMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.CashMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.CashMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByAccount movimientos de la cuenta (como origen o destino) en orden de aplicación.
func (r *CashMovementRepo) ListByAccount(ctx context.Context, accountID string) ([]*entity.CashMovement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+` FROM cash_movements
		WHERE origin_account_id = $1 OR destination_account_id = $1
		ORDER BY seq`, accountID)
}

// ListByRelated movimientos generados por un documento o cobro/pago, en orden de aplicación.
func (r *CashMovementRepo) ListByRelated(ctx context.Context, relatedType, relatedID string) ([]*entity.CashMovement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+` FROM cash_movements
		WHERE related_document_type = $1 AND related_document_id = $2
		ORDER BY seq`, relatedType, relatedID)
}
