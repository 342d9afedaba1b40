package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo cobros y pagos sobre PostgreSQL; el medio se guarda como jsonb.
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

const settlementColumns = `id, kind, document_id, instrument, treasury_account_id, movement_id, date, notes, created_at, created_by`

func scanSettlement(row pgx.Row) (*entity.Settlement, error) {
	var (
		s   entity.Settlement
		raw []byte
	)
	err := row.Scan(&s.ID, &s.Kind, &s.DocumentID, &raw, &s.TreasuryAccountID, &s.MovementID,
		&s.Date, &s.Notes, &s.CreatedAt, &s.CreatedBy)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.Instrument); err != nil {
		return nil, fmt.Errorf("decode settlement instrument: %w", err)
	}
	return &s, nil
}

// Create persiste el cobro/pago.
func (r *SettlementRepo) Create(ctx context.Context, s *entity.Settlement) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	raw, err := json.Marshal(s.Instrument)
	if err != nil {
		return fmt.Errorf("encode settlement instrument: %w", err)
	}
	query := `
		INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		s.ID, s.Kind, s.DocumentID, raw, s.TreasuryAccountID, s.MovementID,
		s.Date, s.Notes, s.CreatedAt, s.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

// GetByID obtiene un cobro/pago por ID.
func (r *SettlementRepo) GetByID(ctx context.Context, id string) (*entity.Settlement, error) {
	s, err := scanSettlement(r.q.QueryRow(ctx, `SELECT `+settlementColumns+` FROM settlements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	return s, nil
}

// Delete elimina el cobro/pago.
func (r *SettlementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM settlements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete settlement: %w", err)
	}
	return nil
}

// ListByDocument cobros/pagos del documento en orden de registro.
func (r *SettlementRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.Settlement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+settlementColumns+` FROM settlements
		WHERE document_id = $1 ORDER BY created_at, id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Settlement, 0)
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
