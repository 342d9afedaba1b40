package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.CheckRepository = (*CheckRepo)(nil)

// CheckRepo cheques sobre PostgreSQL (usable con pool o tx).
type CheckRepo struct {
	q Querier
}

// NewCheckRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCheckRepository(q Querier) *CheckRepo {
	return &CheckRepo{q: q}
}

const checkColumns = `
	id, type, number, bank, amount, issue_date, due_date, holder_name, third_party, third_party_name,
	status, document_id, payment_id, created_at, updated_at`

func scanCheck(row pgx.Row) (*entity.Check, error) {
	var (
		c     entity.Check
		issue *time.Time
	)
	err := row.Scan(
		&c.ID, &c.Type, &c.Number, &c.Bank, &c.Amount, &issue, &c.DueDate, &c.HolderName,
		&c.ThirdParty, &c.ThirdPartyName, &c.Status, &c.DocumentID, &c.PaymentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.IssueDate = derefTime(issue)
	return &c, nil
}

func (r *CheckRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Check, error) {
	c, err := scanCheck(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get check: %w", err)
	}
	return c, nil
}

func (r *CheckRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Check, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Check, 0)
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Create persiste un cheque.
func (r *CheckRepo) Create(ctx context.Context, c *entity.Check) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO checks (` + checkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Type, c.Number, c.Bank, c.Amount, nullTime(c.IssueDate), c.DueDate, c.HolderName,
		c.ThirdParty, c.ThirdPartyName, c.Status, c.DocumentID, c.PaymentID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	return nil
}

// Update reescribe datos y estado del cheque.
func (r *CheckRepo) Update(ctx context.Context, c *entity.Check) error {
	query := `
		UPDATE checks
		SET number = $2, bank = $3, amount = $4, issue_date = $5, due_date = $6, holder_name = $7,
		    third_party = $8, third_party_name = $9, status = $10, payment_id = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Number, c.Bank, c.Amount, nullTime(c.IssueDate), c.DueDate, c.HolderName,
		c.ThirdParty, c.ThirdPartyName, c.Status, c.PaymentID, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el cheque.
func (r *CheckRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM checks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete check: %w", err)
	}
	return nil
}

// GetByID obtiene un cheque por ID.
func (r *CheckRepo) GetByID(ctx context.Context, id string) (*entity.Check, error) {
	return r.getOne(ctx, `SELECT `+checkColumns+` FROM checks WHERE id = $1`, id)
}

// GetForUpdate obtiene el cheque y bloquea la fila.
func (r *CheckRepo) GetForUpdate(ctx context.Context, id string) (*entity.Check, error) {
	return r.getOne(ctx, `SELECT `+checkColumns+` FROM checks WHERE id = $1 FOR UPDATE`, id)
}

// ListByDocument cheques del documento (de sus medios y de sus cobros/pagos).
func (r *CheckRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.Check, error) {
	return r.list(ctx, `SELECT `+checkColumns+` FROM checks WHERE document_id = $1 ORDER BY created_at, id`, documentID)
}

// FindByPayment cheque por documento e id sintético del medio.
func (r *CheckRepo) FindByPayment(ctx context.Context, documentID, paymentID string) (*entity.Check, error) {
	if paymentID == "" {
		return nil, nil
	}
	return r.getOne(ctx, `
		SELECT `+checkColumns+` FROM checks
		WHERE document_id = $1 AND payment_id = $2
		FOR UPDATE`, documentID, paymentID)
}

// FindByNumber búsqueda de respaldo por número dentro del documento.
func (r *CheckRepo) FindByNumber(ctx context.Context, documentID, number string) (*entity.Check, error) {
	return r.getOne(ctx, `
		SELECT `+checkColumns+` FROM checks
		WHERE document_id = $1 AND number = $2
		ORDER BY created_at, id LIMIT 1
		FOR UPDATE`, documentID, number)
}

// List cheques filtrados, por fecha de vencimiento.
func (r *CheckRepo) List(ctx context.Context, f repository.CheckFilter) ([]*entity.Check, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	query := `SELECT ` + checkColumns + ` FROM checks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY due_date, id"
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return r.list(ctx, query, args...)
}
