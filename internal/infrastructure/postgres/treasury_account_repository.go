package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.TreasuryAccountRepository = (*TreasuryAccountRepo)(nil)

// TreasuryAccountRepo cajas y cuentas bancarias sobre PostgreSQL (usable con pool o tx).
type TreasuryAccountRepo struct {
	q Querier
}

// NewTreasuryAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTreasuryAccountRepository(q Querier) *TreasuryAccountRepo {
	return &TreasuryAccountRepo{q: q}
}

const accountColumns = `id, name, type, payment_method, balance, created_at, updated_at`

func scanAccount(row pgx.Row) (*entity.TreasuryAccount, error) {
	var a entity.TreasuryAccount
	if err := row.Scan(&a.ID, &a.Name, &a.Type, &a.PaymentMethod, &a.Balance, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *TreasuryAccountRepo) getOne(ctx context.Context, query string, args ...any) (*entity.TreasuryAccount, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get treasury account: %w", err)
	}
	return a, nil
}

// Create persiste una cuenta nueva.
func (r *TreasuryAccountRepo) Create(ctx context.Context, a *entity.TreasuryAccount) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO treasury_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.Name, a.Type, a.PaymentMethod, a.Balance, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert treasury account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *TreasuryAccountRepo) GetByID(ctx context.Context, id string) (*entity.TreasuryAccount, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM treasury_accounts WHERE id = $1`, id)
}

// GetForUpdate obtiene la cuenta y bloquea la fila para update (SELECT FOR UPDATE).
func (r *TreasuryAccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.TreasuryAccount, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM treasury_accounts WHERE id = $1 FOR UPDATE`, id)
}

// FirstByPaymentMethod primera cuenta dada de alta para el medio de pago.
func (r *TreasuryAccountRepo) FirstByPaymentMethod(ctx context.Context, method entity.PaymentMethod) (*entity.TreasuryAccount, error) {
	return r.getOne(ctx, `
		SELECT `+accountColumns+` FROM treasury_accounts
		WHERE payment_method = $1
		ORDER BY created_at, id LIMIT 1`, method)
}

// List todas las cuentas por nombre.
func (r *TreasuryAccountRepo) List(ctx context.Context) ([]*entity.TreasuryAccount, error) {
	rows, err := r.q.Query(ctx, `SELECT `+accountColumns+` FROM treasury_accounts ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list treasury accounts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.TreasuryAccount, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan treasury account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// UpdateBalance escribe el saldo materializado. Llamar con la fila bloqueada.
func (r *TreasuryAccountRepo) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE treasury_accounts SET balance = $2, updated_at = now() WHERE id = $1`, id, balance)
	if err != nil {
		return fmt.Errorf("update treasury balance: %w", err)
	}
	return nil
}

// Delete elimina la cuenta.
func (r *TreasuryAccountRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM treasury_accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete treasury account: %w", err)
	}
	return nil
}
