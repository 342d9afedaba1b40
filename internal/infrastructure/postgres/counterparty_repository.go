package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.CounterpartyRepository = (*CounterpartyRepo)(nil)

// CounterpartyRepo implementación de CounterpartyRepository (usable con pool o tx).
type CounterpartyRepo struct {
	q Querier
}

// NewCounterpartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterpartyRepository(q Querier) *CounterpartyRepo {
	return &CounterpartyRepo{q: q}
}

const counterpartyColumns = `id, kind, name, tax_id, email, phone, created_at, updated_at`

func scanCounterparty(row pgx.Row) (*entity.Counterparty, error) {
	var c entity.Counterparty
	if err := row.Scan(&c.ID, &c.Kind, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente o proveedor.
func (r *CounterpartyRepo) Create(ctx context.Context, c *entity.Counterparty) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO counterparties (` + counterpartyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Kind, c.Name, c.TaxID, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert counterparty: %w", err)
	}
	return nil
}

// GetByID obtiene un tercero por ID.
func (r *CounterpartyRepo) GetByID(ctx context.Context, id string) (*entity.Counterparty, error) {
	c, err := scanCounterparty(r.q.QueryRow(ctx, `SELECT `+counterpartyColumns+` FROM counterparties WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get counterparty: %w", err)
	}
	return c, nil
}

// GetByKindAndTaxID obtiene un tercero por tipo y CUIT.
func (r *CounterpartyRepo) GetByKindAndTaxID(ctx context.Context, kind entity.CounterpartyKind, taxID string) (*entity.Counterparty, error) {
	query := `SELECT ` + counterpartyColumns + ` FROM counterparties WHERE kind = $1 AND tax_id = $2`
	c, err := scanCounterparty(r.q.QueryRow(ctx, query, kind, taxID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get counterparty by tax_id: %w", err)
	}
	return c, nil
}

// List lista terceros con paginación; kind vacío trae clientes y proveedores.
func (r *CounterpartyRepo) List(ctx context.Context, kind entity.CounterpartyKind, limit, offset int) ([]*entity.Counterparty, error) {
	query := `
		SELECT ` + counterpartyColumns + ` FROM counterparties
		WHERE ($1 = '' OR kind = $1)
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(kind), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list counterparties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Counterparty
	for rows.Next() {
		c, err := scanCounterparty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan counterparty: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos de contacto.
func (r *CounterpartyRepo) Update(ctx context.Context, c *entity.Counterparty) error {
	query := `
		UPDATE counterparties
		SET name = $2, tax_id = $3, email = $4, phone = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.TaxID, c.Email, c.Phone, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update counterparty: %w", err)
	}
	return nil
}

// Delete elimina un tercero.
func (r *CounterpartyRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM counterparties WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete counterparty: %w", err)
	}
	return nil
}
