package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository (usable con pool o tx).
// Cabecera en documents; líneas en document_items; medios de pago en document_payments (jsonb).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `
	id, kind, counterparty_id, counterparty_name, date, letter, point_of_sale, sequence,
	payment_type, net_total, vat_total, total, balance, status, notes, version,
	created_at, updated_at, created_by`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(
		&d.ID, &d.Kind, &d.CounterpartyID, &d.CounterpartyName, &d.Date,
		&d.Number.Letter, &d.Number.PointOfSale, &d.Number.Sequence,
		&d.PaymentType, &d.NetTotal, &d.VATTotal, &d.Total, &d.Balance, &d.Status, &d.Notes, &d.Version,
		&d.CreatedAt, &d.UpdatedAt, &d.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste cabecera, líneas y medios de pago. Version queda en 1.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.Kind, doc.CounterpartyID, doc.CounterpartyName, doc.Date,
		doc.Number.Letter, doc.Number.PointOfSale, doc.Number.Sequence,
		doc.PaymentType, doc.NetTotal, doc.VATTotal, doc.Total, doc.Balance, doc.Status, doc.Notes,
		doc.CreatedAt, doc.UpdatedAt, doc.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	doc.Version = 1
	return r.writeChildren(ctx, doc)
}

// Update compare-and-set sobre version. 0 filas afectadas → *domain.ConflictError.
func (r *DocumentRepo) Update(ctx context.Context, doc *entity.Document, expectedVersion int) error {
	query := `
		UPDATE documents
		SET counterparty_id   = $3,
		    counterparty_name = $4,
		    date              = $5,
		    letter            = $6,
		    point_of_sale     = $7,
		    sequence          = $8,
		    payment_type      = $9,
		    net_total         = $10,
		    vat_total         = $11,
		    total             = $12,
		    balance           = $13,
		    status            = $14,
		    notes             = $15,
		    updated_at        = $16,
		    version           = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query,
		doc.ID, expectedVersion,
		doc.CounterpartyID, doc.CounterpartyName, doc.Date,
		doc.Number.Letter, doc.Number.PointOfSale, doc.Number.Sequence,
		doc.PaymentType, doc.NetTotal, doc.VATTotal, doc.Total, doc.Balance, doc.Status, doc.Notes,
		doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ConflictError{Entity: "documento", ID: doc.ID}
	}
	doc.Version = expectedVersion + 1

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM document_items WHERE document_id = $1`, doc.ID)
	batch.Queue(`DELETE FROM document_payments WHERE document_id = $1`, doc.ID)
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("clear document children: %w", err)
	}
	return r.writeChildren(ctx, doc)
}

// writeChildren inserta líneas y medios en un solo batch.
func (r *DocumentRepo) writeChildren(ctx context.Context, doc *entity.Document) error {
	batch := &pgx.Batch{}
	for i := range doc.Items {
		it := &doc.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		batch.Queue(`
			INSERT INTO document_items (id, document_id, position, description, quantity, unit_price, vat_rate, discount_pct, mode, vat_amount, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			it.ID, doc.ID, i, it.Description, it.Quantity, it.UnitPrice, it.VATRate, it.DiscountPct, it.Mode, it.VATAmount, it.Total,
		)
	}
	for i := range doc.Payments {
		p := &doc.Payments[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode payment instrument: %w", err)
		}
		batch.Queue(`
			INSERT INTO document_payments (id, document_id, position, instrument)
			VALUES ($1, $2, $3, $4)`,
			p.ID, doc.ID, i, raw,
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert document children: %w", err)
	}
	return nil
}

// loadChildren completa líneas y medios de los documentos dados.
func (r *DocumentRepo) loadChildren(ctx context.Context, docs []*entity.Document) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]string, len(docs))
	byID := make(map[string]*entity.Document, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		byID[d.ID] = d
		d.Items = []entity.LineItem{}
		d.Payments = []entity.PaymentInstrument{}
	}

	rows, err := r.q.Query(ctx, `
		SELECT document_id, id, description, quantity, unit_price, vat_rate, discount_pct, mode, vat_amount, total
		FROM document_items WHERE document_id = ANY($1)
		ORDER BY document_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list document items: %w", err)
	}
	for rows.Next() {
		var docID string
		var it entity.LineItem
		if err := rows.Scan(&docID, &it.ID, &it.Description, &it.Quantity, &it.UnitPrice, &it.VATRate,
			&it.DiscountPct, &it.Mode, &it.VATAmount, &it.Total); err != nil {
			rows.Close()
			return fmt.Errorf("scan document item: %w", err)
		}
		byID[docID].Items = append(byID[docID].Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list document items: %w", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT document_id, instrument FROM document_payments
		WHERE document_id = ANY($1)
		ORDER BY document_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list document payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var docID string
		var raw []byte
		if err := rows.Scan(&docID, &raw); err != nil {
			return fmt.Errorf("scan document payment: %w", err)
		}
		var p entity.PaymentInstrument
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decode payment instrument: %w", err)
		}
		byID[docID].Payments = append(byID[docID].Payments, p)
	}
	return rows.Err()
}

func (r *DocumentRepo) getOne(ctx context.Context, query, id string) (*entity.Document, error) {
	doc, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if err := r.loadChildren(ctx, []*entity.Document{doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByID obtiene un documento completo por ID.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetForUpdate obtiene el documento y bloquea la fila (SELECT FOR UPDATE).
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.getOne(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

// List documentos con filtros, más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if f.CounterpartyID != "" {
		add("counterparty_id = $%d", f.CounterpartyID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY date DESC, sequence DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	list := make([]*entity.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if err := r.loadChildren(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete elimina el documento; líneas y medios caen por ON DELETE CASCADE.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// MaxSequence mayor secuencia existente (0 si no hay documentos).
func (r *DocumentRepo) MaxSequence(ctx context.Context, kind entity.DocumentKind, letter string, pointOfSale int) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(sequence), 0) FROM documents
		WHERE kind = $1 AND letter = $2 AND point_of_sale = $3`,
		kind, letter, pointOfSale,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("max document sequence: %w", err)
	}
	return n, nil
}

// IDsByCounterparty ids de documentos del tercero, hasta limit.
func (r *DocumentRepo) IDsByCounterparty(ctx context.Context, counterpartyID string, limit int) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id FROM documents WHERE counterparty_id = $1
		ORDER BY created_at LIMIT $2`, counterpartyID, limit)
	if err != nil {
		return nil, fmt.Errorf("documents by counterparty: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("documents by counterparty: %w", err)
	}
	return ids, nil
}
