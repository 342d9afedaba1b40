package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/allocation"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/numbering"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/domain/totals"
	"github.com/jhoicas/taller-api/internal/domain/valuation"
)

func validateKind(kind entity.DocumentKind) error {
	if !kind.IsValid() {
		return domain.NewValidationError("kind", "tipo de documento desconocido (venta, compra)")
	}
	return nil
}

// indexed antepone la posición al campo del error de validación ("items[2].vat_rate").
func indexed(prefix string, i int, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if verr.Field != "" {
			field += "." + verr.Field
		}
		return &domain.ValidationError{Field: field, Reason: verr.Reason}
	}
	return err
}

// draft valida la entrada y arma el documento con líneas valuadas y totales, sin tocar el almacenamiento.
func (uc *UseCase) draft(in SaveInput) (*entity.Document, error) {
	if err := validateKind(in.Kind); err != nil {
		return nil, err
	}
	if !in.PaymentType.IsValid() {
		return nil, domain.NewValidationError("payment_type", "condición de pago desconocida (contado, cuenta_corriente)")
	}
	if strings.TrimSpace(in.CounterpartyID) == "" {
		return nil, domain.NewValidationError("counterparty_id", "cliente o proveedor requerido")
	}
	if err := numbering.ValidateHeader(in.Letter, in.PointOfSale); err != nil {
		return nil, err
	}
	if in.Number != 0 {
		if err := numbering.ValidateManual(in.Number); err != nil {
			return nil, err
		}
	}

	items := make([]entity.LineItem, len(in.Items))
	for i, it := range in.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		if err := valuation.Recalculate(&it); err != nil {
			return nil, indexed("items", i, err)
		}
		if err := valuation.ValidateItem(it); err != nil {
			return nil, indexed("items", i, err)
		}
		items[i] = it
	}
	t, err := totals.Aggregate(items)
	if err != nil {
		return nil, err
	}

	var payments []entity.PaymentInstrument
	if in.PaymentType == entity.PaymentTypeCash {
		payments = make([]entity.PaymentInstrument, len(in.Payments))
		for i, p := range in.Payments {
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			allocation.Normalize(&p)
			if err := allocation.ValidateInstrument(p); err != nil {
				return nil, indexed("payments", i, err)
			}
			payments[i] = p
		}
	}

	date := in.Date
	if date.IsZero() {
		date = uc.now()
	}
	return &entity.Document{
		ID:             in.ID,
		Kind:           in.Kind,
		CounterpartyID: in.CounterpartyID,
		Date:           date,
		Number:         entity.DocumentNumber{Letter: in.Letter, PointOfSale: in.PointOfSale, Sequence: in.Number},
		PaymentType:    in.PaymentType,
		Items:          items,
		Payments:       payments,
		NetTotal:       t.Net,
		VATTotal:       t.VAT,
		Total:          t.Total,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedBy:      in.UserID,
	}, nil
}

func (uc *UseCase) loadCounterparty(ctx context.Context, repos repository.Repos, doc *entity.Document) error {
	cp, err := repos.Counterparties.GetByID(ctx, doc.CounterpartyID)
	if err != nil {
		return err
	}
	if cp == nil {
		return domain.NewValidationError("counterparty_id", "el cliente o proveedor no existe")
	}
	if cp.Kind != doc.Kind.CounterpartyKind() {
		return domain.NewValidationError("counterparty_id", "una "+string(doc.Kind)+" requiere un "+string(doc.Kind.CounterpartyKind()))
	}
	doc.CounterpartyName = cp.Name
	return nil
}

// SaveDocument crea o edita un documento. Todo ocurre en una transacción: ante cualquier error
// no quedan cheques, movimientos ni numeración aplicados a medias.
func (uc *UseCase) SaveDocument(ctx context.Context, in SaveInput) (*entity.Document, error) {
	doc, err := uc.draft(in)
	if err != nil {
		return nil, err
	}
	if in.ID == "" {
		err = uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
			return uc.create(ctx, repos, doc, in)
		})
	} else {
		err = uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
			return uc.update(ctx, repos, doc, in)
		})
	}
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("document_id", doc.ID).
		Str("kind", string(doc.Kind)).
		Str("number", numbering.FormatNumber(doc.Number)).
		Int("version", doc.Version).
		Msg("documento guardado")
	return doc, nil
}

func (uc *UseCase) create(ctx context.Context, repos repository.Repos, doc *entity.Document, in SaveInput) error {
	if err := uc.loadCounterparty(ctx, repos, doc); err != nil {
		return err
	}
	alloc, err := allocation.Allocate(doc.PaymentType, doc.Total, doc.Payments)
	if err != nil {
		return err
	}
	doc.Balance, doc.Status = alloc.Balance, alloc.Status

	number, err := assignNumber(ctx, repos, doc.Kind, in.Letter, in.PointOfSale, in.Number)
	if err != nil {
		return err
	}
	doc.Number = number

	now := uc.now()
	doc.ID = uuid.New().String()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if err := repos.Documents.Create(ctx, doc); err != nil {
		return err
	}
	if err := uc.syncChecks(ctx, repos, doc, nil); err != nil {
		return err
	}
	return uc.postPayments(ctx, repos, doc, in.UserID)
}

func (uc *UseCase) update(ctx context.Context, repos repository.Repos, doc *entity.Document, in SaveInput) error {
	prev, err := repos.Documents.GetForUpdate(ctx, in.ID)
	if err != nil {
		return err
	}
	if prev == nil {
		return domain.ErrNotFound
	}
	if prev.Version != in.ExpectedVersion {
		return &domain.ConflictError{Entity: "documento", ID: prev.ID}
	}
	if prev.Kind != doc.Kind {
		return domain.NewValidationError("kind", "no se puede cambiar el tipo de un documento")
	}
	if in.Date.IsZero() {
		// sin fecha en la edición se conserva la original
		doc.Date = prev.Date
	}
	if err := uc.loadCounterparty(ctx, repos, doc); err != nil {
		return err
	}

	settlements, err := repos.Settlements.ListByDocument(ctx, prev.ID)
	if err != nil {
		return err
	}
	var alloc allocation.Result
	switch {
	case len(settlements) > 0 && doc.PaymentType == entity.PaymentTypeCash:
		return domain.NewValidationError("payment_type", "el documento tiene cobros/pagos registrados; no puede pasar a contado")
	case len(settlements) > 0:
		settled := decimal.Zero
		for _, s := range settlements {
			settled = settled.Add(s.Instrument.Amount)
		}
		alloc, err = allocation.Rebalance(doc.Total, settled)
	default:
		alloc, err = allocation.Allocate(doc.PaymentType, doc.Total, doc.Payments)
	}
	if err != nil {
		return err
	}
	doc.Balance, doc.Status = alloc.Balance, alloc.Status

	doc.Number = prev.Number
	renumber := in.Letter != prev.Number.Letter || in.PointOfSale != prev.Number.PointOfSale ||
		(in.Number != 0 && in.Number != prev.Number.Sequence)
	if renumber {
		if doc.Number, err = assignNumber(ctx, repos, doc.Kind, in.Letter, in.PointOfSale, in.Number); err != nil {
			return err
		}
	}

	doc.CreatedAt, doc.CreatedBy = prev.CreatedAt, prev.CreatedBy
	doc.UpdatedAt = uc.now()
	if err := repos.Documents.Update(ctx, doc, in.ExpectedVersion); err != nil {
		return err
	}
	if err := uc.syncChecks(ctx, repos, doc, prev.Payments); err != nil {
		return err
	}
	if paymentsEqual(prev, doc) {
		return nil
	}
	if err := uc.ledger.ReverseRelatedInTx(ctx, repos, string(prev.Kind), prev.ID); err != nil {
		return err
	}
	return uc.postPayments(ctx, repos, doc, in.UserID)
}

// paymentsEqual indica si los movimientos que genera el documento no cambian.
func paymentsEqual(prev, next *entity.Document) bool {
	if prev.PaymentType != next.PaymentType || len(prev.Payments) != len(next.Payments) {
		return false
	}
	if !prev.Date.Equal(next.Date) || prev.Number != next.Number {
		return false
	}
	byID := make(map[string]entity.PaymentInstrument, len(prev.Payments))
	for _, p := range prev.Payments {
		byID[p.ID] = p
	}
	for _, p := range next.Payments {
		old, ok := byID[p.ID]
		if !ok || old.Method != p.Method || !old.Amount.Equal(p.Amount) || old.TreasuryAccountID != p.TreasuryAccountID {
			return false
		}
	}
	return true
}
