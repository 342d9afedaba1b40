package totals

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// ErrEmptyDocument documento sin líneas al guardar.
var ErrEmptyDocument error = &domain.ValidationError{Field: "items", Reason: "el documento no tiene líneas"}

// Totals totales de cabecera.
type Totals struct {
	Net   decimal.Decimal
	VAT   decimal.Decimal
	Total decimal.Decimal
}

// Aggregate suma los valores ya calculados de cada línea. No recalcula el IVA.
// Neto = Total − IVA por línea, así los tres totales cierran entre sí.
func Aggregate(items []entity.LineItem) (Totals, error) {
	var t Totals
	if len(items) == 0 {
		return Totals{Net: decimal.Zero, VAT: decimal.Zero, Total: decimal.Zero}, ErrEmptyDocument
	}
	t.Net, t.VAT, t.Total = decimal.Zero, decimal.Zero, decimal.Zero
	for _, it := range items {
		t.VAT = t.VAT.Add(it.VATAmount)
		t.Total = t.Total.Add(it.Total)
		t.Net = t.Net.Add(it.Total.Sub(it.VATAmount))
	}
	return t, nil
}

// IsEmpty indica si el error es el de documento vacío.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmptyDocument)
}
