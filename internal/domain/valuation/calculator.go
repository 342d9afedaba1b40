// Package valuation calcula precio unitario, IVA y total de una línea en los dos modos
// (neto→total y total→neto). Funciones puras, se invocan en cada edición de campo.
package valuation

import (
	"strings"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Alícuotas de IVA admitidas.
var vatRates = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("10.5"),
	decimal.NewFromInt(21),
	decimal.NewFromInt(27),
}

// Result valores derivados de una línea, sin redondear. Recalculate los lleva a centavos al
// escribirlos en la línea.
type Result struct {
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal // neto con descuento, sin IVA
	VATAmount decimal.Decimal
	Total     decimal.Decimal
}

// Coerce convierte lo tipeado por el usuario en un número no negativo; cualquier otra cosa vale 0.
// Acepta coma decimal ("12,5").
func Coerce(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return nonNegative(d)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func clampDiscount(d decimal.Decimal) decimal.Decimal {
	d = nonNegative(d)
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}

// ComputeNet modo neto: subtotal = cant × precio × (1 − desc/100); iva = subtotal × alícuota/100.
func ComputeNet(qty, unitPrice, vatRate, discountPct decimal.Decimal) Result {
	qty = nonNegative(qty)
	unitPrice = nonNegative(unitPrice)
	vatRate = nonNegative(vatRate)
	discountPct = clampDiscount(discountPct)

	subtotal := qty.Mul(unitPrice).Mul(one.Sub(discountPct.Div(hundred)))
	vat := subtotal.Mul(vatRate).Div(hundred)
	return Result{
		UnitPrice: unitPrice,
		Subtotal:  subtotal,
		VATAmount: vat,
		Total:     subtotal.Add(vat),
	}
}

// ComputeFromTotal modo total (inverso): obtiene el precio unitario desde el total ingresado.
// Con cantidad 0 el precio queda en 0. Un descuento del 100% no tiene inversa y es error de validación.
func ComputeFromTotal(qty, total, vatRate, discountPct decimal.Decimal) (Result, error) {
	qty = nonNegative(qty)
	total = nonNegative(total)
	vatRate = nonNegative(vatRate)
	discountPct = clampDiscount(discountPct)

	if discountPct.Equal(hundred) {
		return Result{}, domain.NewValidationError("discount_pct", "un descuento del 100% no permite calcular el precio desde el total")
	}

	base := total.Div(one.Add(vatRate.Div(hundred)))
	res := Result{
		Subtotal:  base,
		VATAmount: total.Sub(base),
		Total:     total,
		UnitPrice: decimal.Zero,
	}
	if qty.IsZero() {
		return res, nil
	}
	price := base.Div(qty)
	if discountPct.IsPositive() {
		price = price.Div(one.Sub(discountPct.Div(hundred)))
	}
	res.UnitPrice = price
	return res, nil
}

// ValidVATRate indica si la alícuota es una de las admitidas.
func ValidVATRate(rate decimal.Decimal) bool {
	for _, r := range vatRates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

// Recalculate actualiza la línea según su modo. Se conserva siempre el valor del campo no editado.
func Recalculate(item *entity.LineItem) error {
	switch item.Mode {
	case entity.CalculationModeNet, "":
		item.Mode = entity.CalculationModeNet
		res := ComputeNet(item.Quantity, item.UnitPrice, item.VATRate, item.DiscountPct)
		item.UnitPrice = res.UnitPrice
		item.VATAmount = res.VATAmount.Round(2)
		item.Total = res.Total.Round(2)
	case entity.CalculationModeTotal:
		res, err := ComputeFromTotal(item.Quantity, item.Total, item.VATRate, item.DiscountPct)
		if err != nil {
			return err
		}
		if item.Quantity.IsPositive() {
			item.UnitPrice = res.UnitPrice.Round(2)
		}
		// sin cantidad no hay precio derivable: se conserva el último calculado
		item.VATAmount = res.VATAmount.Round(2)
		item.Total = res.Total.Round(2)
	default:
		return domain.NewValidationError("mode", "modo de cálculo desconocido")
	}
	return nil
}

// SwitchMode cambia la variable independiente sin borrar el valor del otro campo.
func SwitchMode(item *entity.LineItem, mode entity.CalculationMode) error {
	if mode != entity.CalculationModeNet && mode != entity.CalculationModeTotal {
		return domain.NewValidationError("mode", "modo de cálculo desconocido")
	}
	item.Mode = mode
	return nil
}

// ValidateItem reglas de guardado de una línea.
func ValidateItem(item entity.LineItem) error {
	if item.Quantity.IsNegative() {
		return domain.NewValidationError("quantity", "la cantidad no puede ser negativa")
	}
	if !ValidVATRate(item.VATRate) {
		return domain.NewValidationError("vat_rate", "alícuota de IVA no admitida (0, 10.5, 21, 27)")
	}
	if item.DiscountPct.IsNegative() || item.DiscountPct.GreaterThan(hundred) {
		return domain.NewValidationError("discount_pct", "el descuento debe estar entre 0 y 100")
	}
	if item.UnitPrice.IsNegative() || item.Total.IsNegative() {
		return domain.NewValidationError("unit_price", "importes negativos no admitidos")
	}
	return nil
}
