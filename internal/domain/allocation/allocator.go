// Package allocation reparte el total de un documento entre sus medios de pago y
// mantiene el saldo pendiente de los documentos en cuenta corriente.
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

var (
	// Tolerance diferencia máxima admitida entre importes (un centavo).
	Tolerance = decimal.RequireFromString("0.01")
	// DollarTolerance diferencia admitida entre el importe en pesos y cotización × cantidad.
	DollarTolerance = decimal.RequireFromString("0.000001")
)

// Result saldo y estado resultantes.
type Result struct {
	Balance decimal.Decimal
	Status  entity.DocumentStatus
}

func statusFor(balance decimal.Decimal) Result {
	if balance.Abs().LessThanOrEqual(Tolerance) {
		return Result{Balance: decimal.Zero, Status: entity.DocumentStatusPaid}
	}
	return Result{Balance: balance, Status: entity.DocumentStatusPending}
}

// Sum suma los importes de los medios.
func Sum(instruments []entity.PaymentInstrument) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range instruments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Allocate valida los medios contra el total según la condición de pago.
// Contado: Σ importes = total ± 0.01 o AmountMismatchError. Cuenta corriente: los medios se ignoran.
func Allocate(paymentType entity.PaymentType, total decimal.Decimal, instruments []entity.PaymentInstrument) (Result, error) {
	switch paymentType {
	case entity.PaymentTypeCash:
		for _, p := range instruments {
			if p.Amount.IsNegative() {
				return Result{}, domain.NewValidationError("payments.amount", "los importes no pueden ser negativos")
			}
		}
		paid := Sum(instruments)
		if paid.Sub(total).Abs().GreaterThan(Tolerance) {
			return Result{}, &domain.AmountMismatchError{Total: total, Paid: paid}
		}
		return Result{Balance: decimal.Zero, Status: entity.DocumentStatusPaid}, nil
	case entity.PaymentTypeAccount:
		return statusFor(total), nil
	default:
		return Result{}, domain.NewValidationError("payment_type", "condición de pago desconocida")
	}
}

// Settle aplica un cobro/pago sobre el saldo actual.
func Settle(currentBalance, amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, domain.ErrInvalidAmount
	}
	next := currentBalance.Sub(amount)
	if next.LessThan(Tolerance.Neg()) {
		return Result{}, &domain.OverPaymentError{Balance: currentBalance, Amount: amount}
	}
	return statusFor(next), nil
}

// Rebalance recalcula el saldo de un documento en cuenta corriente editado que ya tiene cobros/pagos.
func Rebalance(total, settled decimal.Decimal) (Result, error) {
	next := total.Sub(settled)
	if next.LessThan(Tolerance.Neg()) {
		return Result{}, &domain.OverPaymentError{Balance: total, Amount: settled}
	}
	return statusFor(next), nil
}

// DollarAmount importe en pesos de un pago en dólares. Es la única fuente de ese importe.
func DollarAmount(exchangeRate, quantityUSD decimal.Decimal) decimal.Decimal {
	return entity.DollarDetails{ExchangeRate: exchangeRate, QuantityUSD: quantityUSD}.Amount()
}

// Normalize recalcula los importes derivados del medio: en dólares el importe es siempre cotización × cantidad.
func Normalize(p *entity.PaymentInstrument) {
	if dd, ok := p.DollarDetails(); ok {
		p.SetDollarDetails(dd.ExchangeRate, dd.QuantityUSD)
	}
}

// ValidateInstrument controla que el payload corresponda al medio y que los importes sean coherentes.
func ValidateInstrument(p entity.PaymentInstrument) error {
	if !p.Method.IsValid() {
		return domain.NewValidationError("method", "medio de pago desconocido")
	}
	if p.Amount.IsNegative() {
		return domain.NewValidationError("amount", "el importe no puede ser negativo")
	}
	if !p.DetailsMatchMethod() {
		return domain.NewValidationError("method", "los datos no corresponden al medio "+string(p.Method))
	}
	switch p.Method {
	case entity.PaymentMethodCheck:
		c, _ := p.CheckDetails()
		if c.Number == "" {
			return domain.NewValidationError("cheque.number", "número de cheque requerido")
		}
		if c.DueDate.IsZero() {
			return domain.NewValidationError("cheque.due_date", "fecha de vencimiento requerida")
		}
		if !c.IssueDate.IsZero() && c.DueDate.Before(c.IssueDate) {
			return domain.NewValidationError("cheque.due_date", "el vencimiento es anterior a la emisión")
		}
		if c.ThirdParty && c.ThirdPartyName == "" {
			return domain.NewValidationError("cheque.third_party_name", "indicar el titular del cheque de terceros")
		}
	case entity.PaymentMethodDollars:
		dd, _ := p.DollarDetails()
		if dd.ExchangeRate.IsNegative() || dd.QuantityUSD.IsNegative() {
			return domain.NewValidationError("dolares", "cotización y cantidad no pueden ser negativas")
		}
		if p.Amount.Sub(dd.Amount()).Abs().GreaterThan(DollarTolerance) {
			return domain.NewValidationError("amount", "el importe debe ser cotización × cantidad de dólares")
		}
	case entity.PaymentMethodTransfer, entity.PaymentMethodCash,
		entity.PaymentMethodCreditCard, entity.PaymentMethodDebitCard:
	}
	return nil
}
