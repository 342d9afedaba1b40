package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "efectivo"
	PaymentMethodTransfer   PaymentMethod = "transferencia"
	PaymentMethodCreditCard PaymentMethod = "tarjeta_credito"
	PaymentMethodDebitCard  PaymentMethod = "tarjeta_debito"
	PaymentMethodCheck      PaymentMethod = "cheque"
	PaymentMethodDollars    PaymentMethod = "dolares"
)

// IsValid indica si el medio es conocido.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCreditCard,
		PaymentMethodDebitCard, PaymentMethodCheck, PaymentMethodDollars:
		return true
	}
	return false
}

// InstrumentDetails datos propios de cada medio. Solo los tipos de este paquete la implementan.
type InstrumentDetails interface {
	method() PaymentMethod
}

// CheckDetails datos de un pago con cheque.
type CheckDetails struct {
	Number         string    `json:"number"`
	Bank           string    `json:"bank"`
	IssueDate      time.Time `json:"issue_date"`
	DueDate        time.Time `json:"due_date"`
	ThirdParty     bool      `json:"third_party"`
	ThirdPartyName string    `json:"third_party_name,omitempty"`
}

func (CheckDetails) method() PaymentMethod { return PaymentMethodCheck }

// TransferDetails datos de una transferencia.
type TransferDetails struct {
	AccountHolder string `json:"account_holder"`
	Bank          string `json:"bank"`
}

func (TransferDetails) method() PaymentMethod { return PaymentMethodTransfer }

// DollarDetails pago en dólares: el importe en pesos es siempre ExchangeRate × QuantityUSD.
type DollarDetails struct {
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	QuantityUSD  decimal.Decimal `json:"quantity_usd"`
}

func (DollarDetails) method() PaymentMethod { return PaymentMethodDollars }

// Amount importe en moneda local.
func (d DollarDetails) Amount() decimal.Decimal {
	return d.ExchangeRate.Mul(d.QuantityUSD)
}

// PaymentInstrument medio de pago aplicado a un documento o a un cobro/pago.
// ID es sintético y estable: se asigna al crearlo y no cambia aunque se edite el número de cheque.
type PaymentInstrument struct {
	ID                string
	Method            PaymentMethod
	Amount            decimal.Decimal
	TreasuryAccountID string
	Details           InstrumentDetails
}

// CheckDetails devuelve los datos del cheque si el medio es cheque.
func (p PaymentInstrument) CheckDetails() (CheckDetails, bool) {
	d, ok := p.Details.(CheckDetails)
	return d, ok && p.Method == PaymentMethodCheck
}

// TransferDetails devuelve los datos de la transferencia si corresponde.
func (p PaymentInstrument) TransferDetails() (TransferDetails, bool) {
	d, ok := p.Details.(TransferDetails)
	return d, ok && p.Method == PaymentMethodTransfer
}

// DollarDetails devuelve los datos en dólares si corresponde.
func (p PaymentInstrument) DollarDetails() (DollarDetails, bool) {
	d, ok := p.Details.(DollarDetails)
	return d, ok && p.Method == PaymentMethodDollars
}

// SetDollarDetails reemplaza cotización y cantidad y recalcula el importe.
func (p *PaymentInstrument) SetDollarDetails(exchangeRate, quantityUSD decimal.Decimal) {
	d := DollarDetails{ExchangeRate: exchangeRate, QuantityUSD: quantityUSD}
	p.Method = PaymentMethodDollars
	p.Details = d
	p.Amount = d.Amount()
}

// DetailsMatchMethod indica si el payload corresponde al medio declarado.
func (p PaymentInstrument) DetailsMatchMethod() bool {
	switch p.Method {
	case PaymentMethodCheck, PaymentMethodTransfer, PaymentMethodDollars:
		return p.Details != nil && p.Details.method() == p.Method
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard:
		return p.Details == nil
	}
	return false
}

type instrumentJSON struct {
	ID                string           `json:"id,omitempty"`
	Method            PaymentMethod    `json:"method"`
	Amount            decimal.Decimal  `json:"amount"`
	TreasuryAccountID string           `json:"treasury_account_id,omitempty"`
	Cheque            *CheckDetails    `json:"cheque,omitempty"`
	Transferencia     *TransferDetails `json:"transferencia,omitempty"`
	Dolares           *DollarDetails   `json:"dolares,omitempty"`
}

// MarshalJSON serializa el medio como sobre con un único payload según el método.
func (p PaymentInstrument) MarshalJSON() ([]byte, error) {
	out := instrumentJSON{
		ID:                p.ID,
		Method:            p.Method,
		Amount:            p.Amount,
		TreasuryAccountID: p.TreasuryAccountID,
	}
	switch d := p.Details.(type) {
	case CheckDetails:
		out.Cheque = &d
	case TransferDetails:
		out.Transferencia = &d
	case DollarDetails:
		out.Dolares = &d
	case nil:
	default:
		return nil, fmt.Errorf("payment instrument: payload desconocido %T", d)
	}
	return json.Marshal(out)
}

// UnmarshalJSON toma solo el payload que corresponde al método.
func (p *PaymentInstrument) UnmarshalJSON(data []byte) error {
	var in instrumentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.ID = in.ID
	p.Method = in.Method
	p.Amount = in.Amount
	p.TreasuryAccountID = in.TreasuryAccountID
	p.Details = nil
	switch in.Method {
	case PaymentMethodCheck:
		if in.Cheque != nil {
			p.Details = *in.Cheque
		}
	case PaymentMethodTransfer:
		if in.Transferencia != nil {
			p.Details = *in.Transferencia
		}
	case PaymentMethodDollars:
		if in.Dolares != nil {
			p.Details = *in.Dolares
		}
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard:
	}
	return nil
}
