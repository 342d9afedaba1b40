package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind tipo de comprobante comercial.
type DocumentKind string

const (
	DocumentKindSale     DocumentKind = "venta"
	DocumentKindPurchase DocumentKind = "compra"
)

// IsValid indica si el tipo es conocido.
func (k DocumentKind) IsValid() bool {
	return k == DocumentKindSale || k == DocumentKindPurchase
}

// CounterpartyKind devuelve el tipo de tercero que corresponde al documento (venta→cliente, compra→proveedor).
func (k DocumentKind) CounterpartyKind() CounterpartyKind {
	if k == DocumentKindPurchase {
		return CounterpartyKindSupplier
	}
	return CounterpartyKindCustomer
}

// PaymentType condición de pago del documento.
type PaymentType string

const (
	PaymentTypeCash    PaymentType = "contado"
	PaymentTypeAccount PaymentType = "cuenta_corriente"
)

// IsValid indica si la condición es conocida.
func (p PaymentType) IsValid() bool {
	return p == PaymentTypeCash || p == PaymentTypeAccount
}

// DocumentStatus estado derivado del saldo.
type DocumentStatus string

const (
	DocumentStatusPaid    DocumentStatus = "pagado"
	DocumentStatusPending DocumentStatus = "pendiente_pago"
)

// DocumentNumber numeración fiscal: letra, punto de venta (4 dígitos) y secuencia (8 dígitos).
type DocumentNumber struct {
	Letter      string
	PointOfSale int
	Sequence    int64
}

// Document cabecera de una venta o compra con sus líneas y medios de pago.
type Document struct {
	ID               string
	Kind             DocumentKind
	CounterpartyID   string
	CounterpartyName string
	Date             time.Time
	Number           DocumentNumber
	PaymentType      PaymentType
	Items            []LineItem
	Payments         []PaymentInstrument
	NetTotal         decimal.Decimal
	VATTotal         decimal.Decimal
	Total            decimal.Decimal
	Balance          decimal.Decimal
	Status           DocumentStatus
	Notes            string
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CreatedBy        string
}

// CheckType devuelve el tipo de cheque que generan sus pagos con cheque (venta→recibido, compra→emitido).
func (d *Document) CheckType() CheckType {
	if d.Kind == DocumentKindPurchase {
		return CheckTypeIssued
	}
	return CheckTypeReceived
}

// MovementType devuelve el tipo de movimiento de tesorería que generan sus cobros/pagos.
func (d *Document) MovementType() MovementType {
	if d.Kind == DocumentKindPurchase {
		return MovementTypeExpense
	}
	return MovementTypeIncome
}

// SettlementKind devuelve el tipo de cancelación aplicable (venta→cobro, compra→pago).
func (d *Document) SettlementKind() SettlementKind {
	if d.Kind == DocumentKindPurchase {
		return SettlementKindPayment
	}
	return SettlementKindCollection
}
