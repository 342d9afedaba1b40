package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de tesorería.
type MovementType string

const (
	MovementTypeIncome   MovementType = "ingreso"
	MovementTypeExpense  MovementType = "egreso"
	MovementTypeTransfer MovementType = "transferencia"
)

// IsValid indica si el tipo es conocido.
func (t MovementType) IsValid() bool {
	return t == MovementTypeIncome || t == MovementTypeExpense || t == MovementTypeTransfer
}

// Tipos de documento relacionados a un movimiento (trazabilidad).
const (
	RelatedCollection = "cobro"
	RelatedPayment    = "pago"
	RelatedSale       = "venta"
	RelatedPurchase   = "compra"
)

// CashMovement registro inmutable del libro de tesorería.
// Seq es el orden total de aplicación (lo asigna el almacenamiento).
type CashMovement struct {
	ID                   string
	Seq                  int64
	Type                 MovementType
	Amount               decimal.Decimal
	OriginAccountID      string
	DestinationAccountID string
	Concept              string
	RelatedDocumentID    string
	RelatedDocumentType  string
	IsManual             bool
	Date                 time.Time
	CreatedAt            time.Time
	CreatedBy            string
}
