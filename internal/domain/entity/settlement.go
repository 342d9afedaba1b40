package entity

import "time"

// SettlementKind cobro (sobre una venta) o pago (sobre una compra).
type SettlementKind string

const (
	SettlementKindCollection SettlementKind = "cobro"
	SettlementKindPayment    SettlementKind = "pago"
)

// Settlement cancelación parcial o total del saldo de un documento en cuenta corriente.
// Cada uno genera exactamente un CashMovement (MovementID).
type Settlement struct {
	ID                string
	Kind              SettlementKind
	DocumentID        string
	Instrument        PaymentInstrument
	TreasuryAccountID string
	MovementID        string
	Date              time.Time
	Notes             string
	CreatedAt         time.Time
	CreatedBy         string
}
