package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckType cheque recibido (de un cliente) o emitido (a un proveedor).
type CheckType string

const (
	CheckTypeReceived CheckType = "recibido"
	CheckTypeIssued   CheckType = "emitido"
)

// CheckStatus estado del cheque físico.
type CheckStatus string

const (
	CheckStatusInPortfolio CheckStatus = "en_cartera"
	CheckStatusDeposited   CheckStatus = "depositado"
	CheckStatusCleared     CheckStatus = "cobrado"
	CheckStatusBounced     CheckStatus = "devuelto"
)

// IsValid indica si el estado es conocido.
func (s CheckStatus) IsValid() bool {
	switch s {
	case CheckStatusInPortfolio, CheckStatusDeposited, CheckStatusCleared, CheckStatusBounced:
		return true
	}
	return false
}

// Check cheque físico que acompaña a un medio de pago "cheque".
// DocumentID es una referencia débil al documento; PaymentID es el id sintético del medio
// (o del cobro/pago) que lo originó.
type Check struct {
	ID             string
	Type           CheckType
	Number         string
	Bank           string
	Amount         decimal.Decimal
	IssueDate      time.Time
	DueDate        time.Time
	HolderName     string
	ThirdParty     bool
	ThirdPartyName string
	Status         CheckStatus
	DocumentID     string
	PaymentID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
