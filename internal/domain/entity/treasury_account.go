package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType tipo de cuenta de tesorería.
type AccountType string

const (
	AccountTypeCash AccountType = "efectivo"
	AccountTypeBank AccountType = "bancaria"
)

// TreasuryAccount caja o cuenta bancaria.
// Balance es una vista materializada de sus movimientos: solo cambia al aplicar un CashMovement.
type TreasuryAccount struct {
	ID            string
	Name          string
	Type          AccountType
	PaymentMethod PaymentMethod
	Balance       decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
