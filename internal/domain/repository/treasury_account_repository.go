package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// TreasuryAccountRepository define el puerto para cajas y cuentas bancarias.
// Usado dentro de transacciones para garantizar consistencia de saldos.
type TreasuryAccountRepository interface {
	Create(ctx context.Context, a *entity.TreasuryAccount) error
	GetByID(ctx context.Context, id string) (*entity.TreasuryAccount, error)
	// GetForUpdate bloquea la fila de la cuenta (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.TreasuryAccount, error)
	// FirstByPaymentMethod primera cuenta (por fecha de alta) asociada al medio de pago.
	FirstByPaymentMethod(ctx context.Context, method entity.PaymentMethod) (*entity.TreasuryAccount, error)
	List(ctx context.Context) ([]*entity.TreasuryAccount, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}
