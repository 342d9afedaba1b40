package treasury

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/ledger"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// ErrDocumentMovement los movimientos generados por documentos o cobros/pagos solo se eliminan
// borrando el documento o el cobro/pago que los originó.
var ErrDocumentMovement error = &domain.ValidationError{
	Field:  "movement",
	Reason: "el movimiento fue generado por un documento; eliminar el documento o el cobro/pago",
}

// LedgerUseCase libro de tesorería: aplica movimientos sobre los saldos de caja y bancos
// bloqueando las filas de cuenta (SELECT FOR UPDATE) dentro de la transacción del llamador.
type LedgerUseCase struct {
	tx  ports.TxRunner
	now ports.Clock
	log *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(tx ports.TxRunner, now ports.Clock, log *logger.Logger) *LedgerUseCase {
	if now == nil {
		now = time.Now
	}
	return &LedgerUseCase{tx: tx, now: now, log: log.WithComponent("treasury")}
}

// MovementInput alta de un movimiento manual.
type MovementInput struct {
	Type                 entity.MovementType
	Amount               decimal.Decimal
	OriginAccountID      string
	DestinationAccountID string
	Concept              string
	Date                 time.Time
	UserID               string
}

// AccountInput alta de una caja o cuenta bancaria.
type AccountInput struct {
	Name           string
	Type           entity.AccountType
	PaymentMethod  entity.PaymentMethod
	OpeningBalance decimal.Decimal
	UserID         string
}

// Statement extracto de una cuenta con saldo acumulado.
type Statement struct {
	Account *entity.TreasuryAccount
	Lines   []ledger.Line
}

// lockAccounts bloquea las cuentas en orden de id y devuelve sus saldos actuales.
func lockAccounts(ctx context.Context, repos repository.Repos, ids []string) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		acc, err := repos.Accounts.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			return nil, domain.ErrInvalidAccount
		}
		balances[id] = acc.Balance
	}
	return balances, nil
}

func writeBalances(ctx context.Context, repos repository.Repos, ids []string, balances map[string]decimal.Decimal) error {
	for _, id := range ids {
		if err := repos.Accounts.UpdateBalance(ctx, id, balances[id]); err != nil {
			return err
		}
	}
	return nil
}

// PostInTx valida el movimiento, bloquea las cuentas afectadas, aplica los deltas y persiste el
// movimiento (el almacenamiento asigna Seq). Se ejecuta en la transacción del llamador.
func (uc *LedgerUseCase) PostInTx(ctx context.Context, repos repository.Repos, m *entity.CashMovement) error {
	deltas, err := ledger.Effects(*m)
	if err != nil {
		return err
	}
	ids := ledger.Accounts(deltas)
	balances, err := lockAccounts(ctx, repos, ids)
	if err != nil {
		return err
	}
	ledger.Apply(balances, deltas)

	now := uc.now()
	if m.Date.IsZero() {
		m.Date = now
	}
	m.CreatedAt = now
	if err := repos.Movements.Create(ctx, m); err != nil {
		return err
	}
	if err := writeBalances(ctx, repos, ids, balances); err != nil {
		return err
	}
	uc.log.Debug().
		Str("movement_id", m.ID).
		Int64("seq", m.Seq).
		Str("type", string(m.Type)).
		Str("amount", m.Amount.String()).
		Msg("movimiento aplicado")
	return nil
}

// ReverseInTx deshace el efecto del movimiento sobre los saldos y lo elimina.
func (uc *LedgerUseCase) ReverseInTx(ctx context.Context, repos repository.Repos, m *entity.CashMovement) error {
	deltas, err := ledger.Effects(*m)
	if err != nil {
		return err
	}
	inverse := ledger.Inverse(deltas)
	ids := ledger.Accounts(inverse)
	balances, err := lockAccounts(ctx, repos, ids)
	if err != nil {
		return err
	}
	ledger.Apply(balances, inverse)
	if err := repos.Movements.Delete(ctx, m.ID); err != nil {
		return err
	}
	if err := writeBalances(ctx, repos, ids, balances); err != nil {
		return err
	}
	uc.log.Debug().Str("movement_id", m.ID).Msg("movimiento revertido")
	return nil
}

// ReverseRelatedInTx revierte todos los movimientos generados por un documento o cobro/pago.
func (uc *LedgerUseCase) ReverseRelatedInTx(ctx context.Context, repos repository.Repos, relatedType, relatedID string) error {
	movs, err := repos.Movements.ListByRelated(ctx, relatedType, relatedID)
	if err != nil {
		return err
	}
	// en orden inverso de aplicación
	for i := len(movs) - 1; i >= 0; i-- {
		if err := uc.ReverseInTx(ctx, repos, movs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Post registra un movimiento manual (ingreso, egreso o transferencia entre cuentas).
func (uc *LedgerUseCase) Post(ctx context.Context, in MovementInput) (*entity.CashMovement, error) {
	m := &entity.CashMovement{
		Type:                 in.Type,
		Amount:               in.Amount,
		OriginAccountID:      in.OriginAccountID,
		DestinationAccountID: in.DestinationAccountID,
		Concept:              strings.TrimSpace(in.Concept),
		IsManual:             true,
		Date:                 in.Date,
		CreatedBy:            in.UserID,
	}
	if m.Type != entity.MovementTypeTransfer {
		m.DestinationAccountID = ""
	}
	if err := ledger.Validate(*m); err != nil {
		return nil, err
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		return uc.PostInTx(ctx, repos, m)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("movement_id", m.ID).Str("type", string(m.Type)).Msg("movimiento manual registrado")
	return m, nil
}

// DeleteManual elimina un movimiento manual revirtiendo su efecto.
func (uc *LedgerUseCase) DeleteManual(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		m, err := repos.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if !m.IsManual {
			return ErrDocumentMovement
		}
		return uc.ReverseInTx(ctx, repos, m)
	})
}

// ResolveAccount cuenta que recibe el movimiento de un medio de pago: la indicada en el medio
// o, si no hay, la primera asociada al método de pago.
func ResolveAccount(ctx context.Context, repos repository.Repos, p entity.PaymentInstrument) (*entity.TreasuryAccount, error) {
	if p.TreasuryAccountID != "" {
		acc, err := repos.Accounts.GetByID(ctx, p.TreasuryAccountID)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			return nil, domain.ErrInvalidAccount
		}
		return acc, nil
	}
	acc, err := repos.Accounts.FirstByPaymentMethod(ctx, p.Method)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrInvalidAccount
	}
	return acc, nil
}
