package treasury

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/ledger"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

const maxDependents = 20

// CreateAccount da de alta una cuenta. El saldo inicial entra como un ingreso manual,
// así el saldo siempre se reconstruye desde los movimientos.
func (uc *LedgerUseCase) CreateAccount(ctx context.Context, in AccountInput) (*entity.TreasuryAccount, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "nombre requerido")
	}
	if in.Type != entity.AccountTypeCash && in.Type != entity.AccountTypeBank {
		return nil, domain.NewValidationError("type", "tipo de cuenta desconocido (efectivo, bancaria)")
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.IsValid() {
		return nil, domain.NewValidationError("payment_method", "medio de pago desconocido")
	}
	if in.OpeningBalance.IsNegative() {
		return nil, domain.NewValidationError("opening_balance", "el saldo inicial no puede ser negativo")
	}

	now := uc.now()
	acc := &entity.TreasuryAccount{
		Name:          name,
		Type:          in.Type,
		PaymentMethod: in.PaymentMethod,
		Balance:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		if err := repos.Accounts.Create(ctx, acc); err != nil {
			return err
		}
		if !in.OpeningBalance.IsPositive() {
			return nil
		}
		m := &entity.CashMovement{
			Type:            entity.MovementTypeIncome,
			Amount:          in.OpeningBalance,
			OriginAccountID: acc.ID,
			Concept:         "Saldo inicial",
			IsManual:        true,
			CreatedBy:       in.UserID,
		}
		if err := uc.PostInTx(ctx, repos, m); err != nil {
			return err
		}
		acc.Balance = in.OpeningBalance
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("account_id", acc.ID).Str("name", acc.Name).Msg("cuenta de tesorería creada")
	return acc, nil
}

// GetAccount obtiene una cuenta por id.
func (uc *LedgerUseCase) GetAccount(ctx context.Context, id string) (*entity.TreasuryAccount, error) {
	acc, err := uc.tx.Repos().Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return acc, nil
}

// ListAccounts lista cajas y cuentas bancarias con su saldo.
func (uc *LedgerUseCase) ListAccounts(ctx context.Context) ([]*entity.TreasuryAccount, error) {
	return uc.tx.Repos().Accounts.List(ctx)
}

// DeleteAccount elimina una cuenta sin movimientos; si tiene, informa cuáles la bloquean.
func (uc *LedgerUseCase) DeleteAccount(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		acc, err := repos.Accounts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrNotFound
		}
		movs, err := repos.Movements.ListByAccount(ctx, id)
		if err != nil {
			return err
		}
		if len(movs) > 0 {
			deps := make([]domain.Dependent, 0, min(len(movs), maxDependents))
			for _, m := range movs {
				if len(deps) == maxDependents {
					break
				}
				deps = append(deps, domain.Dependent{Type: "movimiento", ID: m.ID})
			}
			return &domain.CascadeBlockedError{Entity: "cuenta", ID: id, Dependents: deps}
		}
		return repos.Accounts.Delete(ctx, id)
	})
}

// Statement extracto de la cuenta (solo lectura).
func (uc *LedgerUseCase) Statement(ctx context.Context, accountID string) (*Statement, error) {
	repos := uc.tx.Repos()
	acc, err := repos.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := repos.Movements.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &Statement{Account: acc, Lines: ledger.Statement(accountID, derefMovements(movs))}, nil
}

// Audit reconstruye el saldo de la cuenta desde sus movimientos y lo compara con el guardado.
// Se lee dentro de una transacción para que saldo y movimientos sean de la misma foto.
func (uc *LedgerUseCase) Audit(ctx context.Context, accountID string) (ledger.AuditResult, error) {
	var res ledger.AuditResult
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		acc, err := repos.Accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrNotFound
		}
		movs, err := repos.Movements.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		res = ledger.Audit(*acc, derefMovements(movs))
		return nil
	})
	if err != nil {
		return ledger.AuditResult{}, err
	}
	if !res.Consistent() {
		uc.log.Warn().
			Str("account_id", accountID).
			Str("stored", res.Stored.String()).
			Str("replayed", res.Replayed.String()).
			Msg("saldo inconsistente con el libro")
	}
	return res, nil
}

// AuditAll audita todas las cuentas.
func (uc *LedgerUseCase) AuditAll(ctx context.Context) ([]ledger.AuditResult, error) {
	accounts, err := uc.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.AuditResult, 0, len(accounts))
	for _, a := range accounts {
		res, err := uc.Audit(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func derefMovements(list []*entity.CashMovement) []entity.CashMovement {
	out := make([]entity.CashMovement, len(list))
	for i, m := range list {
		out[i] = *m
	}
	return out
}
