// Package ledger define el efecto de cada movimiento de tesorería sobre los saldos
// y la reconstrucción (replay) de un saldo a partir de sus movimientos.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// Delta variación de saldo de una cuenta.
type Delta struct {
	AccountID string
	Amount    decimal.Decimal
}

// Validate precondiciones de un movimiento antes de aplicarlo.
func Validate(m entity.CashMovement) error {
	if !m.Type.IsValid() {
		return domain.NewValidationError("type", "tipo de movimiento desconocido")
	}
	if !m.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if m.OriginAccountID == "" {
		return domain.ErrInvalidAccount
	}
	if m.Type == entity.MovementTypeTransfer {
		if m.DestinationAccountID == "" || m.DestinationAccountID == m.OriginAccountID {
			return domain.ErrInvalidAccount
		}
	}
	return nil
}

// Effects variaciones de saldo que produce el movimiento.
// Ingreso suma en origen; egreso resta en origen (el saldo puede quedar negativo);
// transferencia resta en origen y suma en destino.
func Effects(m entity.CashMovement) ([]Delta, error) {
	if err := Validate(m); err != nil {
		return nil, err
	}
	switch m.Type {
	case entity.MovementTypeIncome:
		return []Delta{{AccountID: m.OriginAccountID, Amount: m.Amount}}, nil
	case entity.MovementTypeExpense:
		return []Delta{{AccountID: m.OriginAccountID, Amount: m.Amount.Neg()}}, nil
	case entity.MovementTypeTransfer:
		return []Delta{
			{AccountID: m.OriginAccountID, Amount: m.Amount.Neg()},
			{AccountID: m.DestinationAccountID, Amount: m.Amount},
		}, nil
	}
	return nil, domain.NewValidationError("type", "tipo de movimiento desconocido")
}

// Inverse variaciones que deshacen las dadas.
func Inverse(deltas []Delta) []Delta {
	out := make([]Delta, len(deltas))
	for i, d := range deltas {
		out[i] = Delta{AccountID: d.AccountID, Amount: d.Amount.Neg()}
	}
	return out
}

// Accounts ids de cuenta tocados, ordenados. Bloquear en este orden evita deadlocks.
func Accounts(deltas []Delta) []string {
	seen := make(map[string]struct{}, len(deltas))
	ids := make([]string, 0, len(deltas))
	for _, d := range deltas {
		if _, ok := seen[d.AccountID]; ok {
			continue
		}
		seen[d.AccountID] = struct{}{}
		ids = append(ids, d.AccountID)
	}
	sort.Strings(ids)
	return ids
}

// Apply suma las variaciones a los saldos dados (mapa por id de cuenta).
func Apply(balances map[string]decimal.Decimal, deltas []Delta) {
	for _, d := range deltas {
		balances[d.AccountID] = balances[d.AccountID].Add(d.Amount)
	}
}

// Effect variación neta del movimiento sobre una cuenta (0 si no la toca).
func Effect(accountID string, m entity.CashMovement) decimal.Decimal {
	deltas, err := Effects(m)
	if err != nil {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, d := range deltas {
		if d.AccountID == accountID {
			sum = sum.Add(d.Amount)
		}
	}
	return sum
}

// Replay recalcula el saldo de una cuenta aplicando sus movimientos en orden de Seq.
func Replay(accountID string, movements []entity.CashMovement) decimal.Decimal {
	balance := decimal.Zero
	for _, m := range sortedBySeq(movements) {
		balance = balance.Add(Effect(accountID, m))
	}
	return balance
}

// Line renglón de un extracto de cuenta.
type Line struct {
	MovementID string
	Seq        int64
	Date       time.Time
	Type       entity.MovementType
	Concept    string
	Amount     decimal.Decimal // con signo, desde el punto de vista de la cuenta
	Balance    decimal.Decimal // saldo acumulado
}

// Statement extracto con saldo acumulado, en orden de aplicación.
func Statement(accountID string, movements []entity.CashMovement) []Line {
	balance := decimal.Zero
	sorted := sortedBySeq(movements)
	lines := make([]Line, 0, len(sorted))
	for _, m := range sorted {
		eff := Effect(accountID, m)
		if eff.IsZero() {
			continue
		}
		balance = balance.Add(eff)
		lines = append(lines, Line{
			MovementID: m.ID,
			Seq:        m.Seq,
			Date:       m.Date,
			Type:       m.Type,
			Concept:    m.Concept,
			Amount:     eff,
			Balance:    balance,
		})
	}
	return lines
}

// AuditResult comparación entre el saldo guardado y el reconstruido.
type AuditResult struct {
	AccountID string
	Stored    decimal.Decimal
	Replayed  decimal.Decimal
}

// Consistent indica si ambos saldos coinciden.
func (r AuditResult) Consistent() bool {
	return r.Stored.Equal(r.Replayed)
}

// Audit reconstruye el saldo de la cuenta y lo compara con el guardado.
func Audit(account entity.TreasuryAccount, movements []entity.CashMovement) AuditResult {
	return AuditResult{
		AccountID: account.ID,
		Stored:    account.Balance,
		Replayed:  Replay(account.ID, movements),
	}
}

func sortedBySeq(movements []entity.CashMovement) []entity.CashMovement {
	out := make([]entity.CashMovement, len(movements))
	copy(out, movements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}
