package treasury_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (context.Context, *memory.Store, *treasury.LedgerUseCase, *entity.TreasuryAccount, *entity.TreasuryAccount) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	clock := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	uc := treasury.NewLedgerUseCase(store, func() time.Time { return clock }, logger.Nop())

	caja, err := uc.CreateAccount(ctx, treasury.AccountInput{Name: "Caja", Type: entity.AccountTypeCash, PaymentMethod: entity.PaymentMethodCash, OpeningBalance: d("100")})
	require.NoError(t, err)
	banco, err := uc.CreateAccount(ctx, treasury.AccountInput{Name: "Banco", Type: entity.AccountTypeBank, PaymentMethod: entity.PaymentMethodTransfer})
	require.NoError(t, err)
	return ctx, store, uc, caja, banco
}

func TestCreateAccount_SaldoInicialEsMovimiento(t *testing.T) {
	ctx, _, uc, caja, _ := setup(t)
	assert.True(t, caja.Balance.Equal(d("100")))

	st, err := uc.Statement(ctx, caja.ID)
	require.NoError(t, err)
	require.Len(t, st.Lines, 1)
	assert.Equal(t, "Saldo inicial", st.Lines[0].Concept)
	assert.True(t, st.Lines[0].Balance.Equal(d("100")))

	_, err = uc.CreateAccount(ctx, treasury.AccountInput{Name: "x", Type: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateAccount(ctx, treasury.AccountInput{Name: "x", Type: entity.AccountTypeCash, OpeningBalance: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cada saldo guardado coincide con la reconstrucción del libro luego de cada paso.
func TestPost_SaldosReconstruiblesDespuesDeCadaPaso(t *testing.T) {
	ctx, _, uc, caja, banco := setup(t)

	steps := []treasury.MovementInput{
		{Type: entity.MovementTypeIncome, Amount: d("50"), OriginAccountID: caja.ID, Concept: "venta mostrador"},
		{Type: entity.MovementTypeTransfer, Amount: d("120"), OriginAccountID: caja.ID, DestinationAccountID: banco.ID, Concept: "depósito"},
		{Type: entity.MovementTypeExpense, Amount: d("200"), OriginAccountID: caja.ID, Concept: "retiro"},
		{Type: entity.MovementTypeIncome, Amount: d("430"), OriginAccountID: banco.ID, Concept: "acreditación"},
	}
	for i, in := range steps {
		_, err := uc.Post(ctx, in)
		require.NoError(t, err, "paso %d", i)
		results, err := uc.AuditAll(ctx)
		require.NoError(t, err)
		for _, r := range results {
			require.True(t, r.Consistent(), "paso %d cuenta %s", i, r.AccountID)
		}
	}

	got, err := uc.GetAccount(ctx, caja.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(d("-170")), "caja: %s", got.Balance)
	got, err = uc.GetAccount(ctx, banco.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(d("550")), "banco: %s", got.Balance)
}

func TestPost_Validaciones(t *testing.T) {
	ctx, _, uc, caja, _ := setup(t)

	_, err := uc.Post(ctx, treasury.MovementInput{Type: entity.MovementTypeIncome, Amount: d("0"), OriginAccountID: caja.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.Post(ctx, treasury.MovementInput{Type: entity.MovementTypeTransfer, Amount: d("10"), OriginAccountID: caja.ID, DestinationAccountID: caja.ID})
	assert.Error(t, err, "transferencia a la misma cuenta")

	_, err = uc.Post(ctx, treasury.MovementInput{Type: entity.MovementTypeIncome, Amount: d("10"), OriginAccountID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)
}

func TestDeleteManual_RevierteEfecto(t *testing.T) {
	ctx, store, uc, caja, banco := setup(t)
	m, err := uc.Post(ctx, treasury.MovementInput{Type: entity.MovementTypeTransfer, Amount: d("60"), OriginAccountID: caja.ID, DestinationAccountID: banco.ID})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteManual(ctx, m.ID))
	got, err := uc.GetAccount(ctx, caja.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(d("100")))
	got, err = uc.GetAccount(ctx, banco.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())

	assert.ErrorIs(t, uc.DeleteManual(ctx, m.ID), domain.ErrNotFound)

	// los movimientos de documentos no se borran a mano
	doc := &entity.CashMovement{
		Type: entity.MovementTypeIncome, Amount: d("5"), OriginAccountID: caja.ID,
		RelatedDocumentID: "doc-1", RelatedDocumentType: entity.RelatedSale,
	}
	require.NoError(t, store.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		return uc.PostInTx(ctx, r, doc)
	}))
	assert.ErrorIs(t, uc.DeleteManual(ctx, doc.ID), treasury.ErrDocumentMovement)
}

func TestDeleteAccount(t *testing.T) {
	ctx, _, uc, caja, banco := setup(t)

	err := uc.DeleteAccount(ctx, caja.ID)
	var blocked *domain.CascadeBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Len(t, blocked.Dependents, 1)

	require.NoError(t, uc.DeleteAccount(ctx, banco.ID))
	_, err = uc.GetAccount(ctx, banco.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAudit_DetectaSaldoAlterado(t *testing.T) {
	ctx, store, uc, caja, _ := setup(t)
	require.NoError(t, store.Repos().Accounts.UpdateBalance(ctx, caja.ID, d("999")))

	res, err := uc.Audit(ctx, caja.ID)
	require.NoError(t, err)
	assert.False(t, res.Consistent())
	assert.True(t, res.Replayed.Equal(d("100")))
	assert.True(t, res.Stored.Equal(d("999")))
}

func TestResolveAccount(t *testing.T) {
	ctx, store, _, caja, banco := setup(t)
	repos := store.Repos()

	acc, err := treasury.ResolveAccount(ctx, repos, entity.PaymentInstrument{Method: entity.PaymentMethodCash})
	require.NoError(t, err)
	assert.Equal(t, caja.ID, acc.ID)

	acc, err = treasury.ResolveAccount(ctx, repos, entity.PaymentInstrument{Method: entity.PaymentMethodCash, TreasuryAccountID: banco.ID})
	require.NoError(t, err)
	assert.Equal(t, banco.ID, acc.ID, "la cuenta explícita manda")

	_, err = treasury.ResolveAccount(ctx, repos, entity.PaymentInstrument{Method: entity.PaymentMethodDollars})
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)
}
