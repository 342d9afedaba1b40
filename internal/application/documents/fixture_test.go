package documents_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/documents"
	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var today = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	ctx      context.Context
	clock    time.Time
	store    *memory.Store
	ledger   *treasury.LedgerUseCase
	uc       *documents.UseCase
	caja     *entity.TreasuryAccount
	banco    *entity.TreasuryAccount
	valores  *entity.TreasuryAccount
	customer *entity.Counterparty
	supplier *entity.Counterparty
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.Nop()
	f := &fixture{ctx: ctx, store: store, clock: today}
	now := func() time.Time { return f.clock }
	ledger := treasury.NewLedgerUseCase(store, now, log)
	f.ledger = ledger
	f.uc = documents.NewUseCase(store, ledger, now, log)
	var err error
	f.caja, err = ledger.CreateAccount(ctx, treasury.AccountInput{Name: "Caja", Type: entity.AccountTypeCash, PaymentMethod: entity.PaymentMethodCash})
	require.NoError(t, err)
	f.banco, err = ledger.CreateAccount(ctx, treasury.AccountInput{Name: "Banco", Type: entity.AccountTypeBank, PaymentMethod: entity.PaymentMethodTransfer, OpeningBalance: d("5000")})
	require.NoError(t, err)
	f.valores, err = ledger.CreateAccount(ctx, treasury.AccountInput{Name: "Valores a depositar", Type: entity.AccountTypeBank, PaymentMethod: entity.PaymentMethodCheck})
	require.NoError(t, err)

	repos := store.Repos()
	f.customer = &entity.Counterparty{Kind: entity.CounterpartyKindCustomer, Name: "Juan Pérez", TaxID: "20-11111111-1"}
	require.NoError(t, repos.Counterparties.Create(ctx, f.customer))
	f.supplier = &entity.Counterparty{Kind: entity.CounterpartyKindSupplier, Name: "Repuestos SA", TaxID: "30-22222222-2"}
	require.NoError(t, repos.Counterparties.Create(ctx, f.supplier))
	return f
}

func (f *fixture) balance(t *testing.T, acc *entity.TreasuryAccount) decimal.Decimal {
	t.Helper()
	got, err := f.ledger.GetAccount(f.ctx, acc.ID)
	require.NoError(t, err)
	return got.Balance
}

func (f *fixture) audit(t *testing.T) {
	t.Helper()
	results, err := f.ledger.AuditAll(f.ctx)
	require.NoError(t, err)
	for _, r := range results {
		require.True(t, r.Consistent(), "cuenta %s: guardado %s, reconstruido %s", r.AccountID, r.Stored, r.Replayed)
	}
}

// item línea neta con IVA 0: el total es cant × precio.
func item(qty, price string) entity.LineItem {
	return entity.LineItem{
		Description: "Servicio",
		Quantity:    d(qty),
		UnitPrice:   d(price),
		VATRate:     decimal.Zero,
		Mode:        entity.CalculationModeNet,
	}
}

func cash(amount string) entity.PaymentInstrument {
	return entity.PaymentInstrument{Method: entity.PaymentMethodCash, Amount: d(amount)}
}

func cheque(amount, number string) entity.PaymentInstrument {
	return entity.PaymentInstrument{
		Method: entity.PaymentMethodCheck,
		Amount: d(amount),
		Details: entity.CheckDetails{
			Number:    number,
			Bank:      "Banco Nación",
			IssueDate: today,
			DueDate:   today.AddDate(0, 0, 30),
		},
	}
}

func (f *fixture) sale(items []entity.LineItem, pt entity.PaymentType, payments ...entity.PaymentInstrument) documents.SaveInput {
	return documents.SaveInput{
		Kind:           entity.DocumentKindSale,
		CounterpartyID: f.customer.ID,
		Date:           today,
		Letter:         "B",
		PointOfSale:    1,
		PaymentType:    pt,
		Items:          items,
		Payments:       payments,
	}
}
