package settlements_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/documents"
	"github.com/jhoicas/taller-api/internal/application/settlements"
	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var today = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	ledger   *treasury.LedgerUseCase
	docs     *documents.UseCase
	uc       *settlements.UseCase
	caja     *entity.TreasuryAccount
	valores  *entity.TreasuryAccount
	supplier *entity.Counterparty
	customer *entity.Counterparty
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := func() time.Time { return today }
	log := logger.Nop()
	ledger := treasury.NewLedgerUseCase(store, now, log)
	f := &fixture{
		ctx:    ctx,
		store:  store,
		ledger: ledger,
		docs:   documents.NewUseCase(store, ledger, now, log),
		uc:     settlements.NewUseCase(store, ledger, now, log),
	}
	var err error
	f.caja, err = ledger.CreateAccount(ctx, treasury.AccountInput{Name: "Caja", Type: entity.AccountTypeCash, PaymentMethod: entity.PaymentMethodCash, OpeningBalance: d("2000")})
	require.NoError(t, err)
	f.valores, err = ledger.CreateAccount(ctx, treasury.AccountInput{Name: "Valores", Type: entity.AccountTypeBank, PaymentMethod: entity.PaymentMethodCheck})
	require.NoError(t, err)

	f.supplier = &entity.Counterparty{Kind: entity.CounterpartyKindSupplier, Name: "Repuestos SA"}
	require.NoError(t, store.Repos().Counterparties.Create(ctx, f.supplier))
	f.customer = &entity.Counterparty{Kind: entity.CounterpartyKindCustomer, Name: "Ana Gómez"}
	require.NoError(t, store.Repos().Counterparties.Create(ctx, f.customer))
	return f
}

func (f *fixture) document(t *testing.T, kind entity.DocumentKind, total string) *entity.Document {
	t.Helper()
	cp := f.customer.ID
	if kind == entity.DocumentKindPurchase {
		cp = f.supplier.ID
	}
	doc, err := f.docs.SaveDocument(f.ctx, documents.SaveInput{
		Kind:           kind,
		CounterpartyID: cp,
		Date:           today,
		Letter:         "A",
		PointOfSale:    3,
		PaymentType:    entity.PaymentTypeAccount,
		Items: []entity.LineItem{{
			Description: "Repuesto",
			Quantity:    d("1"),
			UnitPrice:   d(total),
			VATRate:     decimal.Zero,
			Mode:        entity.CalculationModeNet,
		}},
	})
	require.NoError(t, err)
	return doc
}

func (f *fixture) balance(t *testing.T, acc *entity.TreasuryAccount) decimal.Decimal {
	t.Helper()
	got, err := f.ledger.GetAccount(f.ctx, acc.ID)
	require.NoError(t, err)
	return got.Balance
}

func cashInput(amount string) settlements.ApplyInput {
	return settlements.ApplyInput{
		Instrument: entity.PaymentInstrument{Method: entity.PaymentMethodCash, Amount: d(amount)},
		Date:       today,
	}
}

// Compra en cuenta corriente por 1000 y pago de 1000: saldo 0, pagado, un único egreso.
func TestApply_PagoTotalDeCompra(t *testing.T) {
	f := newFixture(t)
	doc := f.document(t, entity.DocumentKindPurchase, "1000")
	assert.Equal(t, entity.DocumentStatusPending, doc.Status)

	s, updated, err := f.uc.Apply(f.ctx, doc.ID, cashInput("1000"))
	require.NoError(t, err)
	assert.Equal(t, entity.SettlementKindPayment, s.Kind)
	assert.True(t, updated.Balance.IsZero())
	assert.Equal(t, entity.DocumentStatusPaid, updated.Status)
	assert.Equal(t, doc.Version+1, updated.Version)

	movs, err := f.store.Repos().Movements.ListByRelated(f.ctx, entity.RelatedPayment, s.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeExpense, movs[0].Type)
	assert.True(t, movs[0].Amount.Equal(d("1000")))
	assert.Equal(t, s.MovementID, movs[0].ID)
	assert.True(t, f.balance(t, f.caja).Equal(d("1000")), "la caja baja 1000")
}

func TestApply_CobrosParcialesHastaCancelar(t *testing.T) {
	f := newFixture(t)
	doc := f.document(t, entity.DocumentKindSale, "1000")

	_, updated, err := f.uc.Apply(f.ctx, doc.ID, cashInput("300"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(d("700")))
	assert.Equal(t, entity.DocumentStatusPending, updated.Status)

	_, _, err = f.uc.Apply(f.ctx, doc.ID, cashInput("700.02"))
	var over *domain.OverPaymentError
	require.ErrorAs(t, err, &over)
	assert.True(t, over.Balance.Equal(d("700")))

	// dentro del centavo de tolerancia cancela
	_, updated, err = f.uc.Apply(f.ctx, doc.ID, cashInput("700.01"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.IsZero())
	assert.Equal(t, entity.DocumentStatusPaid, updated.Status)
	assert.True(t, f.balance(t, f.caja).Equal(d("3000.01")))
}

func TestApply_ConChequeCreaCheque(t *testing.T) {
	f := newFixture(t)
	doc := f.document(t, entity.DocumentKindPurchase, "500")

	in := settlements.ApplyInput{Instrument: entity.PaymentInstrument{
		Method: entity.PaymentMethodCheck,
		Amount: d("500"),
		Details: entity.CheckDetails{
			Number: "0001", Bank: "Provincia", IssueDate: today, DueDate: today.AddDate(0, 1, 0),
		},
	}}
	s, _, err := f.uc.Apply(f.ctx, doc.ID, in)
	require.NoError(t, err)
	assert.Equal(t, f.valores.ID, s.TreasuryAccountID)

	c, err := f.store.Repos().Checks.FindByPayment(f.ctx, doc.ID, s.ID)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, entity.CheckTypeIssued, c.Type)
	assert.Equal(t, "Repuestos SA", c.HolderName)

	// editar el documento no toca el cheque del pago
	in2 := documents.SaveInput{
		ID: doc.ID, ExpectedVersion: doc.Version + 1,
		Kind: doc.Kind, CounterpartyID: doc.CounterpartyID, Date: today,
		Letter: "A", PointOfSale: 3, PaymentType: entity.PaymentTypeAccount,
		Items: doc.Items,
	}
	_, err = f.docs.SaveDocument(f.ctx, in2)
	require.NoError(t, err)
	still, err := f.store.Repos().Checks.GetByID(f.ctx, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestApply_SoloCuentaCorriente(t *testing.T) {
	f := newFixture(t)
	doc, err := f.docs.SaveDocument(f.ctx, documents.SaveInput{
		Kind: entity.DocumentKindSale, CounterpartyID: f.customer.ID, Letter: "B", PointOfSale: 1,
		PaymentType: entity.PaymentTypeCash,
		Items:       []entity.LineItem{{Quantity: d("1"), UnitPrice: d("100"), VATRate: decimal.Zero}},
		Payments:    []entity.PaymentInstrument{{Method: entity.PaymentMethodCash, Amount: d("100")}},
	})
	require.NoError(t, err)

	_, _, err = f.uc.Apply(f.ctx, doc.ID, cashInput("10"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply_ImporteCeroOInvalido(t *testing.T) {
	f := newFixture(t)
	doc := f.document(t, entity.DocumentKindSale, "100")
	_, _, err := f.uc.Apply(f.ctx, doc.ID, cashInput("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, _, err = f.uc.Apply(f.ctx, "no-existe", cashInput("10"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApply_VersionVieja(t *testing.T) {
	f := newFixture(t)
	doc := f.document(t, entity.DocumentKindSale, "100")
	in := cashInput("10")
	in.ExpectedVersion = doc.Version + 5
	_, _, err := f.uc.Apply(f.ctx, doc.ID, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDelete_RestauraSaldoYRevierteMovimiento(t *testing.T) {
	f := newFixture(t)
	doc := f.document(t, entity.DocumentKindSale, "1000")
	first, _, err := f.uc.Apply(f.ctx, doc.ID, cashInput("400"))
	require.NoError(t, err)
	_, _, err = f.uc.Apply(f.ctx, doc.ID, cashInput("600"))
	require.NoError(t, err)

	// con cobros registrados el documento no se puede borrar
	err = f.docs.DeleteDocument(f.ctx, doc.ID, 0)
	assert.ErrorIs(t, err, domain.ErrCascadeBlocked)

	require.NoError(t, f.uc.Delete(f.ctx, first.ID))
	got, err := f.docs.GetDocument(f.ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(d("400")))
	assert.Equal(t, entity.DocumentStatusPending, got.Status)
	assert.True(t, f.balance(t, f.caja).Equal(d("2600")))

	list, err := f.uc.ListByDocument(f.ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	results, err := f.ledger.AuditAll(f.ctx)
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Consistent(), "cuenta %s", r.AccountID)
	}
}

// Con cobros registrados la edición recalcula el saldo desde el nuevo total.
func TestEdicionConCobros_RecalculaSaldo(t *testing.T) {
	f := newFixture(t)
	doc := f.document(t, entity.DocumentKindSale, "1000")
	_, updated, err := f.uc.Apply(f.ctx, doc.ID, cashInput("400"))
	require.NoError(t, err)

	in := documents.SaveInput{
		ID: doc.ID, ExpectedVersion: updated.Version,
		Kind: doc.Kind, CounterpartyID: doc.CounterpartyID, Date: today,
		Letter: "A", PointOfSale: 3, PaymentType: entity.PaymentTypeAccount,
		Items: []entity.LineItem{{Quantity: d("1"), UnitPrice: d("1500"), VATRate: decimal.Zero}},
	}
	saved, err := f.docs.SaveDocument(f.ctx, in)
	require.NoError(t, err)
	assert.True(t, saved.Balance.Equal(d("1100")))

	in.ExpectedVersion = saved.Version
	in.Items[0].UnitPrice = d("300")
	_, err = f.docs.SaveDocument(f.ctx, in)
	assert.ErrorIs(t, err, domain.ErrOverPayment, "el nuevo total no puede quedar por debajo de lo cobrado")
}
