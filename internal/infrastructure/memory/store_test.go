package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
)

func TestRun_ErrorRestauraElEstado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	acc := &entity.TreasuryAccount{Name: "Caja", Type: entity.AccountTypeCash, PaymentMethod: entity.PaymentMethodCash, Balance: decimal.Zero}
	require.NoError(t, store.Repos().Accounts.Create(ctx, acc))

	boom := errors.New("falla a mitad de camino")
	err := store.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		require.NoError(t, r.Accounts.UpdateBalance(ctx, acc.ID, decimal.NewFromInt(100)))
		require.NoError(t, r.Movements.Create(ctx, &entity.CashMovement{
			Type: entity.MovementTypeIncome, Amount: decimal.NewFromInt(100), OriginAccountID: acc.ID,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Repos().Accounts.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero(), "el saldo vuelve al valor previo")

	movs, err := store.Repos().Movements.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestDocuments_CompareAndSet(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	doc := &entity.Document{Kind: entity.DocumentKindSale, Number: entity.DocumentNumber{Letter: "A", PointOfSale: 1, Sequence: 1}}
	require.NoError(t, repos.Documents.Create(ctx, doc))
	assert.Equal(t, 1, doc.Version)

	first := *doc
	second := *doc
	require.NoError(t, repos.Documents.Update(ctx, &first, 1))
	assert.Equal(t, 2, first.Version)

	err := repos.Documents.Update(ctx, &second, 1)
	assert.ErrorIs(t, err, domain.ErrConflict, "el segundo escritor con versión vieja es rechazado")

	dup := &entity.Document{Kind: entity.DocumentKindSale, Number: doc.Number}
	assert.ErrorIs(t, repos.Documents.Create(ctx, dup), domain.ErrDuplicate)
}

func TestMovements_SeqMonotono(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	var last int64
	for i := 0; i < 5; i++ {
		m := &entity.CashMovement{Type: entity.MovementTypeIncome, Amount: decimal.NewFromInt(1), OriginAccountID: "caja"}
		require.NoError(t, repos.Movements.Create(ctx, m))
		assert.Greater(t, m.Seq, last)
		last = m.Seq
	}
}
