package allocation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/allocation"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cash(amount string) entity.PaymentInstrument {
	return entity.PaymentInstrument{Method: entity.PaymentMethodCash, Amount: d(amount)}
}

func transfer(amount string) entity.PaymentInstrument {
	return entity.PaymentInstrument{
		Method:  entity.PaymentMethodTransfer,
		Amount:  d(amount),
		Details: entity.TransferDetails{AccountHolder: "Taller", Bank: "Nación"},
	}
}

// Contado 500 con efectivo 300 + transferencia 200 → pagado, saldo 0.
func TestAllocate_ContadoCubreElTotal(t *testing.T) {
	res, err := allocation.Allocate(entity.PaymentTypeCash, d("500"),
		[]entity.PaymentInstrument{cash("300"), transfer("200")})
	require.NoError(t, err)
	assert.True(t, res.Balance.IsZero())
	assert.Equal(t, entity.DocumentStatusPaid, res.Status)
}

// Contado 500 con solo efectivo 300 → AmountMismatch.
func TestAllocate_ContadoIncompleto(t *testing.T) {
	_, err := allocation.Allocate(entity.PaymentTypeCash, d("500"), []entity.PaymentInstrument{cash("300")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAmountMismatch)

	var mm *domain.AmountMismatchError
	require.ErrorAs(t, err, &mm)
	assert.True(t, mm.Total.Equal(d("500")))
	assert.True(t, mm.Paid.Equal(d("300")))
}

func TestAllocate_ToleranciaDeUnCentavo(t *testing.T) {
	_, err := allocation.Allocate(entity.PaymentTypeCash, d("500"), []entity.PaymentInstrument{cash("499.99")})
	assert.NoError(t, err)

	_, err = allocation.Allocate(entity.PaymentTypeCash, d("500"), []entity.PaymentInstrument{cash("499.98")})
	assert.ErrorIs(t, err, domain.ErrAmountMismatch)
}

func TestAllocate_CuentaCorrienteIgnoraMedios(t *testing.T) {
	res, err := allocation.Allocate(entity.PaymentTypeAccount, d("1000"), []entity.PaymentInstrument{cash("1")})
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(d("1000")))
	assert.Equal(t, entity.DocumentStatusPending, res.Status)
}

func TestSettle(t *testing.T) {
	cases := []struct {
		name    string
		balance string
		amount  string
		want    string
		status  entity.DocumentStatus
		wantErr error
	}{
		{"parcial", "1000", "400", "600", entity.DocumentStatusPending, nil},
		{"total", "1000", "1000", "0", entity.DocumentStatusPaid, nil},
		{"dentro de tolerancia", "1000", "1000.01", "0", entity.DocumentStatusPaid, nil},
		{"excede", "1000", "1000.02", "", "", domain.ErrOverPayment},
		{"importe cero", "1000", "0", "", "", domain.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := allocation.Settle(d(tc.balance), d(tc.amount))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.Balance.Equal(d(tc.want)), "saldo: %s", res.Balance)
			assert.Equal(t, tc.status, res.Status)
		})
	}
}

func TestRebalance(t *testing.T) {
	res, err := allocation.Rebalance(d("1200"), d("1000"))
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(d("200")))

	_, err = allocation.Rebalance(d("800"), d("1000"))
	assert.ErrorIs(t, err, domain.ErrOverPayment)
}

// El importe en dólares es siempre cotización × cantidad, edite quien edite.
func TestDollarConsistency(t *testing.T) {
	var p entity.PaymentInstrument
	p.SetDollarDetails(d("1025.50"), d("100"))
	require.NoError(t, allocation.ValidateInstrument(p))
	assert.True(t, p.Amount.Equal(d("102550")))

	dd, _ := p.DollarDetails()
	p.SetDollarDetails(dd.ExchangeRate, d("12.34"))
	require.NoError(t, allocation.ValidateInstrument(p))
	assert.True(t, p.Amount.Equal(allocation.DollarAmount(d("1025.50"), d("12.34"))))

	dd, _ = p.DollarDetails()
	p.SetDollarDetails(d("1100.125"), dd.QuantityUSD)
	require.NoError(t, allocation.ValidateInstrument(p))
	assert.True(t, p.Amount.Equal(d("13575.5425")))

	p.Amount = p.Amount.Add(d("0.01"))
	assert.ErrorIs(t, allocation.ValidateInstrument(p), domain.ErrInvalidInput)
}

func TestValidateInstrument_Cheque(t *testing.T) {
	p := entity.PaymentInstrument{
		Method:  entity.PaymentMethodCheck,
		Amount:  d("100"),
		Details: entity.CheckDetails{Number: "123", Bank: "Galicia", DueDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, allocation.ValidateInstrument(p))

	p.Details = entity.CheckDetails{Bank: "Galicia", DueDate: time.Now()}
	assert.ErrorIs(t, allocation.ValidateInstrument(p), domain.ErrInvalidInput)

	p.Details = entity.TransferDetails{}
	assert.ErrorIs(t, allocation.ValidateInstrument(p), domain.ErrInvalidInput, "payload de otro medio")

	p.Details = nil
	assert.ErrorIs(t, allocation.ValidateInstrument(p), domain.ErrInvalidInput)
}

func TestValidateInstrument_EfectivoSinPayload(t *testing.T) {
	assert.NoError(t, allocation.ValidateInstrument(cash("10")))

	bad := cash("10")
	bad.Details = entity.CheckDetails{Number: "1"}
	assert.ErrorIs(t, allocation.ValidateInstrument(bad), domain.ErrInvalidInput)
}

func TestNormalize_RecalculaImporteEnDolares(t *testing.T) {
	p := entity.PaymentInstrument{
		Method:  entity.PaymentMethodDollars,
		Amount:  d("1"),
		Details: entity.DollarDetails{ExchangeRate: d("1000"), QuantityUSD: d("5")},
	}
	allocation.Normalize(&p)
	assert.True(t, p.Amount.Equal(d("5000")))
	assert.NoError(t, allocation.ValidateInstrument(p))
}
