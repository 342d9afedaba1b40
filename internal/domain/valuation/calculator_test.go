package valuation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/valuation"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Modo neto
// ──────────────────────────────────────────────────────────────────────────────

// Cant 2 × 100 con IVA 21% y sin descuento → total 242, IVA 42.
func TestComputeNet_DosUnidadesIVA21(t *testing.T) {
	res := valuation.ComputeNet(d("2"), d("100"), d("21"), d("0"))

	assert.True(t, res.Total.Equal(d("242.00")), "total: %s", res.Total)
	assert.True(t, res.VATAmount.Equal(d("42.00")), "iva: %s", res.VATAmount)
	assert.True(t, res.Subtotal.Equal(d("200")), "subtotal: %s", res.Subtotal)
}

func TestComputeNet_ConDescuento(t *testing.T) {
	res := valuation.ComputeNet(d("3"), d("50"), d("10.5"), d("10"))

	// 3 × 50 × 0.9 = 135; IVA 14.175; total 149.175 (sin redondear)
	assert.True(t, res.Subtotal.Equal(d("135")), "subtotal: %s", res.Subtotal)
	assert.True(t, res.VATAmount.Equal(d("14.175")), "iva: %s", res.VATAmount)
	assert.True(t, res.Total.Equal(d("149.175")), "total: %s", res.Total)
}

// La línea guarda importes a centavos.
func TestRecalculate_RedondeaAlGuardarEnLaLinea(t *testing.T) {
	item := entity.LineItem{Quantity: d("3"), UnitPrice: d("50"), VATRate: d("10.5"), DiscountPct: d("10"), Mode: entity.CalculationModeNet}
	require.NoError(t, valuation.Recalculate(&item))
	assert.True(t, item.VATAmount.Equal(d("14.18")), "iva: %s", item.VATAmount)
	assert.True(t, item.Total.Equal(d("149.18")), "total: %s", item.Total)

	item = entity.LineItem{Quantity: d("3"), Total: d("100"), VATRate: d("21"), Mode: entity.CalculationModeTotal}
	require.NoError(t, valuation.Recalculate(&item))
	assert.True(t, item.UnitPrice.Equal(d("27.55")), "precio: %s", item.UnitPrice)
	assert.True(t, item.VATAmount.Equal(d("17.36")), "iva: %s", item.VATAmount)
}

// Entradas negativas (tipeo parcial) se toman como 0, nunca fallan.
func TestComputeNet_NegativosSeCoercionanACero(t *testing.T) {
	res := valuation.ComputeNet(d("-2"), d("100"), d("21"), d("-5"))
	assert.True(t, res.Total.IsZero())

	res = valuation.ComputeNet(d("1"), d("100"), d("0"), d("150"))
	assert.True(t, res.Total.IsZero(), "descuento > 100 se limita a 100")
}

func TestCoerce(t *testing.T) {
	cases := map[string]string{
		"":      "0",
		"abc":   "0",
		"12":    "12",
		"12,5":  "12.5",
		"-3":    "0",
		" 7.25": "7.25",
		"1e":    "0",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.True(t, valuation.Coerce(in).Equal(d(want)), "Coerce(%q) = %s", in, valuation.Coerce(in))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Modo total (inverso)
// ──────────────────────────────────────────────────────────────────────────────

// La misma línea en modo total con total 242 devuelve precio 100.
func TestComputeFromTotal_RecuperaPrecio(t *testing.T) {
	res, err := valuation.ComputeFromTotal(d("2"), d("242"), d("21"), d("0"))
	require.NoError(t, err)
	assert.True(t, res.UnitPrice.Sub(d("100")).Abs().LessThanOrEqual(d("0.01")), "precio: %s", res.UnitPrice)
	assert.True(t, res.VATAmount.Equal(d("42")), "iva: %s", res.VATAmount)
}

// Descuentos altos: el total no se redondea antes de invertir.
func TestRoundTrip_DescuentosAltos(t *testing.T) {
	cases := []struct{ qty, price, vat, disc string }{
		{"1", "10.03", "0", "90"},
		{"1", "1", "21", "99.5"},
		{"4", "0.07", "27", "99.5"},
	}
	for _, c := range cases {
		net := valuation.ComputeNet(d(c.qty), d(c.price), d(c.vat), d(c.disc))
		back, err := valuation.ComputeFromTotal(d(c.qty), net.Total, d(c.vat), d(c.disc))
		require.NoError(t, err)
		assert.True(t, back.UnitPrice.Sub(d(c.price)).Abs().LessThanOrEqual(d("0.01")),
			"q=%s p=%s iva=%s desc=%s → %s", c.qty, c.price, c.vat, c.disc, back.UnitPrice)
	}
}

func TestComputeFromTotal_CantidadCero(t *testing.T) {
	res, err := valuation.ComputeFromTotal(d("0"), d("242"), d("21"), d("0"))
	require.NoError(t, err)
	assert.True(t, res.UnitPrice.IsZero(), "sin cantidad el precio queda en 0")
}

func TestComputeFromTotal_Descuento100EsErrorDeValidacion(t *testing.T) {
	_, err := valuation.ComputeFromTotal(d("1"), d("100"), d("21"), d("100"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "discount_pct", verr.Field)
}

// Ida y vuelta: para cant > 0, 0 ≤ desc < 100 y cada alícuota, el precio se recupera con ±0.01.
func TestRoundTrip_NetoTotalNeto(t *testing.T) {
	qtys := []string{"1", "2", "3", "7.5", "13"}
	prices := []string{"0.01", "1", "10.03", "99.99", "100", "1234.56", "15000"}
	rates := []string{"0", "10.5", "21", "27"}
	discounts := []string{"0", "5", "12.5", "50", "90", "99", "99.5"}

	for _, q := range qtys {
		for _, p := range prices {
			for _, r := range rates {
				for _, disc := range discounts {
					net := valuation.ComputeNet(d(q), d(p), d(r), d(disc))
					back, err := valuation.ComputeFromTotal(d(q), net.Total, d(r), d(disc))
					require.NoError(t, err)
					assert.True(t, back.UnitPrice.Sub(d(p)).Abs().LessThanOrEqual(d("0.01")),
						"q=%s p=%s iva=%s desc=%s → %s", q, p, r, disc, back.UnitPrice)
				}
			}
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Recalculate / SwitchMode
// ──────────────────────────────────────────────────────────────────────────────

func TestRecalculate_CambioDeModoConservaElOtroCampo(t *testing.T) {
	item := entity.LineItem{
		Quantity:    d("2"),
		UnitPrice:   d("100"),
		VATRate:     d("21"),
		DiscountPct: d("0"),
		Mode:        entity.CalculationModeNet,
	}
	require.NoError(t, valuation.Recalculate(&item))
	assert.True(t, item.Total.Equal(d("242")))

	require.NoError(t, valuation.SwitchMode(&item, entity.CalculationModeTotal))
	assert.True(t, item.UnitPrice.Equal(d("100")), "el precio no se borra al cambiar de modo")
	assert.True(t, item.Total.Equal(d("242")))

	item.Total = d("363")
	require.NoError(t, valuation.Recalculate(&item))
	assert.True(t, item.UnitPrice.Equal(d("150")), "precio: %s", item.UnitPrice)

	item.Quantity = decimal.Zero
	require.NoError(t, valuation.Recalculate(&item))
	assert.True(t, item.UnitPrice.Equal(d("150")), "sin cantidad se conserva el último precio")
}

func TestValidateItem(t *testing.T) {
	ok := entity.LineItem{Quantity: d("1"), UnitPrice: d("10"), VATRate: d("10.5")}
	assert.NoError(t, valuation.ValidateItem(ok))

	bad := ok
	bad.VATRate = d("19")
	assert.ErrorIs(t, valuation.ValidateItem(bad), domain.ErrInvalidInput)

	bad = ok
	bad.DiscountPct = d("101")
	assert.ErrorIs(t, valuation.ValidateItem(bad), domain.ErrInvalidInput)
}
