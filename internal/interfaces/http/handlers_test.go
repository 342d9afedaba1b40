package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/checks"
	"github.com/jhoicas/taller-api/internal/application/counterparties"
	"github.com/jhoicas/taller-api/internal/application/documents"
	"github.com/jhoicas/taller-api/internal/application/reporting"
	"github.com/jhoicas/taller-api/internal/application/settlements"
	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/idempotency"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var today = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type apiFixture struct {
	t          *testing.T
	app        *fiber.App
	auth       string
	ledger     *treasury.LedgerUseCase
	caja       *entity.TreasuryAccount
	valores    *entity.TreasuryAccount
	customerID string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := func() time.Time { return today }
	log := logger.Nop()

	ledger := treasury.NewLedgerUseCase(store, now, log)
	docs := documents.NewUseCase(store, ledger, now, log)

	app := apphttp.NewApp("taller-api-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:        "taller-api-test",
		Documents:      docs,
		Settlements:    settlements.NewUseCase(store, ledger, now, log),
		Checks:         checks.NewUseCase(store, now, log),
		Treasury:       ledger,
		Counterparties: counterparties.NewUseCase(store),
		Reporting:      reporting.NewUseCase(store, pdf.NewMarotoPDFGenerator("Taller Test")),
		Idempotency:    idempotency.NewMemoryStore(now),
		IdempotencyTTL: time.Hour,
		JWTSecret:      testJWTSecret,
		JWTIssuer:      testIssuer,
		Log:            log,
	})

	f := &apiFixture{t: t, app: app, auth: bearer(t), ledger: ledger}
	var err error
	f.caja, err = ledger.CreateAccount(ctx, treasury.AccountInput{Name: "Caja", Type: entity.AccountTypeCash, PaymentMethod: entity.PaymentMethodCash})
	require.NoError(t, err)
	f.valores, err = ledger.CreateAccount(ctx, treasury.AccountInput{Name: "Valores", Type: entity.AccountTypeBank, PaymentMethod: entity.PaymentMethodCheck})
	require.NoError(t, err)

	resp, body := f.do(http.MethodPost, "/api/counterparties", map[string]any{
		"kind": "cliente", "name": "Juan Pérez", "tax_id": "20-11111111-1",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	f.customerID = decode(t, body)["id"].(string)
	return f
}

// do ejecuta la request con token y devuelve la respuesta y el body leído.
func (f *apiFixture) do(method, path string, payload any, headers map[string]string) (*http.Response, []byte) {
	f.t.Helper()
	var rd io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(f.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", f.auth)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(f.t, err)
	return resp, body
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func (f *apiFixture) balance(acc *entity.TreasuryAccount) decimal.Decimal {
	f.t.Helper()
	got, err := f.ledger.GetAccount(context.Background(), acc.ID)
	require.NoError(f.t, err)
	return got.Balance
}

func (f *apiFixture) sale(paymentType string, payments ...map[string]any) map[string]any {
	return map[string]any{
		"kind":            "venta",
		"counterparty_id": f.customerID,
		"date":            "2026-03-10",
		"letter":          "b",
		"point_of_sale":   1,
		"payment_type":    paymentType,
		"items": []map[string]any{
			{"description": "Servicio", "quantity": "1", "unit_price": "1000", "vat_rate": "0", "mode": "neto"},
		},
		"payments": payments,
	}
}

func cheque(amount, number string) map[string]any {
	return map[string]any{
		"method": "cheque",
		"amount": amount,
		"cheque": map[string]any{
			"number":     number,
			"bank":       "Banco Nación",
			"issue_date": today.Format(time.RFC3339),
			"due_date":   today.AddDate(0, 0, 30).Format(time.RFC3339),
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Salud y autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_SinToken(t *testing.T) {
	f := newAPI(t)
	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_RequiereToken(t *testing.T) {
	f := newAPI(t)
	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/documents", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestDocuments_VentaContadoEfectivoYCheque(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(http.MethodPost, "/api/documents",
		f.sale("contado", map[string]any{"method": "efectivo", "amount": "600"}, cheque("400", "123")), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	doc := decode(t, body)
	assert.Equal(t, "B-0001-00000001", doc["number"])
	assert.Equal(t, "pagado", doc["status"])
	assert.Equal(t, float64(1), doc["version"])
	assert.True(t, f.balance(f.caja).Equal(decimal.NewFromInt(600)))
	assert.True(t, f.balance(f.valores).Equal(decimal.NewFromInt(400)))

	resp, body = f.do(http.MethodGet, "/api/checks?status=en_cartera", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	list := decode(t, body)
	items := list["items"].([]any)
	require.Len(t, items, 1)
	chk := items[0].(map[string]any)
	assert.Equal(t, "123", chk["number"])
	assert.Equal(t, float64(30), chk["days_until_due"])
	assert.Equal(t, "400", list["total"])

	// salir de cartera antes del vencimiento
	resp, body = f.do(http.MethodPost, "/api/checks/"+chk["id"].(string)+"/transition", map[string]any{"status": "depositado"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errBody := decode(t, body)
	assert.Equal(t, "NOT_YET_DUE", errBody["code"])
	assert.Equal(t, float64(30), errBody["details"].(map[string]any)["days_until_due"])

	resp, body = f.do(http.MethodGet, "/api/documents/next-number?kind=venta&letter=B&point_of_sale=1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "B-0001-00000002", decode(t, body)["number"])
}

func TestDocuments_PagosNoCoincidenConTotal(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(http.MethodPost, "/api/documents",
		f.sale("contado", map[string]any{"method": "efectivo", "amount": "900"}), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errBody := decode(t, body)
	assert.Equal(t, "AMOUNT_MISMATCH", errBody["code"])
	details := errBody["details"].(map[string]any)
	assert.Equal(t, "1000", details["total"])
	assert.Equal(t, "900", details["paid"])
	assert.True(t, f.balance(f.caja).IsZero(), "nada se persiste")
}

func TestDocuments_ValidacionDeEntrada(t *testing.T) {
	f := newAPI(t)

	bad := f.sale("contado")
	bad["kind"] = "remito"
	resp, body := f.do(http.MethodPost, "/api/documents", bad, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode(t, body)
	assert.Equal(t, "VALIDATION", errBody["code"])
	assert.Equal(t, "kind", errBody["details"].(map[string]any)["field"])

	bad = f.sale("cuenta_corriente")
	bad["items"] = []map[string]any{{"quantity": "1", "unit_price": "10", "vat_rate": "19", "mode": "neto"}}
	resp, body = f.do(http.MethodPost, "/api/documents", bad, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "items[0].vat_rate", decode(t, body)["details"].(map[string]any)["field"])
}

func TestDocuments_EdicionConVersionVencida(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(http.MethodPost, "/api/documents", f.sale("cuenta_corriente"), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	id := decode(t, body)["id"].(string)

	edit := f.sale("cuenta_corriente")
	resp, _ = f.do(http.MethodPut, "/api/documents/"+id, edit, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected_version es obligatorio")

	edit["expected_version"] = 1
	edit["notes"] = "primera"
	resp, body = f.do(http.MethodPut, "/api/documents/"+id, edit, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, float64(2), decode(t, body)["version"])

	edit["notes"] = "segunda"
	resp, body = f.do(http.MethodPut, "/api/documents/"+id, edit, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode(t, body)["code"])
}

func TestDocuments_NoEncontradoYPDF(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(http.MethodGet, "/api/documents/no-existe", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode(t, body)["code"])

	resp, body = f.do(http.MethodPost, "/api/documents", f.sale("cuenta_corriente"), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	id := decode(t, body)["id"].(string)

	resp, body = f.do(http.MethodGet, "/api/documents/"+id+"/pdf", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "venta_B-0001-00000001.pdf")
	assert.Equal(t, "%PDF", string(body[:4]))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cobros / pagos e idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestSettlements_IdempotencyKeyNoDuplicaElCobro(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(http.MethodPost, "/api/documents", f.sale("cuenta_corriente"), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	id := decode(t, body)["id"].(string)

	payload := map[string]any{"instrument": map[string]any{"method": "efectivo", "amount": "300"}}
	key := map[string]string{apphttp.HeaderIdempotencyKey: "cobro-1"}

	resp, body = f.do(http.MethodPost, "/api/documents/"+id+"/settlements", payload, key)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	out := decode(t, body)
	assert.Equal(t, "700", out["document"].(map[string]any)["balance"])

	resp, body = f.do(http.MethodPost, "/api/documents/"+id+"/settlements", payload, key)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_REQUEST", decode(t, body)["code"])
	assert.True(t, f.balance(f.caja).Equal(decimal.NewFromInt(300)), "un solo movimiento")

	// cobro que excede el saldo: falla y libera la clave
	over := map[string]any{"instrument": map[string]any{"method": "efectivo", "amount": "800"}}
	overKey := map[string]string{apphttp.HeaderIdempotencyKey: "cobro-2"}
	resp, body = f.do(http.MethodPost, "/api/documents/"+id+"/settlements", over, overKey)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "OVERPAYMENT", decode(t, body)["code"])

	over["instrument"] = map[string]any{"method": "efectivo", "amount": "700"}
	resp, body = f.do(http.MethodPost, "/api/documents/"+id+"/settlements", over, overKey)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "pagado", decode(t, body)["document"].(map[string]any)["status"])

	resp, body = f.do(http.MethodGet, "/api/documents/"+id+"/settlements", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 2)
}

func TestSettlements_DocumentoConCobrosNoSeBorra(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(http.MethodPost, "/api/documents", f.sale("cuenta_corriente"), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	id := decode(t, body)["id"].(string)

	resp, body = f.do(http.MethodPost, "/api/documents/"+id+"/settlements",
		map[string]any{"instrument": map[string]any{"method": "efectivo", "amount": "100"}}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	settlementID := decode(t, body)["settlement"].(map[string]any)["id"].(string)

	resp, body = f.do(http.MethodDelete, "/api/documents/"+id, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode(t, body)
	assert.Equal(t, "CASCADE_BLOCKED", errBody["code"])
	deps := errBody["details"].(map[string]any)["dependents"].([]any)
	assert.Len(t, deps, 1)

	resp, _ = f.do(http.MethodDelete, "/api/settlements/"+settlementID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = f.do(http.MethodDelete, "/api/documents/"+id, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, f.balance(f.caja).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tesorería
// ──────────────────────────────────────────────────────────────────────────────

func TestTreasury_MovimientoManualExtractoYAuditoria(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(http.MethodPost, "/api/treasury/movements", map[string]any{
		"type": "transferencia", "amount": "50", "origin_account_id": f.caja.ID,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "transferencia sin destino")
	assert.Equal(t, "destination_account_id", decode(t, body)["details"].(map[string]any)["field"])

	resp, body = f.do(http.MethodPost, "/api/treasury/movements", map[string]any{
		"type": "ingreso", "amount": "250", "origin_account_id": f.caja.ID, "concept": "aporte",
	}, map[string]string{apphttp.HeaderIdempotencyKey: "mov-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	movementID := decode(t, body)["id"].(string)

	resp, body = f.do(http.MethodGet, "/api/treasury/accounts/"+f.caja.ID+"/statement", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lines := decode(t, body)["lines"].([]any)
	require.Len(t, lines, 1)
	assert.Equal(t, "250", lines[0].(map[string]any)["balance"])

	resp, body = f.do(http.MethodGet, "/api/treasury/accounts/"+f.caja.ID+"/audit", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, body)["consistent"])

	resp, body = f.do(http.MethodDelete, "/api/treasury/accounts/"+f.caja.ID, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CASCADE_BLOCKED", decode(t, body)["code"])

	resp, _ = f.do(http.MethodDelete, "/api/treasury/movements/"+movementID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, f.balance(f.caja).IsZero())
}

func TestValuation_PreviewLinea(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(http.MethodPost, "/api/valuation/line", map[string]any{
		"quantity": "2", "total": "242", "vat_rate": "21", "mode": "total",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	out := decode(t, body)
	assert.Equal(t, "100", out["unit_price"])
	assert.Equal(t, "42", out["vat_amount"])
}

func TestCounterparties_DuplicadoYBajaBloqueada(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(http.MethodPost, "/api/counterparties", map[string]any{
		"kind": "cliente", "name": "Otro", "tax_id": "20-11111111-1",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode(t, body)["code"])

	resp, body = f.do(http.MethodPost, "/api/documents", f.sale("cuenta_corriente"), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.do(http.MethodDelete, "/api/counterparties/"+f.customerID, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CASCADE_BLOCKED", decode(t, body)["code"])
}
