package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/numbering"
)

// LineItemRequest línea de detalle. En modo "neto" manda unit_price; en modo "total" manda total.
type LineItemRequest struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description" validate:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Mode        string          `json:"mode" validate:"omitempty,oneof=neto total"`
	Total       decimal.Decimal `json:"total"`
}

// ToEntity convierte la línea al modelo de dominio.
func (r LineItemRequest) ToEntity() entity.LineItem {
	return entity.LineItem{
		ID:          r.ID,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		VATRate:     r.VATRate,
		DiscountPct: r.DiscountPct,
		Mode:        entity.CalculationMode(r.Mode),
		Total:       r.Total,
	}
}

// LineItemResponse línea valuada.
type LineItemResponse struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Mode        string          `json:"mode"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	Total       decimal.Decimal `json:"total"`
}

// LineItemFromEntity arma la respuesta de una línea.
func LineItemFromEntity(it entity.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:          it.ID,
		Description: it.Description,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		VATRate:     it.VATRate,
		DiscountPct: it.DiscountPct,
		Mode:        string(it.Mode),
		VATAmount:   it.VATAmount,
		Total:       it.Total,
	}
}

// SaveDocumentRequest body para POST /api/documents y PUT /api/documents/:id.
// Number vacío = numeración automática; con valor = número manual ("7" se completa a 00000007).
type SaveDocumentRequest struct {
	ExpectedVersion int                        `json:"expected_version,omitempty" validate:"min=0"`
	Kind            string                     `json:"kind" validate:"required,oneof=venta compra"`
	CounterpartyID  string                     `json:"counterparty_id" validate:"required"`
	Date            string                     `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Letter          string                     `json:"letter" validate:"required,len=1"`
	PointOfSale     int                        `json:"point_of_sale" validate:"required,min=1,max=9999"`
	Number          string                     `json:"number,omitempty" validate:"omitempty,numeric,max=8"`
	PaymentType     string                     `json:"payment_type" validate:"required,oneof=contado cuenta_corriente"`
	Items           []LineItemRequest          `json:"items" validate:"dive"`
	Payments        []entity.PaymentInstrument `json:"payments,omitempty"`
	Notes           string                     `json:"notes,omitempty" validate:"max=2000"`
}

// DocumentResponse documento completo.
type DocumentResponse struct {
	ID               string                     `json:"id"`
	Kind             string                     `json:"kind"`
	CounterpartyID   string                     `json:"counterparty_id"`
	CounterpartyName string                     `json:"counterparty_name"`
	Date             string                     `json:"date"`
	Letter           string                     `json:"letter"`
	PointOfSale      int                        `json:"point_of_sale"`
	Sequence         int64                      `json:"sequence"`
	Number           string                     `json:"number"`
	PaymentType      string                     `json:"payment_type"`
	Items            []LineItemResponse         `json:"items"`
	Payments         []entity.PaymentInstrument `json:"payments"`
	NetTotal         decimal.Decimal            `json:"net_total"`
	VATTotal         decimal.Decimal            `json:"vat_total"`
	Total            decimal.Decimal            `json:"total"`
	Balance          decimal.Decimal            `json:"balance"`
	Status           string                     `json:"status"`
	Notes            string                     `json:"notes,omitempty"`
	Version          int                        `json:"version"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// DocumentFromEntity arma la respuesta de un documento.
func DocumentFromEntity(d *entity.Document) DocumentResponse {
	items := make([]LineItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, LineItemFromEntity(it))
	}
	payments := d.Payments
	if payments == nil {
		payments = []entity.PaymentInstrument{}
	}
	return DocumentResponse{
		ID:               d.ID,
		Kind:             string(d.Kind),
		CounterpartyID:   d.CounterpartyID,
		CounterpartyName: d.CounterpartyName,
		Date:             d.Date.Format("2006-01-02"),
		Letter:           d.Number.Letter,
		PointOfSale:      d.Number.PointOfSale,
		Sequence:         d.Number.Sequence,
		Number:           numbering.FormatNumber(d.Number),
		PaymentType:      string(d.PaymentType),
		Items:            items,
		Payments:         payments,
		NetTotal:         d.NetTotal,
		VATTotal:         d.VATTotal,
		Total:            d.Total,
		Balance:          d.Balance,
		Status:           string(d.Status),
		Notes:            d.Notes,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// DocumentListResponse página de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NextNumberResponse vista previa de numeración.
type NextNumberResponse struct {
	Letter      string `json:"letter"`
	PointOfSale int    `json:"point_of_sale"`
	Sequence    int64  `json:"sequence"`
	Number      string `json:"number"`
}

// ApplySettlementRequest body para POST /api/documents/:id/settlements.
type ApplySettlementRequest struct {
	ExpectedVersion   int                      `json:"expected_version,omitempty" validate:"min=0"`
	Instrument        entity.PaymentInstrument `json:"instrument"`
	TreasuryAccountID string                   `json:"treasury_account_id,omitempty"`
	Date              string                   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes             string                   `json:"notes,omitempty" validate:"max=2000"`
}

// SettlementResponse cobro/pago registrado.
type SettlementResponse struct {
	ID                string                   `json:"id"`
	Kind              string                   `json:"kind"`
	DocumentID        string                   `json:"document_id"`
	Instrument        entity.PaymentInstrument `json:"instrument"`
	TreasuryAccountID string                   `json:"treasury_account_id"`
	MovementID        string                   `json:"movement_id"`
	Date              string                   `json:"date"`
	Notes             string                   `json:"notes,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
}

// SettlementFromEntity arma la respuesta de un cobro/pago.
func SettlementFromEntity(s *entity.Settlement) SettlementResponse {
	return SettlementResponse{
		ID:                s.ID,
		Kind:              string(s.Kind),
		DocumentID:        s.DocumentID,
		Instrument:        s.Instrument,
		TreasuryAccountID: s.TreasuryAccountID,
		MovementID:        s.MovementID,
		Date:              s.Date.Format("2006-01-02"),
		Notes:             s.Notes,
		CreatedAt:         s.CreatedAt,
	}
}

// ApplySettlementResponse cobro/pago y el documento con su nuevo saldo.
type ApplySettlementResponse struct {
	Settlement SettlementResponse `json:"settlement"`
	Document   DocumentResponse   `json:"document"`
}
