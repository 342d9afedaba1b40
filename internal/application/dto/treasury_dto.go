package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/ledger"
)

// CreateAccountRequest body para POST /api/treasury/accounts.
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,max=120"`
	Type           string          `json:"type" validate:"required,oneof=efectivo bancaria"`
	PaymentMethod  string          `json:"payment_method,omitempty" validate:"omitempty,oneof=efectivo transferencia tarjeta_credito tarjeta_debito cheque dolares"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// AccountResponse cuenta de tesorería.
type AccountResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AccountFromEntity arma la respuesta de una cuenta.
func AccountFromEntity(a *entity.TreasuryAccount) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		Type:          string(a.Type),
		PaymentMethod: string(a.PaymentMethod),
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
	}
}

// CreateMovementRequest body para POST /api/treasury/movements (movimiento manual).
type CreateMovementRequest struct {
	Type                 string          `json:"type" validate:"required,oneof=ingreso egreso transferencia"`
	Amount               decimal.Decimal `json:"amount"`
	OriginAccountID      string          `json:"origin_account_id" validate:"required"`
	DestinationAccountID string          `json:"destination_account_id,omitempty" validate:"required_if=Type transferencia"`
	Concept              string          `json:"concept" validate:"max=500"`
	Date                 string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// MovementResponse movimiento del libro.
type MovementResponse struct {
	ID                   string          `json:"id"`
	Seq                  int64           `json:"seq"`
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	OriginAccountID      string          `json:"origin_account_id"`
	DestinationAccountID string          `json:"destination_account_id,omitempty"`
	Concept              string          `json:"concept"`
	RelatedDocumentID    string          `json:"related_document_id,omitempty"`
	RelatedDocumentType  string          `json:"related_document_type,omitempty"`
	IsManual             bool            `json:"is_manual"`
	Date                 string          `json:"date"`
}

// MovementFromEntity arma la respuesta de un movimiento.
func MovementFromEntity(m *entity.CashMovement) MovementResponse {
	return MovementResponse{
		ID:                   m.ID,
		Seq:                  m.Seq,
		Type:                 string(m.Type),
		Amount:               m.Amount,
		OriginAccountID:      m.OriginAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Concept:              m.Concept,
		RelatedDocumentID:    m.RelatedDocumentID,
		RelatedDocumentType:  m.RelatedDocumentType,
		IsManual:             m.IsManual,
		Date:                 m.Date.Format("2006-01-02"),
	}
}

// StatementLineResponse renglón del extracto.
type StatementLineResponse struct {
	MovementID string          `json:"movement_id"`
	Seq        int64           `json:"seq"`
	Date       string          `json:"date"`
	Type       string          `json:"type"`
	Concept    string          `json:"concept"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
}

// StatementResponse extracto de una cuenta.
type StatementResponse struct {
	Account AccountResponse         `json:"account"`
	Lines   []StatementLineResponse `json:"lines"`
}

// StatementFromLedger arma la respuesta del extracto.
func StatementFromLedger(acc *entity.TreasuryAccount, lines []ledger.Line) StatementResponse {
	out := StatementResponse{Account: AccountFromEntity(acc), Lines: make([]StatementLineResponse, 0, len(lines))}
	for _, l := range lines {
		out.Lines = append(out.Lines, StatementLineResponse{
			MovementID: l.MovementID,
			Seq:        l.Seq,
			Date:       l.Date.Format("2006-01-02"),
			Type:       string(l.Type),
			Concept:    l.Concept,
			Amount:     l.Amount,
			Balance:    l.Balance,
		})
	}
	return out
}

// AuditResponse resultado de reconstruir el saldo desde el libro.
type AuditResponse struct {
	AccountID  string          `json:"account_id"`
	Stored     decimal.Decimal `json:"stored_balance"`
	Replayed   decimal.Decimal `json:"replayed_balance"`
	Consistent bool            `json:"consistent"`
}

// AuditFromLedger arma la respuesta de auditoría.
func AuditFromLedger(r ledger.AuditResult) AuditResponse {
	return AuditResponse{AccountID: r.AccountID, Stored: r.Stored, Replayed: r.Replayed, Consistent: r.Consistent()}
}
