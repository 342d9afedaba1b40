package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain/checks"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// CheckResponse cheque con días al vencimiento.
type CheckResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Number         string          `json:"number"`
	Bank           string          `json:"bank"`
	Amount         decimal.Decimal `json:"amount"`
	IssueDate      string          `json:"issue_date,omitempty"`
	DueDate        string          `json:"due_date"`
	DaysUntilDue   int             `json:"days_until_due"`
	HolderName     string          `json:"holder_name"`
	ThirdParty     bool            `json:"third_party"`
	ThirdPartyName string          `json:"third_party_name,omitempty"`
	Status         string          `json:"status"`
	DocumentID     string          `json:"document_id"`
	PaymentID      string          `json:"payment_id,omitempty"`
}

// CheckFromEntity arma la respuesta de un cheque a la fecha now.
func CheckFromEntity(c *entity.Check, now time.Time) CheckResponse {
	out := CheckResponse{
		ID:             c.ID,
		Type:           string(c.Type),
		Number:         c.Number,
		Bank:           c.Bank,
		Amount:         c.Amount,
		DueDate:        c.DueDate.Format("2006-01-02"),
		DaysUntilDue:   checks.DaysUntilDue(c.DueDate, now),
		HolderName:     c.HolderName,
		ThirdParty:     c.ThirdParty,
		ThirdPartyName: c.ThirdPartyName,
		Status:         string(c.Status),
		DocumentID:     c.DocumentID,
		PaymentID:      c.PaymentID,
	}
	if !c.IssueDate.IsZero() {
		out.IssueDate = c.IssueDate.Format("2006-01-02")
	}
	return out
}

// CheckListResponse cheques y total de la selección.
type CheckListResponse struct {
	Items []CheckResponse `json:"items"`
	Total decimal.Decimal `json:"total"`
	Page  PageResponse    `json:"page"`
}

// TransitionCheckRequest body para POST /api/checks/:id/transition.
type TransitionCheckRequest struct {
	Status string `json:"status" validate:"required,oneof=en_cartera depositado cobrado devuelto"`
}

// CheckListFromEntities arma el listado con la suma de importes de la página.
func CheckListFromEntities(list []*entity.Check, now time.Time, page PageResponse) CheckListResponse {
	items := make([]CheckResponse, 0, len(list))
	plain := make([]entity.Check, 0, len(list))
	for _, c := range list {
		items = append(items, CheckFromEntity(c, now))
		plain = append(plain, *c)
	}
	return CheckListResponse{Items: items, Total: checks.Total(plain), Page: page}
}
