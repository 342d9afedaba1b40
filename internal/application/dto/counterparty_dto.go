package dto

import "time"

// CreateCounterpartyRequest body para POST /api/counterparties.
type CreateCounterpartyRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=cliente proveedor"`
	Name  string `json:"name" validate:"required,max=200"`
	TaxID string `json:"tax_id,omitempty" validate:"omitempty,max=20"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=40"`
}

// CounterpartyResponse cliente/proveedor en respuestas.
type CounterpartyResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
