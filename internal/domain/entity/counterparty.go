package entity

import "time"

// CounterpartyKind cliente o proveedor.
type CounterpartyKind string

const (
	CounterpartyKindCustomer CounterpartyKind = "cliente"
	CounterpartyKindSupplier CounterpartyKind = "proveedor"
)

// Counterparty tercero de un documento comercial (cliente del taller o proveedor).
type Counterparty struct {
	ID        string
	Kind      CounterpartyKind
	Name      string
	TaxID     string // CUIT/CUIL/DNI
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
