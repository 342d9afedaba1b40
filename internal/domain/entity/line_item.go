package entity

import "github.com/shopspring/decimal"

// CalculationMode variable independiente de la línea.
type CalculationMode string

const (
	// CalculationModeNet el precio unitario es el dato; el total se deriva.
	CalculationModeNet CalculationMode = "neto"
	// CalculationModeTotal el total es el dato; el precio unitario se deriva.
	CalculationModeTotal CalculationMode = "total"
)

// LineItem línea de detalle de un documento.
// UnitPrice y Total se guardan siempre; Mode indica cuál fue ingresado.
type LineItem struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal // porcentaje: 0, 10.5, 21 o 27
	DiscountPct decimal.Decimal // 0..100
	Mode        CalculationMode
	VATAmount   decimal.Decimal
	Total       decimal.Decimal
}
