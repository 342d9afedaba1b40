package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrAmountMismatch    = errors.New("los pagos no coinciden con el total")
	ErrOverPayment       = errors.New("el importe supera el saldo")
	ErrInvalidAccount    = errors.New("cuenta de tesorería inválida")
	ErrInvalidAmount     = errors.New("importe inválido")
	ErrNotYetDue         = errors.New("el cheque aún no venció")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrCascadeBlocked    = errors.New("existen registros dependientes")
)

// ValidationError entrada mal formada; el usuario puede corregirla y reintentar.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un *ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AmountMismatchError la suma de los medios de pago de un documento de contado difiere del total.
type AmountMismatchError struct {
	Total decimal.Decimal
	Paid  decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("total %s, pagado %s: %s", e.Total.StringFixed(2), e.Paid.StringFixed(2), ErrAmountMismatch)
}

func (e *AmountMismatchError) Unwrap() error { return ErrAmountMismatch }

// OverPaymentError el cobro/pago deja el saldo por debajo de cero.
type OverPaymentError struct {
	Balance decimal.Decimal
	Amount  decimal.Decimal
}

func (e *OverPaymentError) Error() string {
	return fmt.Sprintf("saldo %s, importe %s: %s", e.Balance.StringFixed(2), e.Amount.StringFixed(2), ErrOverPayment)
}

func (e *OverPaymentError) Unwrap() error { return ErrOverPayment }

// NotYetDueError intento de mover un cheque fuera de cartera antes del vencimiento.
type NotYetDueError struct {
	CheckID      string
	DaysUntilDue int
}

func (e *NotYetDueError) Error() string {
	return fmt.Sprintf("cheque %s vence en %d días: %s", e.CheckID, e.DaysUntilDue, ErrNotYetDue)
}

func (e *NotYetDueError) Unwrap() error { return ErrNotYetDue }

// ConflictError escritura concurrente detectada; el llamador debe reintentar con estado fresco.
type ConflictError struct {
	Entity string
	ID     string
}

func (e *ConflictError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Entity, ErrConflict)
	}
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, ErrConflict)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Dependent registro que impide una baja.
type Dependent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// CascadeBlockedError baja bloqueada; enumera los dependientes.
type CascadeBlockedError struct {
	Entity     string
	ID         string
	Dependents []Dependent
}

func (e *CascadeBlockedError) Error() string {
	parts := make([]string, 0, len(e.Dependents))
	for _, d := range e.Dependents {
		parts = append(parts, d.Type+":"+d.ID)
	}
	return fmt.Sprintf("%s %s: %s (%s)", e.Entity, e.ID, ErrCascadeBlocked, strings.Join(parts, ", "))
}

func (e *CascadeBlockedError) Unwrap() error { return ErrCascadeBlocked }
