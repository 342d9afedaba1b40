// Package numbering asigna y formatea la numeración de comprobantes: letra, punto de venta y secuencia.
package numbering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

const (
	// MaxSequence mayor secuencia representable con 8 dígitos.
	MaxSequence int64 = 99_999_999
	// MaxPointOfSale mayor punto de venta representable con 4 dígitos.
	MaxPointOfSale = 9999
)

// Next siguiente número: uno más que el mayor entre la marca de agua guardada y el mayor existente.
// Nunca reutiliza un número aunque se haya borrado el último documento.
func Next(highWater, maxExisting int64) (int64, error) {
	n := highWater
	if maxExisting > n {
		n = maxExisting
	}
	if n >= MaxSequence {
		return 0, domain.NewValidationError("number", "se agotó la numeración del punto de venta")
	}
	return n + 1, nil
}

// ValidateManual controla un número ingresado a mano.
func ValidateManual(n int64) error {
	if n <= 0 {
		return domain.NewValidationError("number", "el número no puede ser cero")
	}
	if n > MaxSequence {
		return domain.NewValidationError("number", "el número admite hasta 8 dígitos")
	}
	return nil
}

// ValidateHeader controla letra y punto de venta.
func ValidateHeader(letter string, pointOfSale int) error {
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return domain.NewValidationError("letter", "la letra debe ser una mayúscula (A, B, C…)")
	}
	if pointOfSale < 1 || pointOfSale > MaxPointOfSale {
		return domain.NewValidationError("point_of_sale", "el punto de venta va de 1 a 9999")
	}
	return nil
}

// Pad número con 8 dígitos y ceros a la izquierda.
func Pad(n int64) string {
	return fmt.Sprintf("%08d", n)
}

// ParseManual interpreta lo tipeado en el campo número y lo devuelve ya completado con ceros ("7" → "00000007").
func ParseManual(raw string) (int64, string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, "", domain.NewValidationError("number", "número requerido")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, "", domain.NewValidationError("number", "el número debe ser numérico")
	}
	if err := ValidateManual(n); err != nil {
		return 0, "", err
	}
	return n, Pad(n), nil
}

// Format representación impresa: {letra}-{pv:04d}-{secuencia:08d}, por ejemplo A-0001-00000007.
func Format(letter string, pointOfSale int, sequence int64) string {
	return fmt.Sprintf("%s-%04d-%08d", letter, pointOfSale, sequence)
}

// FormatNumber atajo de Format para un entity.DocumentNumber.
func FormatNumber(n entity.DocumentNumber) string {
	return Format(n.Letter, n.PointOfSale, n.Sequence)
}

// Parse inversa de Format.
func Parse(s string) (entity.DocumentNumber, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[1]) != 4 || len(parts[2]) != 8 {
		return entity.DocumentNumber{}, domain.NewValidationError("number", "formato esperado L-PPPP-NNNNNNNN")
	}
	pos, err := strconv.Atoi(parts[1])
	if err != nil {
		return entity.DocumentNumber{}, domain.NewValidationError("number", "punto de venta inválido")
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return entity.DocumentNumber{}, domain.NewValidationError("number", "secuencia inválida")
	}
	n := entity.DocumentNumber{Letter: parts[0], PointOfSale: pos, Sequence: seq}
	if err := ValidateHeader(n.Letter, n.PointOfSale); err != nil {
		return entity.DocumentNumber{}, err
	}
	if err := ValidateManual(n.Sequence); err != nil {
		return entity.DocumentNumber{}, err
	}
	return n, nil
}
