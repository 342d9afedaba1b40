// Package reporting genera la representación imprimible de un documento comercial.
package reporting

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/numbering"
)

// DocumentPDFGenerator puerto de salida: arma el PDF con la cabecera, líneas, medios de pago
// y los cobros/pagos aplicados.
type DocumentPDFGenerator interface {
	GenerateDocumentPDF(ctx context.Context, doc *entity.Document, settlements []*entity.Settlement) ([]byte, error)
}

// UseCase comprobantes imprimibles.
type UseCase struct {
	tx        ports.TxRunner
	generator DocumentPDFGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, generator DocumentPDFGenerator) *UseCase {
	return &UseCase{tx: tx, generator: generator}
}

// DocumentPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrNotFound si el documento no existe.
func (uc *UseCase) DocumentPDF(ctx context.Context, id string) ([]byte, string, error) {
	repos := uc.tx.Repos()
	doc, err := repos.Documents.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener documento: %w", err)
	}
	if doc == nil {
		return nil, "", domain.ErrNotFound
	}
	settlements, err := repos.Settlements.ListByDocument(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cobros/pagos: %w", err)
	}

	pdfBytes, err := uc.generator.GenerateDocumentPDF(ctx, doc, settlements)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename := fmt.Sprintf("%s_%s.pdf", doc.Kind, strings.ReplaceAll(numbering.FormatNumber(doc.Number), " ", "_"))
	return pdfBytes, filename, nil
}
