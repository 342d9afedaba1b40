// Package pdf arma el comprobante imprimible de una venta o compra con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Taller + tipo de comprobante │ Número + Fecha      │
//	│  TERCERO: Cliente / Proveedor + CUIT                        │
//	│  TABLA: Cant | Descripción | P.Unit | IVA% | Desc% | Total  │
//	│  TOTALES: Neto / IVA / TOTAL / Saldo                        │
//	│  MEDIOS DE PAGO y COBROS/PAGOS aplicados                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/taller-api/internal/application/reporting"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/numbering"
)

var _ reporting.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var printer = message.NewPrinter(language.MustParse("es-AR"))

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reporting.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	shopName string
}

// NewMarotoPDFGenerator construye el generador. shopName encabeza cada comprobante.
func NewMarotoPDFGenerator(shopName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{shopName: shopName}
}

// GenerateDocumentPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDocumentPDF(
	_ context.Context,
	doc *entity.Document,
	settlements []*entity.Settlement,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(doc.Kind)+" "+numbering.FormatNumber(doc.Number), true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.shopName, doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(counterpartyRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(doc.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	if len(doc.Payments) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("MEDIOS DE PAGO"))
		for _, p := range doc.Payments {
			m.AddRows(paymentRow(p))
		}
	}
	if len(settlements) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle(settlementsTitle(doc.Kind)))
		for _, s := range settlements {
			m.AddRows(settlementRow(s))
		}
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func title(kind entity.DocumentKind) string {
	if kind == entity.DocumentKindPurchase {
		return "COMPRA"
	}
	return "VENTA"
}

func settlementsTitle(kind entity.DocumentKind) string {
	if kind == entity.DocumentKindPurchase {
		return "PAGOS APLICADOS"
	}
	return "COBROS APLICADOS"
}

// headerRow: taller (izq) y número + fecha (der).
func headerRow(shopName string, doc *entity.Document) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Condición: "+paymentTypeLabel(doc.PaymentType), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title(doc.Kind)+" "+doc.Number.Letter, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(numbering.FormatNumber(doc.Number), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+doc.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func counterpartyRow(doc *entity.Document) core.Row {
	label := "CLIENTE"
	if doc.Kind == entity.DocumentKindPurchase {
		label = "PROVEEDOR"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.CounterpartyName, doc.CounterpartyID), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Desc%", 1, align.Center),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea.
func tableDetailRows(items []entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(quantity(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(rate(it.VATRate), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(rate(it.DiscountPct), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money(it.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(doc *entity.Document) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1})
	}

	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Neto:"),
			label("IVA:"),
			label("TOTAL:"),
			label("Saldo:"),
		),
		col.New(3).Add(
			value(money(doc.NetTotal)),
			value(money(doc.VATTotal)),
			grand(money(doc.Total)),
			value(money(doc.Balance)),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func paymentRow(p entity.PaymentInstrument) core.Row {
	return row.New(5).Add(
		col.New(8).Add(text.New(instrumentLabel(p), props.Text{Size: 8, Top: 1, Left: 2})),
		col.New(4).Add(text.New(money(p.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func settlementRow(s *entity.Settlement) core.Row {
	label := s.Date.Format("02/01/2006") + "  " + instrumentLabel(s.Instrument)
	if s.Notes != "" {
		label += " (" + s.Notes + ")"
	}
	return row.New(5).Add(
		col.New(8).Add(text.New(label, props.Text{Size: 8, Top: 1, Left: 2})),
		col.New(4).Add(text.New(money(s.Instrument.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func instrumentLabel(p entity.PaymentInstrument) string {
	switch p.Method {
	case entity.PaymentMethodCheck:
		if c, ok := p.CheckDetails(); ok {
			return fmt.Sprintf("Cheque N° %s %s vto. %s", c.Number, c.Bank, c.DueDate.Format("02/01/2006"))
		}
	case entity.PaymentMethodTransfer:
		if t, ok := p.TransferDetails(); ok && t.Bank != "" {
			return "Transferencia " + t.Bank
		}
	case entity.PaymentMethodDollars:
		if u, ok := p.DollarDetails(); ok {
			return fmt.Sprintf("Dólares US$ %s a %s", money(u.QuantityUSD), money(u.ExchangeRate))
		}
	}
	return methodLabel(p.Method)
}

func methodLabel(m entity.PaymentMethod) string {
	switch m {
	case entity.PaymentMethodCash:
		return "Efectivo"
	case entity.PaymentMethodTransfer:
		return "Transferencia"
	case entity.PaymentMethodCreditCard:
		return "Tarjeta de crédito"
	case entity.PaymentMethodDebitCard:
		return "Tarjeta de débito"
	case entity.PaymentMethodCheck:
		return "Cheque"
	case entity.PaymentMethodDollars:
		return "Dólares"
	}
	return string(m)
}

func paymentTypeLabel(pt entity.PaymentType) string {
	if pt == entity.PaymentTypeAccount {
		return "Cuenta corriente"
	}
	return "Contado"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formato local con dos decimales: 1234567.8 → "$ 1.234.567,80".
func money(v decimal.Decimal) string {
	return "$ " + printer.Sprint(number.Decimal(v.Round(2).InexactFloat64(), number.Scale(2)))
}

func quantity(v decimal.Decimal) string {
	if v.Equal(v.Truncate(0)) {
		return v.StringFixed(0)
	}
	return printer.Sprint(number.Decimal(v.InexactFloat64(), number.MaxFractionDigits(3)))
}

func rate(v decimal.Decimal) string {
	return printer.Sprint(number.Decimal(v.InexactFloat64(), number.MaxFractionDigits(2)))
}
