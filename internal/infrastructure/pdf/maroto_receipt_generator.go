// Package pdf implementa la representación impresa del recibo de venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  N° Recibo + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NEGOCIO: Dirección / Tel                                   │
//	│  CLIENTE: Nombre + teléfono (si se capturó)                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Total                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: TOTAL / Pagado / Saldo (ventas a crédito)         │
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

	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa sales.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

var _ sales.ReceiptPDFGenerator = (*MarotoReceiptGenerator)(nil)

// GenerateReceiptPDF genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(
	_ context.Context,
	sale *entity.Sale,
	business *entity.Business,
	items []sales.SaleItemForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo "+sale.ReceiptNumber, true).
		WithAuthor(business.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, business))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(businessRow(business))
	if sale.CustomerName != "" {
		m.AddRows(customerRow(sale))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del negocio (izq) y N° de recibo + fecha (der).
func headerRow(sale *entity.Sale, business *entity.Business) core.Row {
	fecha := sale.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(business.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(sale.ReceiptNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// businessRow: datos de contacto del negocio.
func businessRow(business *entity.Business) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s",
				nonEmpty(business.Address, "—"),
				nonEmpty(business.Phone, "—"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// customerRow: datos del cliente si se capturaron en la venta.
func customerRow(sale *entity.Sale) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Tel: %s",
				sale.CustomerName,
				nonEmpty(sale.CustomerPhone, "—"),
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// tableItemRows: una fila por línea de venta.
func tableItemRows(items []sales.SaleItemForPDF) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		qty := fmt.Sprintf("%d", item.Quantity)
		if item.Unit != "" {
			qty += " " + item.Unit
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(qty, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(item.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(item.UnitPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(item.TotalPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. En ventas a crédito se
// muestran además lo pagado y el saldo pendiente.
func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 2,
	})
	grandValue := text.New(sale.TotalAmount.StringFixed(2), props.Text{
		Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 1,
	})

	if !sale.IsCredit {
		return row.New(12).Add(
			col.New(6),
			col.New(3).Add(grandLabel),
			col.New(3).Add(grandValue),
		)
	}

	balanceLabel := text.New("Saldo pendiente:", props.Text{
		Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorAlert, Right: 2,
	})
	balanceValue := text.New(sale.Balance.StringFixed(2), props.Text{
		Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorAlert, Right: 1,
	})

	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(grandLabel, label("Pagado:"), balanceLabel),
		col.New(3).Add(grandValue, value(sale.AmountPaid.StringFixed(2)), balanceValue),
	)
}

// footerRow: leyenda de cierre.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Gracias por su compra. Conserve este recibo como soporte.", props.Text{
			Size: 7.5, Align: align.Center, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
