// Package pdf implementa la representación gráfica del cierre de un período
// contable: totales del período y liquidaciones a proveedores de
// consignación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda  │  Período (inicio - cierre)               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: ventas / inversión / utilidad / transferencias    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Proveedor | Producto | Cant | CPP | A pagar | Estado│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL A PAGAR A PROVEEDORES                                │
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

	appclosing "github.com/tu-usuario/tienda-pos/internal/application/closing"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appclosing.SettlementPDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa closing.SettlementPDFGenerator usando
// Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateSettlementReport genera el PDF del cierre y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateSettlementReport(
	_ context.Context,
	store *entity.Store,
	period *entity.AccountingPeriod,
	settlements []*entity.SupplierSettlement,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cierre de período", true).
		WithAuthor(store.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(store, period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(totalsRows(period)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	total := decimal.Zero
	for _, s := range settlements {
		m.AddRows(settlementRow(s))
		total = total.Add(s.GrossAmount)
	}
	if len(settlements) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin mercancía en consignación vendida en este período.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(grandTotalRow(total))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda (izq) y ventana del período (der).
func headerRow(store *entity.Store, period *entity.AccountingPeriod) core.Row {
	desde := period.StartedAt.Format("02/01/2006")
	hasta := "—"
	if period.ClosedAt != nil {
		hasta = period.ClosedAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(store.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Cierre de período contable", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PERÍODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(desde+"  →  "+hasta, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 8,
			}),
		),
	)
}

// totalsRows: agregados del período en dos filas de tarjetas.
func totalsRows(period *entity.AccountingPeriod) []core.Row {
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
		)
	}
	return []core.Row{
		row.New(12).Add(
			cell("Ventas totales", "$"+formatMoney(period.TotalSales.StringFixed(0))),
			cell("Transferencias", "$"+formatMoney(period.TotalTransfer.StringFixed(0))),
			cell("Inversión (propia)", "$"+formatMoney(period.TotalInvestment.StringFixed(0))),
			cell("Utilidad total", "$"+formatMoney(period.TotalProfit.StringFixed(0))),
		),
		row.New(12).Add(
			cell("Ventas propias", "$"+formatMoney(period.TotalOwnSales.StringFixed(0))),
			cell("Utilidad propia", "$"+formatMoney(period.TotalOwnProfit.StringFixed(0))),
			cell("Ventas consignación", "$"+formatMoney(period.TotalConsignmentSales.StringFixed(0))),
			cell("Utilidad consignación", "$"+formatMoney(period.TotalConsignmentProfit.StringFixed(0))),
		),
	}
}

// tableHeaderRow: cabecera de la tabla de liquidaciones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Proveedor", 3, align.Left),
		h("Producto", 3, align.Left),
		h("Cant.", 1, align.Center),
		h("CPP", 2, align.Right),
		h("A pagar", 2, align.Right),
		h("Estado", 1, align.Center),
	)
}

// settlementRow: una fila por liquidación (proveedor, producto).
func settlementRow(s *entity.SupplierSettlement) core.Row {
	estado := "Pendiente"
	if s.LiquidatedAt != nil {
		estado = "Pagada"
	}
	return row.New(7).Add(
		col.New(3).Add(text.New(s.SupplierID, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(3).Add(text.New(s.ProductID, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(1).Add(text.New(s.QuantitySold.StringFixed(0), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New("$"+formatMoney(s.UnitCost.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New("$"+formatMoney(s.GrossAmount.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(1).Add(text.New(estado, props.Text{Size: 7, Align: align.Center, Top: 1, Color: colorGray})),
	)
}

// grandTotalRow: total adeudado a proveedores.
func grandTotalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL A PROVEEDORES:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(total.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
