// Package pdf implementa la hoja de orden de producción imprimible: el
// documento que viaja con la orden por la planta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: N° Orden + Estado  │  Producto + Cantidad           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Prioridad / Fecha límite / Costos                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MATERIALES: SKU | Componente | Por unidad | Total | Unidad  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PASOS: Seq | Paso | Centro | Estado | Horas                 │
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

	"github.com/flowforge/flowforge-api/internal/application/orders"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSheetGenerator implementa orders.SheetGenerator usando Maroto v2.
type MarotoSheetGenerator struct{}

// NewMarotoSheetGenerator construye el generador.
func NewMarotoSheetGenerator() *MarotoSheetGenerator { return &MarotoSheetGenerator{} }

// GenerateOrderSheet genera el PDF y devuelve sus bytes.
func (g *MarotoSheetGenerator) GenerateOrderSheet(_ context.Context, data orders.SheetData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de Orden "+data.Order.OrderNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("MATERIALES"))
	m.AddRows(materialsHeaderRow())
	for _, l := range data.Lines {
		m.AddRows(materialRow(l))
	}

	if len(data.WorkOrders) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitle("PASOS DE TRABAJO"))
		m.AddRows(stepsHeaderRow())
		for _, wo := range data.WorkOrders {
			m.AddRows(stepRow(wo))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: N° de orden + estado (izq) y producto + cantidad (der).
func headerRow(data orders.SheetData) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ORDEN DE PRODUCCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(data.Order.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
			text.New("Estado: "+data.Order.Status, props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(data.Product.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New("SKU: "+data.Product.SKU, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New("Cantidad: "+data.Order.Quantity.String(), props.Text{
				Size: 9, Align: align.Right, Top: 14,
			}),
		),
	)
}

// detailsRow: prioridad, fecha límite y costos.
func detailsRow(data orders.SheetData) core.Row {
	deadline := "—"
	if data.Order.Deadline != nil {
		deadline = data.Order.Deadline.Format("02/01/2006")
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf(
				"Prioridad: %s   |   Fecha límite: %s   |   Costo estimado: %s   |   Costo real: %s",
				data.Order.Priority, deadline,
				data.Order.EstimatedCost.Round(2).String(),
				data.Order.ActualCost.Round(2).String(),
			), props.Text{Size: 8, Top: 3, Color: colorGray}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
			}),
		),
	)
}

func materialsHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}
	return row.New(6).Add(
		col.New(2).Add(text.New("SKU", header)),
		col.New(5).Add(text.New("Componente", header)),
		col.New(2).Add(text.New("Por unidad", alignRight(header))),
		col.New(2).Add(text.New("Total", alignRight(header))),
		col.New(1).Add(text.New("Und", alignRight(header))),
	)
}

func materialRow(l orders.SheetLine) core.Row {
	cell := props.Text{Size: 8, Top: 1}
	return row.New(5).Add(
		col.New(2).Add(text.New(l.SKU, cell)),
		col.New(5).Add(text.New(l.Name, cell)),
		col.New(2).Add(text.New(l.PerUnit.String(), alignRight(cell))),
		col.New(2).Add(text.New(l.Required.String(), alignRight(cell))),
		col.New(1).Add(text.New(l.Unit, alignRight(cell))),
	)
}

func stepsHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}
	return row.New(6).Add(
		col.New(1).Add(text.New("Seq", header)),
		col.New(4).Add(text.New("Paso", header)),
		col.New(3).Add(text.New("Centro", header)),
		col.New(2).Add(text.New("Estado", header)),
		col.New(2).Add(text.New("Horas", alignRight(header))),
	)
}

func stepRow(wo orders.SheetWorkOrder) core.Row {
	cell := props.Text{Size: 8, Top: 1}
	hours := wo.EstimatedHours.String()
	if !wo.ActualHours.IsZero() {
		hours = wo.ActualHours.String()
	}
	return row.New(5).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", wo.Sequence), cell)),
		col.New(4).Add(text.New(wo.Name, cell)),
		col.New(3).Add(text.New(wo.WorkCenter, cell)),
		col.New(2).Add(text.New(wo.Status, cell)),
		col.New(2).Add(text.New(hours, alignRight(cell))),
	)
}

func alignRight(p props.Text) props.Text {
	p.Align = align.Right
	return p
}
