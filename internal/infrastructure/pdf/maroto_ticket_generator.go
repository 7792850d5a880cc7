// Package pdf implementa la generación del tiquete de cocina/mostrador.
//
// Layout de la página (formato tiquete angosto):
//
//	┌──────────────────────────────┐
//	│  NOMBRE DEL NEGOCIO          │
//	│  Fecha / Hora                │
//	│  ───────────────────────     │
//	│  PRODUCTO × CANTIDAD         │
//	│  ───────────────────────     │
//	│  Componentes:                │
//	│    2 × Caliente Americano    │
//	│    1 × Croissant             │
//	│  ───────────────────────     │
//	│  TOTAL                       │
//	└──────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/internal/application/dto"
	"github.com/jhoicas/cafe-pos-api/internal/application/sales"
)

var (
	colorPrimary = &props.Color{Red: 60, Green: 42, Blue: 33}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ sales.TicketPDFGenerator = (*MarotoTicketGenerator)(nil)

// MarotoTicketGenerator implementa sales.TicketPDFGenerator usando Maroto v2.
type MarotoTicketGenerator struct {
	businessName string
}

// NewMarotoTicketGenerator construye el generador con el nombre del negocio
// que encabeza cada tiquete.
func NewMarotoTicketGenerator(businessName string) *MarotoTicketGenerator {
	if businessName == "" {
		businessName = "Café POS"
	}
	return &MarotoTicketGenerator{businessName: businessName}
}

// GenerateTicket genera el tiquete en PDF y devuelve sus bytes.
func (g *MarotoTicketGenerator) GenerateTicket(
	productName string,
	qty decimal.Decimal,
	price decimal.Decimal,
	components []dto.ComponentResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(80, 200). // ancho de impresora térmica de 80 mm
		WithLeftMargin(5).WithRightMargin(5).
		WithTopMargin(5).WithBottomMargin(5).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Tiquete de cocina", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(g.businessName)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(productRow(productName, qty))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	if len(components) > 0 {
		m.AddRows(row.New(5).Add(
			col.New(12).Add(
				text.New("Componentes:", props.Text{Style: fontstyle.Bold, Size: 8}),
			),
		))
		for _, c := range components {
			m.AddRows(componentRow(c))
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	}

	m.AddRows(totalRow(price))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar tiquete: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRows: nombre del negocio y fecha/hora de emisión.
func headerRows(businessName string) []core.Row {
	now := time.Now().Format("02/01/2006 15:04")
	return []core.Row{
		row.New(8).Add(
			col.New(12).Add(
				text.New(businessName, props.Text{
					Style: fontstyle.Bold, Size: 11, Align: align.Center,
					Color: colorPrimary, Top: 1,
				}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New(now, props.Text{Size: 7, Align: align.Center, Color: colorGray}),
			),
		),
	}
}

// productRow: producto raíz vendido con su cantidad.
func productRow(productName string, qty decimal.Decimal) core.Row {
	label := productName
	if !qty.Equal(decimal.NewFromInt(1)) {
		label = fmt.Sprintf("%s × %s", productName, qty.String())
	}
	return row.New(8).Add(
		col.New(12).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 10, Top: 1}),
		),
	)
}

// componentRow: una línea de componente entregable ("2 × Caliente Americano").
func componentRow(c dto.ComponentResponse) core.Row {
	return row.New(5).Add(
		col.New(3).Add(
			text.New(c.Quantity.String()+" ×", props.Text{Size: 8, Align: align.Right}),
		),
		col.New(9).Add(
			text.New(c.ProductName, props.Text{Size: 8, Left: 2}),
		),
	)
}

// totalRow: precio total cotizado.
func totalRow(price decimal.Decimal) core.Row {
	return row.New(8).Add(
		col.New(6).Add(
			text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 10, Top: 1}),
		),
		col.New(6).Add(
			text.New("$ "+price.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
		),
	)
}
