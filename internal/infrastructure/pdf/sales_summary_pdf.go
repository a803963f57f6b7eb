// Package pdf genera la versión imprimible del resumen de ventas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + periodo    │  Zona horaria + generado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Órdenes | Ingresos | Ticket promedio | Clientes      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOP PRODUCTOS / TOP CATEGORÍAS                             │
//	│  MÉTODOS DE PAGO (conteo, %, efectivo recibido / cambio)    │
//	│  INGRESOS DIARIOS                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

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

	"github.com/jhoicas/scims-analytics/internal/application/dto"
	"github.com/jhoicas/scims-analytics/internal/application/reports"
)

var _ reports.SummaryPDFGenerator = (*SummaryPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 170, Green: 60, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// SummaryPDFGenerator implementa reports.SummaryPDFGenerator usando Maroto v2.
type SummaryPDFGenerator struct {
	printer *message.Printer
	now     func() time.Time
}

// NewSummaryPDFGenerator construye el generador. lang define el formato de los números
// (separador de miles y decimales).
func NewSummaryPDFGenerator(lang language.Tag) *SummaryPDFGenerator {
	return &SummaryPDFGenerator{printer: message.NewPrinter(lang), now: time.Now}
}

// GenerateSalesSummaryPDF genera el PDF y devuelve sus bytes.
func (g *SummaryPDFGenerator) GenerateSalesSummaryPDF(
	_ context.Context,
	title string,
	summary *dto.SalesSummaryDTO,
) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("pdf: resumen nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(title, summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.kpiRow(summary))
	if len(summary.FailedStores) > 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Tiendas omitidas por error de carga: "+strings.Join(summary.FailedStores, ", "), props.Text{
				Size: 8, Color: colorWarn, Top: 1,
			}),
		)))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("TOP PRODUCTOS"))
	m.AddRows(tableHeader([]string{"Producto", "SKU", "Categoría", "Cant.", "Ingresos"}, []int{4, 2, 3, 1, 2}))
	for _, p := range summary.TopProducts {
		m.AddRows(g.tableRow([]string{p.ProductName, p.SKU, p.CategoryName, g.printer.Sprintf("%d", p.Quantity), g.money(p.Revenue)}, []int{4, 2, 3, 1, 2}))
	}

	m.AddRows(sectionTitle("TOP CATEGORÍAS"))
	m.AddRows(tableHeader([]string{"Categoría", "Cant.", "Ingresos"}, []int{7, 2, 3}))
	for _, c := range summary.TopCategories {
		m.AddRows(g.tableRow([]string{c.Category, g.printer.Sprintf("%d", c.Quantity), g.money(c.Revenue)}, []int{7, 2, 3}))
	}

	m.AddRows(sectionTitle("MÉTODOS DE PAGO"))
	m.AddRows(tableHeader([]string{"Método", "Órdenes", "% órdenes", "Monto", "Efectivo recibido", "Cambio"}, []int{2, 2, 2, 2, 2, 2}))
	for _, p := range summary.PaymentBreakdown {
		m.AddRows(g.tableRow([]string{
			p.Method,
			g.printer.Sprintf("%d", p.Count),
			g.percent(p.Percentage),
			g.money(p.Amount),
			g.money(p.CashReceived),
			g.money(p.ChangeGiven),
		}, []int{2, 2, 2, 2, 2, 2}))
	}

	m.AddRows(sectionTitle("INGRESOS DIARIOS"))
	m.AddRows(tableHeader([]string{"Fecha", "Órdenes", "Ingresos"}, []int{4, 4, 4}))
	for _, d := range summary.DailyRevenue {
		m.AddRows(g.tableRow([]string{d.Date, g.printer.Sprintf("%d", d.Orders), g.money(d.Revenue)}, []int{4, 4, 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *SummaryPDFGenerator) headerRow(title string, s *dto.SalesSummaryDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Periodo: "+periodLabel(s.Period), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Zona horaria: "+s.Timezone, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Generado: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func (g *SummaryPDFGenerator) kpiRow(s *dto.SalesSummaryDTO) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 6}),
		)
	}
	return row.New(14).Add(
		kpi("Órdenes", g.printer.Sprintf("%d", s.TotalOrders)),
		kpi("Ingresos", g.money(s.TotalRevenue)),
		kpi("Ticket promedio", g.money(s.AverageOrderValue)),
		kpi("Descuentos", g.money(s.TotalDiscounts)),
		kpi("Impuestos", g.money(s.TotalTax)),
		kpi("Clientes únicos", g.printer.Sprintf("%d", s.UniqueCustomers)),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3}),
	))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: columnAlign(i), Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func (g *SummaryPDFGenerator) tableRow(values []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, col.New(sizes[i]).Add(text.New(nonEmpty(v, "—"), props.Text{
			Size: 8, Align: columnAlign(i), Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(5).Add(cols...)
}

// La primera columna es texto; el resto son cifras.
func columnAlign(i int) align.Type {
	if i == 0 {
		return align.Left
	}
	return align.Right
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea un monto con 2 decimales y separadores del idioma configurado.
func (g *SummaryPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func (g *SummaryPDFGenerator) percent(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.InexactFloat64()) + "%"
}

func periodLabel(p dto.PeriodDTO) string {
	return nonEmpty(p.StartDate, "inicio") + " a " + nonEmpty(p.EndDate, "hoy")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
