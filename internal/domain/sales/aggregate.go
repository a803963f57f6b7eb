package sales

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/scims-analytics/internal/domain/entity"
)

const (
	// DefaultTopN tamaño por defecto de los rankings de productos y categorías.
	DefaultTopN = 10
	// UncategorizedKey agrupa las líneas cuyo producto no tiene categoría.
	UncategorizedKey = "Uncategorized"

	dayLayout = "2006-01-02"
)

var hundred = decimal.NewFromInt(100)

// AggregateOptions parámetros de la agregación.
type AggregateOptions struct {
	TopN     int            // <= 0 → DefaultTopN
	Location *time.Location // zona horaria del negocio para la serie diaria; nil → UTC
}

func (o AggregateOptions) normalized() AggregateOptions {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// StatisticsBundle resultado completo de la agregación para una vista de reporte.
// No se persiste; se recalcula en cada cambio de filtros.
type StatisticsBundle struct {
	TotalOrders       int                 `json:"total_orders"`
	TotalRevenue      decimal.Decimal     `json:"total_revenue"`
	TotalDiscounts    decimal.Decimal     `json:"total_discounts"`
	TotalTax          decimal.Decimal     `json:"total_tax"`
	AverageOrderValue decimal.Decimal     `json:"average_order_value"` // revenue / orders; 0 si no hay órdenes
	UniqueCustomers   int                 `json:"unique_customers"`    // excluye ventas de mostrador
	TopProducts       []ProductStat       `json:"top_products"`
	TopCategories     []CategoryStat      `json:"top_categories"`
	PaymentBreakdown  []PaymentMethodStat `json:"payment_breakdown"` // orden de primera aparición
	DailyRevenue      []DailyRevenuePoint `json:"daily_revenue"`     // ascendente por fecha
}

// ProductStat acumulado de un producto a través de todas las líneas.
type ProductStat struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	CategoryName string          `json:"category_name"`
	Quantity     int             `json:"quantity"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CategoryStat acumulado por nombre de categoría.
type CategoryStat struct {
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// PaymentMethodStat desglose por método de pago.
type PaymentMethodStat struct {
	Method           string          `json:"method"`
	Count            int             `json:"count"`
	Amount           decimal.Decimal `json:"amount"`
	Percentage       decimal.Decimal `json:"percentage"`        // count / total_orders * 100, 2 decimales
	AmountPercentage decimal.Decimal `json:"amount_percentage"` // amount / total_revenue * 100, 2 decimales
	CashReceived     decimal.Decimal `json:"cash_received"`     // solo método cash
	ChangeGiven      decimal.Decimal `json:"change_given"`      // solo método cash
}

// DailyRevenuePoint ingresos y número de órdenes de un día calendario.
type DailyRevenuePoint struct {
	Date    string          `json:"date"` // YYYY-MM-DD en la zona del negocio
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// EmptyBundle devuelve el bundle de valor cero: contadores en 0 y colecciones vacías (no nil).
func EmptyBundle() StatisticsBundle {
	return StatisticsBundle{
		TotalRevenue:      decimal.Zero,
		TotalDiscounts:    decimal.Zero,
		TotalTax:          decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TopProducts:       []ProductStat{},
		TopCategories:     []CategoryStat{},
		PaymentBreakdown:  []PaymentMethodStat{},
		DailyRevenue:      []DailyRevenuePoint{},
	}
}

// Aggregate calcula el StatisticsBundle de las ventas dadas (normalmente ya filtradas).
//
// Nunca falla: los montos ausentes cuentan como cero y los denominadores se protegen
// contra división por cero. Los empates en los rankings conservan el orden de primera
// aparición.
func Aggregate(sales []entity.Sale, opts AggregateOptions) StatisticsBundle {
	bundle := EmptyBundle()
	if len(sales) == 0 {
		return bundle
	}
	opts = opts.normalized()

	// ── Totales ───────────────────────────────────────────────────────────────
	customers := make(map[string]struct{})
	for i := range sales {
		s := &sales[i]
		bundle.TotalRevenue = bundle.TotalRevenue.Add(s.TotalAmount)
		bundle.TotalDiscounts = bundle.TotalDiscounts.Add(s.DiscountAmount)
		bundle.TotalTax = bundle.TotalTax.Add(s.TaxAmount)
		if s.Customer != nil && s.Customer.ID != "" {
			customers[s.Customer.ID] = struct{}{}
		}
	}
	bundle.TotalOrders = len(sales)
	bundle.UniqueCustomers = len(customers)
	bundle.AverageOrderValue = bundle.TotalRevenue.Div(decimal.NewFromInt(int64(bundle.TotalOrders)))

	bundle.TopProducts = topProducts(sales, opts.TopN)
	bundle.TopCategories = topCategories(sales, opts.TopN)
	bundle.PaymentBreakdown = paymentBreakdown(sales, bundle.TotalRevenue)
	bundle.DailyRevenue = dailyRevenue(sales, opts.Location)

	return bundle
}

// topProducts acumula cantidad e ingreso por ProductID y devuelve los topN de mayor ingreso.
func topProducts(sales []entity.Sale, topN int) []ProductStat {
	index := make(map[string]int)
	stats := make([]ProductStat, 0)
	for i := range sales {
		for _, item := range sales[i].Items {
			pos, ok := index[item.ProductID]
			if !ok {
				pos = len(stats)
				index[item.ProductID] = pos
				stats = append(stats, ProductStat{
					ProductID:    item.ProductID,
					ProductName:  item.ProductName,
					SKU:          item.SKU,
					CategoryName: categoryKey(item.CategoryName),
					Revenue:      decimal.Zero,
				})
			}
			stats[pos].Quantity += item.Quantity
			stats[pos].Revenue = stats[pos].Revenue.Add(item.TotalPrice)
		}
	}
	slices.SortStableFunc(stats, func(a, b ProductStat) int {
		return b.Revenue.Cmp(a.Revenue)
	})
	return truncate(stats, topN)
}

// topCategories igual que topProducts pero agrupando por nombre de categoría.
func topCategories(sales []entity.Sale, topN int) []CategoryStat {
	index := make(map[string]int)
	stats := make([]CategoryStat, 0)
	for i := range sales {
		for _, item := range sales[i].Items {
			key := categoryKey(item.CategoryName)
			pos, ok := index[key]
			if !ok {
				pos = len(stats)
				index[key] = pos
				stats = append(stats, CategoryStat{Category: key, Revenue: decimal.Zero})
			}
			stats[pos].Quantity += item.Quantity
			stats[pos].Revenue = stats[pos].Revenue.Add(item.TotalPrice)
		}
	}
	slices.SortStableFunc(stats, func(a, b CategoryStat) int {
		return b.Revenue.Cmp(a.Revenue)
	})
	return truncate(stats, topN)
}

func categoryKey(name string) string {
	if name == "" {
		return UncategorizedKey
	}
	return name
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// paymentBreakdown agrupa por método de pago en orden de primera aparición.
func paymentBreakdown(sales []entity.Sale, totalRevenue decimal.Decimal) []PaymentMethodStat {
	index := make(map[string]int)
	stats := make([]PaymentMethodStat, 0)
	for i := range sales {
		s := &sales[i]
		pos, ok := index[s.PaymentMethod]
		if !ok {
			pos = len(stats)
			index[s.PaymentMethod] = pos
			stats = append(stats, PaymentMethodStat{
				Method:       s.PaymentMethod,
				Amount:       decimal.Zero,
				CashReceived: decimal.Zero,
				ChangeGiven:  decimal.Zero,
			})
		}
		st := &stats[pos]
		st.Count++
		st.Amount = st.Amount.Add(s.TotalAmount)
		if s.PaymentMethod == entity.PaymentMethodCash {
			// NullDecimal inválido aporta su Decimal cero: los faltantes suman 0.
			st.CashReceived = st.CashReceived.Add(s.CashReceived.Decimal)
			st.ChangeGiven = st.ChangeGiven.Add(s.ChangeGiven.Decimal)
		}
	}

	total := decimal.NewFromInt(int64(len(sales)))
	for i := range stats {
		stats[i].Percentage = decimal.Zero
		if len(sales) > 0 {
			stats[i].Percentage = decimal.NewFromInt(int64(stats[i].Count)).Div(total).Mul(hundred).Round(2)
		}
		stats[i].AmountPercentage = decimal.Zero
		if !totalRevenue.IsZero() {
			stats[i].AmountPercentage = stats[i].Amount.Div(totalRevenue).Mul(hundred).Round(2)
		}
	}
	return stats
}

// dailyRevenue agrupa por día calendario en loc. Las ventas sin fecha no aparecen en la serie.
func dailyRevenue(sales []entity.Sale, loc *time.Location) []DailyRevenuePoint {
	index := make(map[string]int)
	points := make([]DailyRevenuePoint, 0)
	for i := range sales {
		t, ok := sales[i].EffectiveDate()
		if !ok {
			continue
		}
		day := t.In(loc).Format(dayLayout)
		pos, seen := index[day]
		if !seen {
			pos = len(points)
			index[day] = pos
			points = append(points, DailyRevenuePoint{Date: day, Revenue: decimal.Zero})
		}
		points[pos].Revenue = points[pos].Revenue.Add(sales[i].TotalAmount)
		points[pos].Orders++
	}
	// YYYY-MM-DD ordena lexicográficamente igual que cronológicamente.
	slices.SortFunc(points, func(a, b DailyRevenuePoint) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	})
	return points
}
