package sales_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/scims-analytics/internal/domain/entity"
	"github.com/jhoicas/scims-analytics/internal/domain/sales"
)

func assertDec(t *testing.T, want string, got decimal.Decimal, msg ...string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msg)
}

func item(productID, category string, qty int, total string) entity.SaleItem {
	return entity.SaleItem{
		ProductID:    productID,
		ProductName:  "Producto " + productID,
		SKU:          "SKU-" + productID,
		CategoryName: category,
		Quantity:     qty,
		TotalPrice:   dec(total),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Caso base
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_EntradaVaciaDevuelveBundleCero(t *testing.T) {
	for _, in := range [][]entity.Sale{nil, {}} {
		b := sales.Aggregate(in, sales.AggregateOptions{})
		assert.Equal(t, sales.EmptyBundle(), b)
		assert.Zero(t, b.TotalOrders)
		assertDec(t, "0", b.TotalRevenue)
		assertDec(t, "0", b.AverageOrderValue)
		assert.NotNil(t, b.TopProducts)
		assert.Empty(t, b.TopProducts)
		assert.Empty(t, b.TopCategories)
		assert.Empty(t, b.PaymentBreakdown)
		assert.Empty(t, b.DailyRevenue)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: tres ventas del 2024-01-01 por $10 (cash), $20 y $30 (card).
// ──────────────────────────────────────────────────────────────────────────────

func threeSalesScenario() []entity.Sale {
	day := at("2024-01-01T09:00:00Z")
	cash := newSale("1", "cash", "10", day)
	cash.CashReceived = decimal.NewNullDecimal(dec("60"))
	cash.ChangeGiven = decimal.NewNullDecimal(dec("0"))
	return []entity.Sale{
		cash,
		newSale("2", "card", "20", day),
		newSale("3", "card", "30", day),
	}
}

func TestAggregate_EscenarioTresVentas(t *testing.T) {
	filtered := sales.Filter(threeSalesScenario(), sales.FilterSpec{Status: sales.FilterAll, PaymentMethod: sales.FilterAll})
	b := sales.Aggregate(filtered, sales.AggregateOptions{})

	assert.Equal(t, 3, b.TotalOrders)
	assertDec(t, "60", b.TotalRevenue)
	assertDec(t, "20", b.AverageOrderValue)

	require.Len(t, b.PaymentBreakdown, 2)
	cash, card := b.PaymentBreakdown[0], b.PaymentBreakdown[1]

	assert.Equal(t, "cash", cash.Method)
	assert.Equal(t, 1, cash.Count)
	assertDec(t, "10", cash.Amount)
	assertDec(t, "33.33", cash.Percentage)
	assertDec(t, "60", cash.CashReceived)
	assertDec(t, "0", cash.ChangeGiven)

	assert.Equal(t, "card", card.Method)
	assert.Equal(t, 2, card.Count)
	assertDec(t, "50", card.Amount)
	assertDec(t, "66.67", card.Percentage)
	assertDec(t, "0", card.CashReceived, "los sub-totales de efectivo solo aplican a cash")
	assertDec(t, "83.33", card.AmountPercentage)

	require.Len(t, b.DailyRevenue, 1)
	assert.Equal(t, "2024-01-01", b.DailyRevenue[0].Date)
	assert.Equal(t, 3, b.DailyRevenue[0].Orders)
	assertDec(t, "60", b.DailyRevenue[0].Revenue)
}

func TestAggregate_EfectivoFaltanteCuentaComoCero(t *testing.T) {
	day := at("2024-01-01T09:00:00Z")
	a := newSale("a", "cash", "10", day)
	a.CashReceived = decimal.NewNullDecimal(dec("20"))
	a.ChangeGiven = decimal.NewNullDecimal(dec("10"))
	b := newSale("b", "cash", "5", day) // sin cash_received ni change_given

	got := sales.Aggregate([]entity.Sale{a, b}, sales.AggregateOptions{})
	require.Len(t, got.PaymentBreakdown, 1)
	assert.Equal(t, 2, got.PaymentBreakdown[0].Count, "la venta sin montos de efectivo sigue contando")
	assertDec(t, "20", got.PaymentBreakdown[0].CashReceived)
	assertDec(t, "10", got.PaymentBreakdown[0].ChangeGiven)
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales y clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_TotalesYClientesUnicos(t *testing.T) {
	day := at("2024-02-10T15:00:00Z")
	a := newSale("a", "card", "110", day)
	a.DiscountAmount = dec("5")
	a.TaxAmount = dec("15")
	a.Customer = &entity.SaleCustomer{ID: "c1"}
	b := newSale("b", "card", "40", day)
	b.TaxAmount = dec("4.5")
	b.Customer = &entity.SaleCustomer{ID: "c1"}
	c := newSale("c", "cash", "7.25", day) // cliente de mostrador
	d := newSale("d", "cash", "0", day)    // monto ausente
	d.TotalAmount = decimal.Decimal{}
	d.Customer = &entity.SaleCustomer{ID: "c2"}

	got := sales.Aggregate([]entity.Sale{a, b, c, d}, sales.AggregateOptions{})
	assert.Equal(t, 4, got.TotalOrders, "las ventas de mostrador y sin monto cuentan en totales")
	assertDec(t, "157.25", got.TotalRevenue)
	assertDec(t, "5", got.TotalDiscounts)
	assertDec(t, "19.5", got.TotalTax)
	assert.Equal(t, 2, got.UniqueCustomers)
	assertDec(t, "39.3125", got.AverageOrderValue)
}

// Propiedad: total_revenue es exactamente la suma de total_amount.
func TestAggregate_InvarianteDeTotal(t *testing.T) {
	var in []entity.Sale
	want := decimal.Zero
	for i := 0; i < 250; i++ {
		amount := decimal.NewFromInt(int64(i*37%1000)).Div(decimal.NewFromInt(100))
		s := newSale(fmt.Sprint(i), []string{"cash", "card", "mobile"}[i%3], "0", at("2024-03-01T00:00:00Z"))
		s.TotalAmount = amount
		in = append(in, s)
		want = want.Add(amount)
	}
	got := sales.Aggregate(in, sales.AggregateOptions{})
	assert.True(t, want.Equal(got.TotalRevenue))

	var byMethod decimal.Decimal
	count := 0
	for _, pm := range got.PaymentBreakdown {
		byMethod = byMethod.Add(pm.Amount)
		count += pm.Count
	}
	assert.True(t, want.Equal(byMethod), "el desglose por método debe sumar el total")
	assert.Equal(t, len(in), count)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rankings
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: el mismo product_id en distintas ventas se acumula en una sola entrada.
func TestAggregate_ProductoRepetidoSeAcumula(t *testing.T) {
	day := at("2024-01-01T09:00:00Z")
	a := newSale("a", "cash", "30", day)
	a.Items = []entity.SaleItem{item("p1", "Bebidas", 2, "20"), item("p2", "Snacks", 1, "10")}
	b := newSale("b", "card", "45", day)
	b.Items = []entity.SaleItem{item("p1", "Bebidas", 3, "45")}

	got := sales.Aggregate([]entity.Sale{a, b}, sales.AggregateOptions{})
	require.Len(t, got.TopProducts, 2)
	assert.Equal(t, "p1", got.TopProducts[0].ProductID)
	assert.Equal(t, 5, got.TopProducts[0].Quantity)
	assertDec(t, "65", got.TopProducts[0].Revenue)
	assert.Equal(t, "p2", got.TopProducts[1].ProductID)
}

func TestAggregate_EmpatesConservanOrdenDePrimeraAparicion(t *testing.T) {
	day := at("2024-01-01T09:00:00Z")
	a := newSale("a", "cash", "0", day)
	a.Items = []entity.SaleItem{
		item("p3", "C", 1, "10"),
		item("p1", "A", 1, "10"),
		item("p9", "B", 1, "50"),
		item("p2", "A", 1, "10"),
	}
	got := sales.Aggregate([]entity.Sale{a}, sales.AggregateOptions{})

	var order []string
	for _, p := range got.TopProducts {
		order = append(order, p.ProductID)
	}
	assert.Equal(t, []string{"p9", "p3", "p1", "p2"}, order)

	require.Len(t, got.TopCategories, 3)
	assert.Equal(t, "B", got.TopCategories[0].Category)
	assert.Equal(t, "A", got.TopCategories[1].Category, "A (20) supera a C (10)")
	assert.Equal(t, "C", got.TopCategories[2].Category)
}

func TestAggregate_SinCategoriaSeAgrupaEnUncategorized(t *testing.T) {
	a := newSale("a", "cash", "0", at("2024-01-01T09:00:00Z"))
	a.Items = []entity.SaleItem{item("p1", "", 1, "5"), item("p2", "", 2, "7")}

	got := sales.Aggregate([]entity.Sale{a}, sales.AggregateOptions{})
	require.Len(t, got.TopCategories, 1)
	assert.Equal(t, sales.UncategorizedKey, got.TopCategories[0].Category)
	assert.Equal(t, 3, got.TopCategories[0].Quantity)
	assertDec(t, "12", got.TopCategories[0].Revenue)
}

func TestAggregate_TopNAcotadoYOrdenado(t *testing.T) {
	a := newSale("a", "cash", "0", at("2024-01-01T09:00:00Z"))
	for i := 0; i < 25; i++ {
		a.Items = append(a.Items, item(fmt.Sprintf("p%02d", i), fmt.Sprintf("cat%02d", i), 1, fmt.Sprint((i*7)%13)))
	}

	for _, topN := range []int{0, 1, 3, 10, 50} {
		got := sales.Aggregate([]entity.Sale{a}, sales.AggregateOptions{TopN: topN})
		limit := topN
		if limit <= 0 {
			limit = sales.DefaultTopN
		}
		assert.LessOrEqual(t, len(got.TopProducts), limit)
		assert.LessOrEqual(t, len(got.TopCategories), limit)
		for i := 1; i < len(got.TopProducts); i++ {
			assert.False(t, got.TopProducts[i].Revenue.GreaterThan(got.TopProducts[i-1].Revenue),
				"top products debe ser no creciente por ingreso")
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Serie diaria y zona horaria
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_SerieDiariaAscendente(t *testing.T) {
	in := []entity.Sale{
		newSale("a", "cash", "5", at("2024-01-03T10:00:00Z")),
		newSale("b", "cash", "7", at("2024-01-01T10:00:00Z")),
		newSale("c", "cash", "1", at("2024-01-03T18:00:00Z")),
		newSale("d", "cash", "100", nil), // sin fecha: cuenta en totales pero no en la serie
	}
	got := sales.Aggregate(in, sales.AggregateOptions{})

	require.Len(t, got.DailyRevenue, 2)
	assert.Equal(t, "2024-01-01", got.DailyRevenue[0].Date)
	assertDec(t, "7", got.DailyRevenue[0].Revenue)
	assert.Equal(t, "2024-01-03", got.DailyRevenue[1].Date)
	assertDec(t, "6", got.DailyRevenue[1].Revenue)
	assert.Equal(t, 2, got.DailyRevenue[1].Orders)
	assertDec(t, "113", got.TotalRevenue)
}

func TestAggregate_SerieDiariaUsaZonaDelNegocio(t *testing.T) {
	lagos := time.FixedZone("WAT", 1*60*60)
	// 23:30 UTC del 1 de enero es 00:30 del 2 de enero en Lagos.
	in := []entity.Sale{newSale("a", "cash", "5", at("2024-01-01T23:30:00Z"))}

	utc := sales.Aggregate(in, sales.AggregateOptions{})
	local := sales.Aggregate(in, sales.AggregateOptions{Location: lagos})

	assert.Equal(t, "2024-01-01", utc.DailyRevenue[0].Date)
	assert.Equal(t, "2024-01-02", local.DailyRevenue[0].Date)
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_Idempotente(t *testing.T) {
	spec := sales.FilterSpec{DateFrom: *at("2024-01-01T00:00:00Z")}
	opts := sales.AggregateOptions{TopN: 3}

	first := sales.Aggregate(sales.Filter(fixture(), spec), opts)
	second := sales.Aggregate(sales.Filter(fixture(), spec), opts)
	assert.Equal(t, first, second, "mismas entradas deben producir el mismo bundle")
}

func TestFingerprint_CambiaConElConjunto(t *testing.T) {
	base := fixture()
	assert.Equal(t, sales.Fingerprint(base), sales.Fingerprint(fixture()))

	changed := fixture()
	changed[1].Status = entity.SaleStatusCompleted
	assert.NotEqual(t, sales.Fingerprint(base), sales.Fingerprint(changed))

	assert.NotEqual(t, sales.Fingerprint(base), sales.Fingerprint(base[:4]))
	assert.NotEmpty(t, sales.Fingerprint(nil))
}

// Datos de tablas unidas (cliente, producto, cajero) cambian el bundle sin tocar UpdatedAt.
func TestFingerprint_IncluyeDatosDeTablasUnidas(t *testing.T) {
	base := func() []entity.Sale {
		a := newSale("a", "cash", "10", at("2024-01-01T10:00:00Z"))
		a.Customer = &entity.SaleCustomer{ID: "c1", Name: "Ada"}
		a.Items = []entity.SaleItem{{ProductID: "p1", ProductName: "Old", SKU: "SKU-1", Quantity: 1, TotalPrice: dec("10")}}
		b := newSale("b", "cash", "20", at("2024-01-01T11:00:00Z"))
		b.Customer = &entity.SaleCustomer{ID: "c2", Name: "Bob"}
		return []entity.Sale{a, b}
	}
	fp := sales.Fingerprint(base())

	mutations := map[string]func(s []entity.Sale){
		"customer_id":      func(s []entity.Sale) { s[1].Customer.ID = "c1" },
		"customer_name":    func(s []entity.Sale) { s[0].Customer.Name = "Ada L." },
		"customer_email":   func(s []entity.Sale) { s[0].Customer.Email = "ada@example.com" },
		"walk_in":          func(s []entity.Sale) { s[1].Customer = nil },
		"receipt":          func(s []entity.Sale) { s[0].ReceiptNumber = "RCP-X" },
		"product_name":     func(s []entity.Sale) { s[0].Items[0].ProductName = "New" },
		"sku":              func(s []entity.Sale) { s[0].Items[0].SKU = "SKU-9" },
		"cashier_username": func(s []entity.Sale) { s[0].Cashier.Username = "mary" },
		"cashier_name":     func(s []entity.Sale) { s[0].Cashier.Name = "Mary Major" },
		"cash_received":    func(s []entity.Sale) { s[0].CashReceived = decimal.NewNullDecimal(decimal.Zero) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			changed := base()
			mutate(changed)
			assert.NotEqual(t, fp, sales.Fingerprint(changed))
		})
	}

	// Caso concreto: mismo UpdatedAt, distinto número de clientes únicos y nombre de producto.
	changed := base()
	changed[1].Customer.ID = "c1"
	changed[0].Items[0].ProductName = "New"
	before := sales.Aggregate(base(), sales.AggregateOptions{})
	after := sales.Aggregate(changed, sales.AggregateOptions{})
	require.NotEqual(t, before.UniqueCustomers, after.UniqueCustomers)
	require.NotEqual(t, before.TopProducts[0].ProductName, after.TopProducts[0].ProductName)
	assert.NotEqual(t, fp, sales.Fingerprint(changed))
}
