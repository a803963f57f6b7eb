package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/scims-analytics/internal/domain/sales"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// SalesReportRequest parámetros comunes de GET /api/reports/sales/*.
// Los campos vacíos o "All" no filtran.
type SalesReportRequest struct {
	StartDate     string `query:"start_date"`     // YYYY-MM-DD en la zona del negocio, inclusive
	EndDate       string `query:"end_date"`       // YYYY-MM-DD en la zona del negocio, inclusive
	PaymentMethod string `query:"payment_method"` // cash, card, mobile... o All
	Status        string `query:"status"`         // completed|pending|refunded|cancelled o All
	Cashier       string `query:"cashier"`        // username o nombre del cajero, o All
	Search        string `query:"search"`         // recibo, cliente, producto o SKU
	MinAmount     string `query:"min_amount"`     // decimal; por defecto 0
	MaxAmount     string `query:"max_amount"`     // decimal; vacío = sin tope
	TopN          int    `query:"top_n"`          // tamaño de los rankings (default 10)
	StoreID       string `query:"store_id"`       // opcional: acota un reporte de negocio a una tienda
}

// ── Resumen ───────────────────────────────────────────────────────────────────

// SalesSummaryDTO respuesta de GET /api/reports/sales/summary.
// Los montos globales se redondean a 2 decimales; los rankings se devuelven tal cual.
type SalesSummaryDTO struct {
	Period            PeriodDTO                 `json:"period"`
	Timezone          string                    `json:"timezone"`
	StoreIDs          []string                  `json:"store_ids"`
	FailedStores      []string                  `json:"failed_stores,omitempty"` // tiendas omitidas por error de carga
	TotalOrders       int                       `json:"total_orders"`
	TotalRevenue      decimal.Decimal           `json:"total_revenue"`
	TotalDiscounts    decimal.Decimal           `json:"total_discounts"`
	TotalTax          decimal.Decimal           `json:"total_tax"`
	AverageOrderValue decimal.Decimal           `json:"average_order_value"`
	UniqueCustomers   int                       `json:"unique_customers"`
	TopProducts       []sales.ProductStat       `json:"top_products"`
	TopCategories     []sales.CategoryStat      `json:"top_categories"`
	PaymentBreakdown  []sales.PaymentMethodStat `json:"payment_breakdown"`
	DailyRevenue      []sales.DailyRevenuePoint `json:"daily_revenue"`
}

// PeriodDTO rango de fechas del reporte (vacío = sin límite).
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ── Listado de transacciones ──────────────────────────────────────────────────

// SaleItemDTO línea de una venta.
type SaleItemDTO struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	SKU            string          `json:"sku"`
	CategoryName   string          `json:"category_name,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// SaleDTO venta tal como se muestra en el listado del reporte.
type SaleDTO struct {
	ID              string           `json:"id"`
	ReceiptNumber   string           `json:"receipt_number"`
	TransactionDate *time.Time       `json:"transaction_date,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	Status          string           `json:"status"`
	PaymentMethod   string           `json:"payment_method"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
	TaxAmount       decimal.Decimal  `json:"tax_amount"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	CashReceived    *decimal.Decimal `json:"cash_received,omitempty"`
	ChangeGiven     *decimal.Decimal `json:"change_given,omitempty"`
	CustomerID      string           `json:"customer_id,omitempty"`
	CustomerName    string           `json:"customer_name,omitempty"`
	CashierUsername string           `json:"cashier_username"`
	CashierName     string           `json:"cashier_name"`
	StoreID         string           `json:"store_id"`
	Items           []SaleItemDTO    `json:"items"`
}

// SalesListDTO respuesta de GET /api/reports/sales/transactions.
type SalesListDTO struct {
	Items []SaleDTO    `json:"items"`
	Page  PageResponse `json:"page"`
}
