package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/scims-analytics/internal/domain/entity"
	"github.com/jhoicas/scims-analytics/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// Los montos y cantidades en NULL se leen como 0 y los textos como '': un registro
// incompleto no debe invalidar la carga de toda la tienda.
const (
	fetchSalesQuery = `
	SELECT
	    s.id::TEXT,
	    s.store_id::TEXT,
	    COALESCE(s.receipt_number, ''),
	    s.transaction_date,
	    s.created_at,
	    s.updated_at,
	    COALESCE(s.status, ''),
	    COALESCE(s.payment_method, ''),
	    COALESCE(s.subtotal, 0),
	    COALESCE(s.discount_amount, 0),
	    COALESCE(s.tax_amount, 0),
	    COALESCE(s.total_amount, 0),
	    s.cash_received,
	    s.change_given,
	    c.id::TEXT,
	    COALESCE(c.name,  ''),
	    COALESCE(c.phone, ''),
	    COALESCE(c.email, ''),
	    COALESCE(u.id::TEXT,   ''),
	    COALESCE(u.username,   ''),
	    COALESCE(u.full_name,  '')
	FROM sales s
	LEFT JOIN customers c ON c.id = s.customer_id
	LEFT JOIN users     u ON u.id = s.cashier_id
	WHERE s.store_id = $1
	  AND ($2::TIMESTAMPTZ IS NULL OR COALESCE(s.transaction_date, s.created_at) >= $2)
	  AND ($3::TIMESTAMPTZ IS NULL OR COALESCE(s.transaction_date, s.created_at) <= $3)
	ORDER BY COALESCE(s.transaction_date, s.created_at) ASC, s.id ASC`

	fetchSaleItemsQuery = `
	SELECT
	    si.sale_id::TEXT,
	    COALESCE(si.product_id::TEXT, ''),
	    COALESCE(p.name, ''),
	    COALESCE(p.sku,  ''),
	    COALESCE(cat.name, ''),
	    COALESCE(si.quantity, 0),
	    COALESCE(si.unit_price, 0),
	    COALESCE(si.total_price, 0),
	    COALESCE(si.discount_amount, 0)
	FROM sale_items si
	LEFT JOIN products   p   ON p.id   = si.product_id
	LEFT JOIN categories cat ON cat.id = p.category_id
	WHERE si.sale_id = ANY($1::UUID[])
	ORDER BY si.sale_id, si.id`
)

// SaleRepo lectura de ventas por tienda.
//
// Tablas usadas: sales, sale_items, products, categories, customers, users.
// La fecha efectiva de una venta es COALESCE(transaction_date, created_at).
type SaleRepo struct {
	pool *pgxpool.Pool
}

// NewSaleRepository construye el adaptador de lectura de ventas.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

// FetchSales devuelve las ventas de la tienda con fecha efectiva en [from, to] (límites
// en zero value no se aplican), ordenadas por fecha ascendente y con sus líneas.
func (r *SaleRepo) FetchSales(ctx context.Context, storeID string, from, to time.Time) ([]entity.Sale, error) {
	if err := validateID("store_id", storeID); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, fetchSalesQuery, storeID, nullableTime(from), nullableTime(to))
	if err != nil {
		return nil, fmt.Errorf("sales.FetchSales: %w", err)
	}
	defer rows.Close()

	result := make([]entity.Sale, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			s          entity.Sale
			customerID *string
			customer   entity.SaleCustomer
			createdAt  *time.Time
			updatedAt  *time.Time
		)
		if err := rows.Scan(
			&s.ID,
			&s.StoreID,
			&s.ReceiptNumber,
			&s.TransactionDate,
			&createdAt,
			&updatedAt,
			&s.Status,
			&s.PaymentMethod,
			&s.Subtotal,
			&s.DiscountAmount,
			&s.TaxAmount,
			&s.TotalAmount,
			&s.CashReceived,
			&s.ChangeGiven,
			&customerID,
			&customer.Name,
			&customer.Phone,
			&customer.Email,
			&s.Cashier.ID,
			&s.Cashier.Username,
			&s.Cashier.Name,
		); err != nil {
			return nil, fmt.Errorf("sales.FetchSales scan: %w", err)
		}
		if createdAt != nil {
			s.CreatedAt = *createdAt
		}
		if updatedAt != nil {
			s.UpdatedAt = *updatedAt
		}
		if customerID != nil {
			customer.ID = *customerID
			s.Customer = &customer
		}
		index[s.ID] = len(result)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales.FetchSales rows: %w", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	if err := r.attachItems(ctx, result, index); err != nil {
		return nil, err
	}
	return result, nil
}

// attachItems carga en una sola consulta las líneas de todas las ventas y las asigna por sale_id.
func (r *SaleRepo) attachItems(ctx context.Context, sales []entity.Sale, index map[string]int) error {
	ids := make([]string, 0, len(sales))
	for i := range sales {
		ids = append(ids, sales[i].ID)
	}

	rows, err := r.pool.Query(ctx, fetchSaleItemsQuery, ids)
	if err != nil {
		return fmt.Errorf("sales.attachItems: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			saleID string
			item   entity.SaleItem
		)
		if err := rows.Scan(
			&saleID,
			&item.ProductID,
			&item.ProductName,
			&item.SKU,
			&item.CategoryName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.DiscountAmount,
		); err != nil {
			return fmt.Errorf("sales.attachItems scan: %w", err)
		}
		if pos, ok := index[saleID]; ok {
			sales[pos].Items = append(sales[pos].Items, item)
		}
	}
	return rows.Err()
}
