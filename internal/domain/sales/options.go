package sales

import (
	"slices"

	"github.com/jhoicas/scims-analytics/internal/domain/entity"
)

// FilterOptions valores distintos presentes en un conjunto de ventas, para poblar
// los selectores del reporte (método de pago, estado, cajero).
type FilterOptions struct {
	PaymentMethods []string `json:"payment_methods"`
	Statuses       []string `json:"statuses"`
	Cashiers       []string `json:"cashiers"` // username, o nombre si no hay username
}

// Options recolecta los valores distintos de sales, ordenados alfabéticamente.
func Options(sales []entity.Sale) FilterOptions {
	methods := make(map[string]struct{})
	statuses := make(map[string]struct{})
	cashiers := make(map[string]struct{})
	for i := range sales {
		s := &sales[i]
		if s.PaymentMethod != "" {
			methods[s.PaymentMethod] = struct{}{}
		}
		if s.Status != "" {
			statuses[s.Status] = struct{}{}
		}
		if c := cashierLabel(s.Cashier); c != "" {
			cashiers[c] = struct{}{}
		}
	}
	return FilterOptions{
		PaymentMethods: sortedKeys(methods),
		Statuses:       sortedKeys(statuses),
		Cashiers:       sortedKeys(cashiers),
	}
}

func cashierLabel(c entity.SaleCashier) string {
	if c.Username != "" {
		return c.Username
	}
	return c.Name
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
