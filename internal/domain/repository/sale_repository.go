package repository

import (
	"context"
	"time"

	"github.com/jhoicas/scims-analytics/internal/domain/entity"
)

// SaleRepository define el puerto de lectura de ventas (DIP).
// Las implementaciones son read-only y devuelven las líneas con los datos del producto
// desnormalizados (nombre, SKU, categoría).
type SaleRepository interface {
	// FetchSales devuelve las ventas de una tienda cuya fecha efectiva cae en [from, to].
	// Un límite en zero value no se aplica. El orden es por fecha ascendente.
	FetchSales(ctx context.Context, storeID string, from, to time.Time) ([]entity.Sale, error)
}
