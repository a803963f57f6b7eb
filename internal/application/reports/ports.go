package reports

import (
	"context"
	"time"

	"github.com/jhoicas/scims-analytics/internal/application/dto"
	"github.com/jhoicas/scims-analytics/internal/domain/sales"
)

// StatsCache memoiza StatisticsBundle por clave (versión del conjunto de ventas + filtros).
// Un fallo del cache nunca debe romper el reporte: el caso de uso lo registra y recalcula.
type StatsCache interface {
	// Get devuelve (bundle, true, nil) en un acierto y (nil, false, nil) si la clave no existe.
	Get(ctx context.Context, key string) (*sales.StatisticsBundle, bool, error)
	Set(ctx context.Context, key string, bundle *sales.StatisticsBundle, ttl time.Duration) error
}

// SummaryPDFGenerator renderiza el resumen de ventas como PDF.
type SummaryPDFGenerator interface {
	GenerateSalesSummaryPDF(ctx context.Context, title string, summary *dto.SalesSummaryDTO) ([]byte, error)
}
