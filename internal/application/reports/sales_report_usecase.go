package reports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/scims-analytics/internal/application/dto"
	"github.com/jhoicas/scims-analytics/internal/domain"
	"github.com/jhoicas/scims-analytics/internal/domain/entity"
	"github.com/jhoicas/scims-analytics/internal/domain/repository"
	"github.com/jhoicas/scims-analytics/internal/domain/sales"
)

const (
	dateLayout              = "2006-01-02"
	defaultFetchConcurrency = 8
	defaultMaxTopN          = 100
	cacheKeyPrefix          = "scims:sales-summary:"
)

// Config políticas del caso de uso (vienen de pkg/config).
type Config struct {
	DefaultTopN      int           // tamaño de ranking si la petición no lo indica
	MaxTopN          int           // tope de top_n
	FetchConcurrency int           // cargas de tienda simultáneas
	AllowPartial     bool          // true: una tienda que falla se omite y se reporta en failed_stores
	CacheTTL         time.Duration // 0 = sin cache
	DefaultTimezone  string        // zona si el negocio no tiene una configurada
}

// SalesReportUseCase orquesta el reporte de ventas:
//
//	alcance → carga por tienda (fan-out) → cache → Filter → Aggregate → DTO
//
// La carga de ventas es la única parte con I/O; filtrado y agregación son puros.
type SalesReportUseCase struct {
	scope  *ScopeResolver
	sales  repository.SaleRepository
	stores repository.StoreDirectory
	cache  StatsCache          // opcional
	pdf    SummaryPDFGenerator // opcional
	cfg    Config
	log    zerolog.Logger
}

// NewSalesReportUseCase construye el caso de uso. cache y pdf pueden ser nil.
func NewSalesReportUseCase(
	scope *ScopeResolver,
	salesRepo repository.SaleRepository,
	stores repository.StoreDirectory,
	cache StatsCache,
	pdf SummaryPDFGenerator,
	cfg Config,
	log zerolog.Logger,
) *SalesReportUseCase {
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = sales.DefaultTopN
	}
	if cfg.MaxTopN <= 0 {
		cfg.MaxTopN = defaultMaxTopN
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = defaultFetchConcurrency
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}
	return &SalesReportUseCase{
		scope:  scope,
		sales:  salesRepo,
		stores: stores,
		cache:  cache,
		pdf:    pdf,
		cfg:    cfg,
		log:    log,
	}
}

// reportQuery petición ya validada y convertida a tipos de dominio.
type reportQuery struct {
	spec   sales.FilterSpec
	topN   int
	period dto.PeriodDTO
}

// dataset ventas cargadas para un alcance, antes de filtrar.
type dataset struct {
	storeIDs []string
	failed   []string
	loc      *time.Location
	query    reportQuery
	sales    []entity.Sale
}

// GetSummary calcula el resumen estadístico del reporte.
func (uc *SalesReportUseCase) GetSummary(
	ctx context.Context,
	caller Caller,
	req dto.SalesReportRequest,
) (*dto.SalesSummaryDTO, error) {
	ds, err := uc.load(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	bundle := uc.statistics(ctx, ds)
	return buildSummaryDTO(ds, bundle), nil
}

// ListTransactions devuelve las ventas filtradas, paginadas y en el orden del repositorio.
func (uc *SalesReportUseCase) ListTransactions(
	ctx context.Context,
	caller Caller,
	req dto.SalesReportRequest,
	page dto.PageRequest,
) (*dto.SalesListDTO, error) {
	page.DefaultPage()
	ds, err := uc.load(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	filtered := sales.Filter(ds.sales, ds.query.spec)

	start := min(page.Offset, len(filtered))
	end := min(start+page.Limit, len(filtered))
	items := make([]dto.SaleDTO, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, toSaleDTO(&filtered[i]))
	}
	return &dto.SalesListDTO{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(filtered)},
	}, nil
}

// GetFilterOptions devuelve los valores disponibles para los selectores del reporte,
// calculados sobre las ventas del alcance y del rango de fechas (sin el resto de filtros).
func (uc *SalesReportUseCase) GetFilterOptions(
	ctx context.Context,
	caller Caller,
	req dto.SalesReportRequest,
) (*sales.FilterOptions, error) {
	ds, err := uc.load(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	opts := sales.Options(ds.sales)
	return &opts, nil
}

// ExportSummaryPDF genera el PDF del resumen; devuelve los bytes y el nombre sugerido del archivo.
func (uc *SalesReportUseCase) ExportSummaryPDF(
	ctx context.Context,
	caller Caller,
	req dto.SalesReportRequest,
) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", errors.New("reporte: generador PDF no configurado")
	}
	summary, err := uc.GetSummary(ctx, caller, req)
	if err != nil {
		return nil, "", err
	}
	title := "Reporte de ventas"
	doc, err := uc.pdf.GenerateSalesSummaryPDF(ctx, title, summary)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar PDF: %w", err)
	}
	return doc, exportFilename(summary.Period), nil
}

func exportFilename(p dto.PeriodDTO) string {
	switch {
	case p.StartDate != "" && p.EndDate != "":
		return fmt.Sprintf("ventas-%s_%s.pdf", p.StartDate, p.EndDate)
	case p.StartDate != "":
		return fmt.Sprintf("ventas-desde-%s.pdf", p.StartDate)
	case p.EndDate != "":
		return fmt.Sprintf("ventas-hasta-%s.pdf", p.EndDate)
	}
	return "ventas.pdf"
}

// ── Carga ─────────────────────────────────────────────────────────────────────

func (uc *SalesReportUseCase) load(ctx context.Context, caller Caller, req dto.SalesReportRequest) (*dataset, error) {
	storeIDs, err := uc.scope.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if req.StoreID != "" {
		if !slices.Contains(storeIDs, req.StoreID) {
			return nil, fmt.Errorf("%w: la tienda %s no pertenece al alcance del usuario", domain.ErrForbidden, req.StoreID)
		}
		storeIDs = []string{req.StoreID}
	}

	loc := uc.location(ctx, caller.BusinessID)
	query, err := parseReportQuery(req, loc, uc.cfg)
	if err != nil {
		return nil, err
	}

	rows, failed, err := uc.fetchAll(ctx, storeIDs, query.spec.DateFrom, query.spec.DateTo)
	if err != nil {
		return nil, err
	}
	return &dataset{
		storeIDs: storeIDs,
		failed:   failed,
		loc:      loc,
		query:    query,
		sales:    rows,
	}, nil
}

// fetchAll carga en paralelo las ventas de cada tienda y las concatena en el orden del alcance.
// Cada goroutine escribe solo su propia posición de results; no hay estado compartido.
func (uc *SalesReportUseCase) fetchAll(
	ctx context.Context,
	storeIDs []string,
	from, to time.Time,
) ([]entity.Sale, []string, error) {
	results := make([][]entity.Sale, len(storeIDs))
	failed := make([]bool, len(storeIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.FetchConcurrency)
	for i, storeID := range storeIDs {
		g.Go(func() error {
			rows, err := uc.sales.FetchSales(gctx, storeID, from, to)
			if err != nil {
				if uc.cfg.AllowPartial && ctx.Err() == nil {
					uc.log.Warn().Err(err).Str("store_id", storeID).Msg("reporte: tienda omitida por error de carga")
					failed[i] = true
					return nil
				}
				return fmt.Errorf("reporte: ventas de la tienda %s: %w", storeID, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	all := make([]entity.Sale, 0, total)
	var failedIDs []string
	for i, r := range results {
		all = append(all, r...)
		if failed[i] {
			failedIDs = append(failedIDs, storeIDs[i])
		}
	}
	return all, failedIDs, nil
}

// location resuelve la zona horaria del negocio; si no hay o es inválida usa la de configuración.
func (uc *SalesReportUseCase) location(ctx context.Context, businessID string) *time.Location {
	name := uc.cfg.DefaultTimezone
	if businessID != "" {
		business, err := uc.stores.GetBusiness(ctx, businessID)
		switch {
		case err != nil:
			uc.log.Warn().Err(err).Str("business_id", businessID).Msg("reporte: no se pudo leer la zona horaria del negocio")
		case business != nil && business.Timezone != "":
			name = business.Timezone
		}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		uc.log.Warn().Err(err).Str("timezone", name).Msg("reporte: zona horaria inválida, se usa UTC")
		return time.UTC
	}
	return loc
}

// ── Estadísticas + cache ──────────────────────────────────────────────────────

func (uc *SalesReportUseCase) statistics(ctx context.Context, ds *dataset) sales.StatisticsBundle {
	useCache := uc.cache != nil && uc.cfg.CacheTTL > 0
	var key string
	if useCache {
		key = cacheKey(ds)
		cached, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("reporte: lectura de cache")
		} else if ok {
			return *cached
		}
	}

	bundle := sales.Aggregate(
		sales.Filter(ds.sales, ds.query.spec),
		sales.AggregateOptions{TopN: ds.query.topN, Location: ds.loc},
	)

	if useCache {
		if err := uc.cache.Set(ctx, key, &bundle, uc.cfg.CacheTTL); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("reporte: escritura de cache")
		}
	}
	uc.log.Debug().
		Int("stores", len(ds.storeIDs)).
		Int("sales", len(ds.sales)).
		Int("orders", bundle.TotalOrders).
		Msg("reporte de ventas calculado")
	return bundle
}

// cacheKey = versión del conjunto de ventas + filtro + opciones de agregación.
func cacheKey(ds *dataset) string {
	s := ds.query.spec
	maxAmount := "inf"
	if s.MaxAmount.Valid {
		maxAmount = s.MaxAmount.Decimal.String()
	}
	parts := []string{
		strconv.FormatInt(timeKey(s.DateFrom), 10),
		strconv.FormatInt(timeKey(s.DateTo), 10),
		s.PaymentMethod,
		s.Status,
		s.Cashier,
		strings.TrimSpace(s.Search),
		s.MinAmount.String(),
		maxAmount,
		strconv.Itoa(ds.query.topN),
		ds.loc.String(),
	}
	filterHash := xxhash.Sum64String(strings.Join(parts, "\x00"))
	return cacheKeyPrefix + sales.Fingerprint(ds.sales) + ":" + strconv.FormatUint(filterHash, 16)
}

func timeKey(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

// ── Validación de la petición ────────────────────────────────────────────────

// parseReportQuery convierte los parámetros de texto en un FilterSpec.
// Las fechas se interpretan en loc; end_date incluye el día completo.
func parseReportQuery(req dto.SalesReportRequest, loc *time.Location, cfg Config) (reportQuery, error) {
	q := reportQuery{
		spec: sales.FilterSpec{
			PaymentMethod: strings.TrimSpace(req.PaymentMethod),
			Status:        strings.TrimSpace(req.Status),
			Cashier:       strings.TrimSpace(req.Cashier),
			Search:        strings.TrimSpace(req.Search),
			MinAmount:     decimal.Zero,
		},
		period: dto.PeriodDTO{StartDate: req.StartDate, EndDate: req.EndDate},
	}

	if req.StartDate != "" {
		start, err := time.ParseInLocation(dateLayout, req.StartDate, loc)
		if err != nil {
			return q, fmt.Errorf("%w: start_date inválido: %v", domain.ErrInvalidInput, err)
		}
		q.spec.DateFrom = start
	}
	if req.EndDate != "" {
		end, err := time.ParseInLocation(dateLayout, req.EndDate, loc)
		if err != nil {
			return q, fmt.Errorf("%w: end_date inválido: %v", domain.ErrInvalidInput, err)
		}
		q.spec.DateTo = end.AddDate(0, 0, 1).Add(-time.Nanosecond) // inclusive hasta el final del día
	}
	if !q.spec.DateFrom.IsZero() && !q.spec.DateTo.IsZero() && q.spec.DateFrom.After(q.spec.DateTo) {
		return q, fmt.Errorf("%w: start_date no puede ser posterior a end_date", domain.ErrInvalidInput)
	}

	if req.MinAmount != "" {
		v, err := decimal.NewFromString(req.MinAmount)
		if err != nil || v.IsNegative() {
			return q, fmt.Errorf("%w: min_amount debe ser un número no negativo", domain.ErrInvalidInput)
		}
		q.spec.MinAmount = v
	}
	if req.MaxAmount != "" {
		v, err := decimal.NewFromString(req.MaxAmount)
		if err != nil {
			return q, fmt.Errorf("%w: max_amount inválido", domain.ErrInvalidInput)
		}
		if v.LessThan(q.spec.MinAmount) {
			return q, fmt.Errorf("%w: max_amount no puede ser menor que min_amount", domain.ErrInvalidInput)
		}
		q.spec.MaxAmount = decimal.NewNullDecimal(v)
	}

	q.topN = req.TopN
	if q.topN <= 0 {
		q.topN = cfg.DefaultTopN
	}
	if q.topN > cfg.MaxTopN {
		q.topN = cfg.MaxTopN
	}
	return q, nil
}

// ── Mapeo a DTO ───────────────────────────────────────────────────────────────

func buildSummaryDTO(ds *dataset, b sales.StatisticsBundle) *dto.SalesSummaryDTO {
	return &dto.SalesSummaryDTO{
		Period:            ds.query.period,
		Timezone:          ds.loc.String(),
		StoreIDs:          ds.storeIDs,
		FailedStores:      ds.failed,
		TotalOrders:       b.TotalOrders,
		TotalRevenue:      b.TotalRevenue.Round(2),
		TotalDiscounts:    b.TotalDiscounts.Round(2),
		TotalTax:          b.TotalTax.Round(2),
		AverageOrderValue: b.AverageOrderValue.Round(2),
		UniqueCustomers:   b.UniqueCustomers,
		TopProducts:       b.TopProducts,
		TopCategories:     b.TopCategories,
		PaymentBreakdown:  b.PaymentBreakdown,
		DailyRevenue:      b.DailyRevenue,
	}
}

func toSaleDTO(s *entity.Sale) dto.SaleDTO {
	out := dto.SaleDTO{
		ID:              s.ID,
		ReceiptNumber:   s.ReceiptNumber,
		TransactionDate: s.TransactionDate,
		CreatedAt:       s.CreatedAt,
		Status:          s.Status,
		PaymentMethod:   s.PaymentMethod,
		Subtotal:        s.Subtotal,
		DiscountAmount:  s.DiscountAmount,
		TaxAmount:       s.TaxAmount,
		TotalAmount:     s.TotalAmount,
		CashierUsername: s.Cashier.Username,
		CashierName:     s.Cashier.Name,
		StoreID:         s.StoreID,
		Items:           make([]dto.SaleItemDTO, 0, len(s.Items)),
	}
	if s.CashReceived.Valid {
		v := s.CashReceived.Decimal
		out.CashReceived = &v
	}
	if s.ChangeGiven.Valid {
		v := s.ChangeGiven.Decimal
		out.ChangeGiven = &v
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
		out.CustomerName = s.Customer.Name
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemDTO{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			SKU:            it.SKU,
			CategoryName:   it.CategoryName,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			TotalPrice:     it.TotalPrice,
			DiscountAmount: it.DiscountAmount,
		})
	}
	return out
}
