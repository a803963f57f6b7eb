package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/scims-analytics/internal/application/dto"
	"github.com/jhoicas/scims-analytics/internal/application/reports"
	"github.com/jhoicas/scims-analytics/internal/domain"
)

// SalesReportHandler maneja los endpoints del reporte de ventas.
type SalesReportHandler struct {
	uc  *reports.SalesReportUseCase
	log zerolog.Logger
}

// NewSalesReportHandler construye el handler.
func NewSalesReportHandler(uc *reports.SalesReportUseCase, log zerolog.Logger) *SalesReportHandler {
	return &SalesReportHandler{uc: uc, log: log}
}

// GetSummary godoc
// @Summary      Resumen estadístico de ventas
// @Description  Totales, ticket promedio, top productos y categorías, desglose por método de pago
//               y serie diaria de ingresos para las tiendas visibles al usuario.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date      query  string  false  "Inicio (YYYY-MM-DD, zona del negocio)"
// @Param        end_date        query  string  false  "Fin inclusive (YYYY-MM-DD)"
// @Param        payment_method  query  string  false  "Método de pago o All"
// @Param        status          query  string  false  "Estado de la venta o All"
// @Param        cashier         query  string  false  "Username o nombre del cajero, o All"
// @Param        search          query  string  false  "Recibo, cliente, producto o SKU"
// @Param        min_amount      query  string  false  "Monto mínimo (default 0)"
// @Param        max_amount      query  string  false  "Monto máximo"
// @Param        top_n           query  int     false  "Tamaño de los rankings (default 10)"
// @Param        store_id        query  string  false  "Acota el reporte a una tienda"
// @Success      200  {object}  dto.SalesSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/sales/summary [get]
func (h *SalesReportHandler) GetSummary(c *fiber.Ctx) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.GetSummary(c.UserContext(), callerFrom(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Ventas filtradas (paginadas)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20, max 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.SalesListDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/sales/transactions [get]
func (h *SalesReportHandler) ListTransactions(c *fiber.Ctx) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return h.fail(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return h.fail(c, fmt.Errorf("%w: limit/offset inválidos", domain.ErrInvalidInput))
	}
	out, err := h.uc.ListTransactions(c.UserContext(), callerFrom(c), req, page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetFilterOptions godoc
// @Summary      Valores disponibles para los filtros del reporte
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  sales.FilterOptions
// @Router       /api/reports/sales/filters [get]
func (h *SalesReportHandler) GetFilterOptions(c *fiber.Ctx) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.GetFilterOptions(c.UserContext(), callerFrom(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ExportPDF godoc
// @Summary      Resumen de ventas en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/sales/export.pdf [get]
func (h *SalesReportHandler) ExportPDF(c *fiber.Ctx) error {
	req, err := parseReportRequest(c)
	if err != nil {
		return h.fail(c, err)
	}
	doc, filename, err := h.uc.ExportSummaryPDF(c.UserContext(), callerFrom(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(doc)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// parseReportRequest lee los query params del reporte.
func parseReportRequest(c *fiber.Ctx) (dto.SalesReportRequest, error) {
	var req dto.SalesReportRequest
	if err := c.QueryParser(&req); err != nil {
		return req, fmt.Errorf("%w: parámetros de consulta inválidos: %v", domain.ErrInvalidInput, err)
	}
	return req, nil
}

func callerFrom(c *fiber.Ctx) reports.Caller {
	return reports.Caller{
		UserID:     GetUserID(c),
		Role:       GetRole(c),
		BusinessID: GetBusinessID(c),
		StoreID:    GetStoreID(c),
	}
}

// fail traduce errores de dominio a HTTP.
func (h *SalesReportHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BAD_REQUEST", Message: err.Error()})
	case errors.Is(err, domain.ErrScope):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_ERROR", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	h.log.Error().Err(err).
		Str("user_id", GetUserID(c)).
		Str("business_id", GetBusinessID(c)).
		Str("path", c.Path()).
		Msg("reporte de ventas")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL_ERROR", Message: "no se pudo generar el reporte",
	})
}
