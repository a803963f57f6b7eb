package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/scims-analytics/internal/application/reports"
	"github.com/jhoicas/scims-analytics/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SalesReportUC *reports.SalesReportUseCase
	Businesses    businessLookup // nil = no se verifica el estado del negocio
	JWTSecret     string
	Log           zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token y un rol con acceso a reportes)
	protected := []fiber.Handler{
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.ReportRoles...),
	}
	if deps.Businesses != nil {
		protected = append(protected, RequireActiveBusiness(deps.Businesses, deps.Log))
	}

	salesReports := api.Group("/reports/sales", protected...)
	h := NewSalesReportHandler(deps.SalesReportUC, deps.Log)
	salesReports.Get("/summary", h.GetSummary)
	salesReports.Get("/transactions", h.ListTransactions)
	salesReports.Get("/filters", h.GetFilterOptions)
	salesReports.Get("/export.pdf", h.ExportPDF)
}
