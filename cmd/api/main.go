package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // zonas IANA disponibles aunque la imagen no tenga /usr/share/zoneinfo

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/text/language"

	"github.com/jhoicas/scims-analytics/internal/application/reports"
	infracache "github.com/jhoicas/scims-analytics/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/scims-analytics/internal/infrastructure/pdf"
	"github.com/jhoicas/scims-analytics/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/scims-analytics/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/scims-analytics/internal/interfaces/http"
	"github.com/jhoicas/scims-analytics/pkg/config"
	"github.com/jhoicas/scims-analytics/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	saleRepo := postgres.NewSaleRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)

	// Cache de estadísticas: Redis compartido si hay REDIS_URL, si no memoria del proceso.
	var statsCache reports.StatsCache
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		statsCache = infraredis.NewStatsCache(client)
		log.Info().Msg("cache de reportes: redis")
	} else {
		statsCache = infracache.NewMemoryStatsCache(cfg.Reports.CacheMaxEntries, cfg.Reports.CacheTTL)
		log.Info().Msg("cache de reportes: memoria")
	}

	pdfLang, err := language.Parse(cfg.Reports.PDFLanguage)
	if err != nil {
		log.Warn().Err(err).Str("lang", cfg.Reports.PDFLanguage).Msg("idioma del PDF inválido, se usa es")
		pdfLang = language.Spanish
	}
	pdfGenerator := infrapdf.NewSummaryPDFGenerator(pdfLang)

	salesReportUC := reports.NewSalesReportUseCase(
		reports.NewScopeResolver(storeRepo),
		saleRepo,
		storeRepo,
		statsCache,
		pdfGenerator,
		reports.Config{
			DefaultTopN:      cfg.Reports.DefaultTopN,
			MaxTopN:          cfg.Reports.MaxTopN,
			FetchConcurrency: cfg.Reports.FetchConcurrency,
			AllowPartial:     cfg.Reports.AllowPartial,
			CacheTTL:         cfg.Reports.CacheTTL,
			DefaultTimezone:  cfg.Reports.Timezone,
		},
		log.Component("reports"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SCIMS Sales Analytics API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SalesReportUC: salesReportUC,
		Businesses:    storeRepo,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
