package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/taller-api/docs"
	"github.com/jhoicas/taller-api/internal/application/checks"
	"github.com/jhoicas/taller-api/internal/application/counterparties"
	"github.com/jhoicas/taller-api/internal/application/documents"
	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/application/reporting"
	"github.com/jhoicas/taller-api/internal/application/settlements"
	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/internal/infrastructure/idempotency"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/taller-api/internal/infrastructure/pdf"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	now := ports.Clock(time.Now)

	// Almacenamiento: PostgreSQL (migraciones embebidas al arrancar) o memoria para desarrollo.
	var tx ports.TxRunner
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		tx = memory.NewStore()
	default:
		migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("migrador")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		if err := migrator.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}

		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx = postgres.NewTxRunner(pool, cfg.Store.MaxRetries, log)
	}

	// Claves de idempotencia: Redis si está configurado (varias instancias), si no en memoria.
	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		redisStore, err := idempotency.NewRedisStore(ctx, idempotency.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStore.Close()
		idem = redisStore
	} else {
		idem = idempotency.NewMemoryStore(now)
	}

	ledgerUC := treasury.NewLedgerUseCase(tx, now, log)
	documentsUC := documents.NewUseCase(tx, ledgerUC, now, log)
	settlementsUC := settlements.NewUseCase(tx, ledgerUC, now, log)
	checksUC := checks.NewUseCase(tx, now, log)
	counterpartiesUC := counterparties.NewUseCase(tx)

	// PDF: comprobante interno con detalle, totales, medios de pago y cobros/pagos
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	reportingUC := reporting.NewUseCase(tx, pdfGenerator)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taller API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:        cfg.App.Name,
		Documents:      documentsUC,
		Settlements:    settlementsUC,
		Checks:         checksUC,
		Treasury:       ledgerUC,
		Counterparties: counterpartiesUC,
		Reporting:      reportingUC,
		Idempotency:    idem,
		IdempotencyTTL: cfg.Idempotency.TTL,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		Log:            log,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
