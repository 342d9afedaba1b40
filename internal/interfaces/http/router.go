package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/taller-api/internal/application/checks"
	"github.com/jhoicas/taller-api/internal/application/counterparties"
	"github.com/jhoicas/taller-api/internal/application/documents"
	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/application/reporting"
	"github.com/jhoicas/taller-api/internal/application/settlements"
	"github.com/jhoicas/taller-api/internal/application/treasury"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	Documents      *documents.UseCase
	Settlements    *settlements.UseCase
	Checks         *checks.UseCase
	Treasury       *treasury.LedgerUseCase
	Counterparties *counterparties.UseCase
	Reporting      *reporting.UseCase
	Idempotency    ports.IdempotencyStore
	IdempotencyTTL time.Duration
	JWTSecret      string
	JWTIssuer      string
	Log            *logger.Logger
}

// NewApp crea la app Fiber con el manejo de errores de dominio, recover y log de requests.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	idem := Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Log)

	valuation := NewValuationHandler(deps.Documents)
	api.Post("/valuation/line", valuation.PreviewLine)

	docs := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Documents, deps.Reporting)
	settlementHandler := NewSettlementHandler(deps.Settlements)
	docs.Get("/next-number", documentHandler.NextNumber)
	docs.Post("/", documentHandler.Create)
	docs.Get("/", documentHandler.List)
	docs.Get("/:id", documentHandler.Get)
	docs.Put("/:id", documentHandler.Update)
	docs.Delete("/:id", documentHandler.Delete)
	docs.Get("/:id/pdf", documentHandler.PDF)
	docs.Post("/:id/settlements", idem, settlementHandler.Apply)
	docs.Get("/:id/settlements", settlementHandler.List)
	api.Delete("/settlements/:id", settlementHandler.Delete)

	checkGroup := api.Group("/checks")
	checkHandler := NewCheckHandler(deps.Checks)
	checkGroup.Get("/", checkHandler.List)
	checkGroup.Get("/:id", checkHandler.Get)
	checkGroup.Post("/:id/transition", checkHandler.Transition)

	tre := api.Group("/treasury")
	treasuryHandler := NewTreasuryHandler(deps.Treasury)
	tre.Post("/accounts", treasuryHandler.CreateAccount)
	tre.Get("/accounts", treasuryHandler.ListAccounts)
	tre.Delete("/accounts/:id", treasuryHandler.DeleteAccount)
	tre.Get("/accounts/:id/statement", treasuryHandler.Statement)
	tre.Get("/accounts/:id/audit", treasuryHandler.Audit)
	tre.Post("/movements", idem, treasuryHandler.CreateMovement)
	tre.Delete("/movements/:id", treasuryHandler.DeleteMovement)

	cps := api.Group("/counterparties")
	counterpartyHandler := NewCounterpartyHandler(deps.Counterparties)
	cps.Post("/", counterpartyHandler.Create)
	cps.Get("/", counterpartyHandler.List)
	cps.Get("/:id", counterpartyHandler.Get)
	cps.Delete("/:id", counterpartyHandler.Delete)
}
