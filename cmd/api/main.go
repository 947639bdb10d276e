package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aguasaustral/facturacion-api/internal/application/billing"
	domainbilling "github.com/aguasaustral/facturacion-api/internal/domain/billing"
	"github.com/aguasaustral/facturacion-api/internal/infrastructure/postgres"
	httpRouter "github.com/aguasaustral/facturacion-api/internal/interfaces/http"
	"github.com/aguasaustral/facturacion-api/pkg/config"
	"github.com/aguasaustral/facturacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Sobreescritura opcional de la fecha de corte legal de la fórmula de
	// subsidio (cargas de datos de prueba).
	if cutoff, ok := cfg.Billing.CutoffDate(); ok {
		domainbilling.NewFormulaCutoff = cutoff
		log.Warn().Time("corte", cutoff).Msg("fecha de corte de fórmula de subsidio sobreescrita por configuración")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tariffRepo := postgres.NewTariffRepository(pool)
	subsidyRepo := postgres.NewSubsidyRepository(pool)
	discountRepo := postgres.NewDiscountRepository(pool)
	fineRepo := postgres.NewFineRepository(pool)
	reconnectionRepo := postgres.NewReconnectionRepository(pool)
	boletaRepo := postgres.NewBoletaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	tariffResolver := billing.NewTariffResolver(tariffRepo)
	subsidyResolver := billing.NewSubsidyResolver(subsidyRepo)
	discounts := billing.NewDiscountAggregator(discountRepo)
	processor := billing.NewReposicionProcessor(log)

	computeUC := billing.NewComputeBoletaUseCase(
		tariffResolver, subsidyResolver, discounts,
		fineRepo, reconnectionRepo, processor,
	)
	finalizeUC := billing.NewFinalizeBoletaUseCase(
		txRunner, tariffResolver, subsidyResolver, discounts, processor,
		log, cfg.Billing.DueDays,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ComputeBoleta:  computeUC,
		FinalizeBoleta: finalizeUC,
		BoletaRepo:     boletaRepo,
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
