package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aguasaustral/facturacion-api/internal/application/billing"
	domainbilling "github.com/aguasaustral/facturacion-api/internal/domain/billing"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/infrastructure/metrics"
	"github.com/aguasaustral/facturacion-api/internal/infrastructure/postgres"
	"github.com/aguasaustral/facturacion-api/pkg/config"
	"github.com/aguasaustral/facturacion-api/pkg/logger"
)

// facturador: corrida masiva de facturación desde línea de comandos.
//
//	facturador -period-start 2024-05-01 -period-end 2024-06-01 -lecturas lecturas.csv
//
// El CSV de lecturas trae una fila por cliente: customer_id,consumo_m3.
// SIGINT/SIGTERM cancelan la corrida entre clientes; las boletas ya emitidas
// quedan intactas.
func main() {
	var (
		periodStart = flag.String("period-start", "", "inicio del período (YYYY-MM-DD, inclusivo)")
		periodEnd   = flag.String("period-end", "", "fin del período (YYYY-MM-DD, exclusivo)")
		lecturas    = flag.String("lecturas", "", "CSV de lecturas: customer_id,consumo_m3")
		workers     = flag.Int("workers", 0, "clientes en paralelo (0 = BILLING_BATCH_WORKERS)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	period, err := parsePeriod(*periodStart, *periodEnd)
	if err != nil {
		log.Fatal().Err(err).Msg("período inválido")
	}
	if *lecturas == "" {
		log.Fatal().Msg("falta -lecturas")
	}
	customers, err := readLecturas(*lecturas)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", *lecturas).Msg("leer lecturas")
	}
	if *workers <= 0 {
		*workers = cfg.Billing.BatchWorkers
	}
	if cutoff, ok := cfg.Billing.CutoffDate(); ok {
		domainbilling.NewFormulaCutoff = cutoff
		log.Warn().Time("corte", cutoff).Msg("fecha de corte de fórmula de subsidio sobreescrita por configuración")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tariffRepo := postgres.NewTariffRepository(pool)
	subsidyRepo := postgres.NewSubsidyRepository(pool)
	discountRepo := postgres.NewDiscountRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	finalizeUC := billing.NewFinalizeBoletaUseCase(
		txRunner,
		billing.NewTariffResolver(tariffRepo),
		billing.NewSubsidyResolver(subsidyRepo),
		billing.NewDiscountAggregator(discountRepo),
		billing.NewReposicionProcessor(log),
		log, cfg.Billing.DueDays,
	)
	runner := billing.NewBatchRunner(finalizeUC, log, metrics.NewBatchMetrics(nil))

	log.Info().
		Time("inicio", period.Start).
		Time("fin", period.End).
		Int("clientes", len(customers)).
		Int("workers", *workers).
		Msg("iniciando corrida de facturación")

	report, err := runner.Run(ctx, billing.BatchRequest{
		Period:    period,
		Customers: customers,
		Workers:   *workers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("corrida de facturación")
	}
	if report.Cancelled {
		log.Warn().Int("emitidas", report.Emitted).Msg("corrida cancelada, boletas ya emitidas quedan vigentes")
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}

func parsePeriod(start, end string) (entity.Period, error) {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return entity.Period{}, fmt.Errorf("period-start: %w", err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return entity.Period{}, fmt.Errorf("period-end: %w", err)
	}
	p := entity.Period{Start: s, End: e}
	if !p.Valid() {
		return entity.Period{}, fmt.Errorf("el período debe cumplir inicio < fin")
	}
	return p, nil
}

func readLecturas(path string) ([]billing.BatchCustomer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	var customers []billing.BatchCustomer
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		consumption, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("línea %d: consumo inválido %q", line, record[1])
		}
		customers = append(customers, billing.BatchCustomer{
			CustomerID:    record[0],
			ConsumptionM3: consumption,
		})
	}
	return customers, nil
}
