package billing_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aguasaustral/facturacion-api/internal/application/billing"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/pkg/logger"
)

type countingObserver struct {
	emitidas atomic.Int64
	fallidas atomic.Int64
	omitidas atomic.Int64
	duracion atomic.Int64
}

func (o *countingObserver) BoletaEmitida()      { o.emitidas.Add(1) }
func (o *countingObserver) BoletaFallida()      { o.fallidas.Add(1) }
func (o *countingObserver) BoletaOmitida()      { o.omitidas.Add(1) }
func (o *countingObserver) RunDuration(float64) { o.duracion.Add(1) }

// Una corrida mixta: un cliente emite, uno ya tenía boleta (se omite) y uno
// falla. La falla de un cliente jamás detiene a los demás.
func TestBatchRunner_ReporteMixto(t *testing.T) {
	period := testPeriod()
	fines := &fakeFineRepo{listErr: map[string]error{
		"c3": errors.New("timeout de base de datos"),
	}}
	events := &fakeReconnectionRepo{}
	boletas := &fakeBoletaRepo{boletas: []*entity.Boleta{
		{ID: "previa", CustomerID: "c2", PeriodStart: period.Start},
	}}
	uc := billing.NewFinalizeBoletaUseCase(
		newFakeTxRunner(fines, events, boletas),
		billing.NewTariffResolver(&fakeTariffRepo{tariffs: []*entity.Tariff{testTariff()}}),
		billing.NewSubsidyResolver(&fakeSubsidyRepo{}),
		billing.NewDiscountAggregator(&fakeDiscountRepo{}),
		billing.NewReposicionProcessor(logger.Nop()),
		logger.Nop(),
		testDueDays,
	)

	observer := &countingObserver{}
	runner := billing.NewBatchRunner(uc, logger.Nop(), observer)

	report, err := runner.Run(context.Background(), billing.BatchRequest{
		Period: period,
		Customers: []billing.BatchCustomer{
			{CustomerID: "c1", ConsumptionM3: decimal.NewFromInt(10)},
			{CustomerID: "c2", ConsumptionM3: decimal.NewFromInt(12)},
			{CustomerID: "c3", ConsumptionM3: decimal.NewFromInt(8)},
		},
		Workers: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.Emitted)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.Cancelled)
	assert.Contains(t, report.Failures, "c3")
	assert.NotContains(t, report.Failures, "c1")

	assert.Equal(t, int64(1), observer.emitidas.Load())
	assert.Equal(t, int64(1), observer.omitidas.Load())
	assert.Equal(t, int64(1), observer.fallidas.Load())
	assert.Equal(t, int64(1), observer.duracion.Load())

	// La boleta de c1 quedó emitida de verdad.
	b, err := boletas.GetByCustomerPeriod("c1", period.Start)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, entity.BoletaStatusEmitida, b.Status)
}

// Una corrida cancelada no toma más clientes pero deja intactas las boletas
// ya emitidas.
func TestBatchRunner_Cancelacion(t *testing.T) {
	period := testPeriod()
	fines := &fakeFineRepo{}
	events := &fakeReconnectionRepo{}
	boletas := &fakeBoletaRepo{}
	uc := billing.NewFinalizeBoletaUseCase(
		newFakeTxRunner(fines, events, boletas),
		billing.NewTariffResolver(&fakeTariffRepo{tariffs: []*entity.Tariff{testTariff()}}),
		billing.NewSubsidyResolver(&fakeSubsidyRepo{}),
		billing.NewDiscountAggregator(&fakeDiscountRepo{}),
		billing.NewReposicionProcessor(logger.Nop()),
		logger.Nop(),
		testDueDays,
	)
	runner := billing.NewBatchRunner(uc, logger.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner.Run(ctx, billing.BatchRequest{
		Period: period,
		Customers: []billing.BatchCustomer{
			{CustomerID: "c1", ConsumptionM3: decimal.NewFromInt(10)},
			{CustomerID: "c2", ConsumptionM3: decimal.NewFromInt(12)},
		},
		Workers: 1,
	})
	require.NoError(t, err)
	assert.True(t, report.Cancelled)
	assert.Equal(t, 0, report.Processed)
}

// La previsualización masiva contra cachés precargados produce el mismo
// desglose que la previsualización cliente a cliente.
func TestPreviewFromCaches_CoincideConPreviewDirecto(t *testing.T) {
	period := testPeriod()
	tariffs := &fakeTariffRepo{tariffs: []*entity.Tariff{testTariff()}}
	subsidies := &fakeSubsidyRepo{entries: []*entity.SubsidyAssignment{
		{
			ID: "s1", CustomerID: "c1", Type: entity.SubsidyHalf,
			Change:        entity.SubsidyChangeGranted,
			EffectiveFrom: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	discounts := &fakeDiscountRepo{discounts: []*entity.Discount{
		{ID: "d1", CustomerID: "c1", Amount: decimal.NewFromInt(300), ValidFrom: period.Start, Active: true},
	}}
	fines := &fakeFineRepo{fines: []*entity.Fine{
		{ID: "f1", CustomerID: "c1", Amount: decimal.NewFromInt(500), TaxApplicable: true},
	}}
	events := &fakeReconnectionRepo{events: []*entity.ReconnectionEvent{
		{ID: "r1", CustomerID: "c1", SequenceNumber: 1, TaxApplicable: true, RestoredAt: period.Start},
	}}

	caches, err := billing.LoadBatchCaches(tariffs, discounts, fines, events, period)
	require.NoError(t, err)

	processor := billing.NewReposicionProcessor(logger.Nop())
	subsidyResolver := billing.NewSubsidyResolver(subsidies)

	fromCache, err := billing.PreviewFromCaches(caches, processor, subsidyResolver, "c1", period, decimal.NewFromInt(10))
	require.NoError(t, err)

	direct, err := newComputeUC(tariffs, subsidies, discounts, fines, events).
		Compute(context.Background(), "c1", period, decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.True(t, fromCache.Breakdown.TotalAmount.Equal(direct.Breakdown.TotalAmount),
		"total caché %s vs directo %s", fromCache.Breakdown.TotalAmount, direct.Breakdown.TotalAmount)
	assert.True(t, fromCache.Breakdown.SubsidyAmount.Equal(direct.Breakdown.SubsidyAmount))
	assert.Equal(t, direct.FineIDs, fromCache.FineIDs)
	assert.Equal(t, direct.ReposicionIDs, fromCache.ReposicionIDs)
}
