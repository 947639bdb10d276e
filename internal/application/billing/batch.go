package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aguasaustral/facturacion-api/internal/domain"
	domainbilling "github.com/aguasaustral/facturacion-api/internal/domain/billing"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
	"github.com/aguasaustral/facturacion-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// BatchObserver recibe los eventos de una corrida masiva (métricas). Todas
// las implementaciones deben ser seguras para uso concurrente.
type BatchObserver interface {
	BoletaEmitida()
	BoletaFallida()
	BoletaOmitida()
	RunDuration(seconds float64)
}

// noopObserver para corridas sin métricas.
type noopObserver struct{}

func (noopObserver) BoletaEmitida()      {}
func (noopObserver) BoletaFallida()      {}
func (noopObserver) BoletaOmitida()      {}
func (noopObserver) RunDuration(float64) {}

// BatchCustomer un cliente a facturar en la corrida, con su lectura de
// consumo ya resuelta aguas arriba.
type BatchCustomer struct {
	CustomerID    string
	ConsumptionM3 decimal.Decimal
}

// BatchRequest parámetros de una corrida masiva.
type BatchRequest struct {
	Period    entity.Period
	Customers []BatchCustomer
	// Workers cantidad de clientes en paralelo; <= 0 usa 1. El pipeline de
	// un cliente es puro y no comparte estado mutable con otros, así que es
	// seguro paralelizar entre clientes.
	Workers int
}

// BatchReport resultado parcial o total de una corrida. Una corrida cancelada
// deja las boletas ya emitidas intactas y simplemente no procesa más
// clientes.
type BatchReport struct {
	Processed int
	Emitted   int
	Failed    int
	// Skipped clientes que ya tenían boleta para el período.
	Skipped   int
	Cancelled bool
	// Failures error por cliente (solo los fallidos).
	Failures map[string]string
}

// BatchRunner ejecuta la facturación de muchos clientes en paralelo con
// cancelación entre clientes (nunca a mitad de un cliente).
type BatchRunner struct {
	finalize *FinalizeBoletaUseCase
	log      *logger.Logger
	observer BatchObserver
}

// NewBatchRunner construye el runner. observer puede ser nil.
func NewBatchRunner(finalize *FinalizeBoletaUseCase, log *logger.Logger, observer BatchObserver) *BatchRunner {
	if observer == nil {
		observer = noopObserver{}
	}
	return &BatchRunner{finalize: finalize, log: log, observer: observer}
}

// Run factura todos los clientes de la corrida. No hay orden garantizado
// ENTRE clientes; el orden DENTRO del pipeline de cada cliente es fijo. El
// contexto se consulta antes de tomar cada cliente: al cancelarse, los
// clientes en vuelo terminan y no se toman más.
func (r *BatchRunner) Run(ctx context.Context, req BatchRequest) (*BatchReport, error) {
	if !req.Period.Valid() {
		return nil, domain.ErrInvalidInput
	}
	workers := req.Workers
	if workers <= 0 {
		workers = 1
	}

	started := time.Now()
	report := &BatchReport{Failures: make(map[string]string)}
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, customer := range req.Customers {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		customer := customer
		g.Go(func() error {
			boleta, err := r.finalize.Finalize(ctx, FinalizeInput{
				CustomerID:    customer.CustomerID,
				Period:        req.Period,
				ConsumptionM3: customer.ConsumptionM3,
			})

			mu.Lock()
			defer mu.Unlock()
			report.Processed++
			switch {
			case err == nil:
				report.Emitted++
				r.observer.BoletaEmitida()
				r.log.Info().
					Str("cliente", customer.CustomerID).
					Int64("folio", boleta.Folio).
					Str("total", boleta.TotalAmount.String()).
					Msg("boleta emitida")
			case errors.Is(err, domain.ErrBoletaExists):
				report.Skipped++
				r.observer.BoletaOmitida()
				r.log.Debug().
					Str("cliente", customer.CustomerID).
					Msg("el cliente ya tiene boleta para el período, se omite")
			default:
				report.Failed++
				report.Failures[customer.CustomerID] = err.Error()
				r.observer.BoletaFallida()
				r.log.Error().Err(err).
					Str("cliente", customer.CustomerID).
					Msg("falló la emisión de la boleta")
			}
			// Un cliente fallido nunca aborta la corrida completa.
			return nil
		})
	}
	_ = g.Wait()

	r.observer.RunDuration(time.Since(started).Seconds())
	r.log.Info().
		Int("procesados", report.Processed).
		Int("emitidas", report.Emitted).
		Int("fallidas", report.Failed).
		Int("omitidas", report.Skipped).
		Bool("cancelada", report.Cancelled).
		Dur("duracion", time.Since(started)).
		Msg("corrida de facturación terminada")
	return report, nil
}

// BatchCaches lecturas precargadas una vez por corrida y compartidas de solo
// lectura entre workers: previsualización masiva sin una consulta por
// cliente. La emisión real siempre valida contra la base con el reclamo
// condicional, por lo que un caché desactualizado no puede producir doble
// cobro.
type BatchCaches struct {
	Tariffs      []*entity.Tariff
	Discounts    []*entity.Discount
	Fines        FineCache
	Reposiciones ReposicionCache
}

// LoadBatchCaches precarga los cachés de una corrida para el período dado.
func LoadBatchCaches(
	tariffRepo repository.TariffRepository,
	discountRepo repository.DiscountRepository,
	fineRepo repository.FineRepository,
	reconnectionRepo repository.ReconnectionRepository,
	period entity.Period,
) (*BatchCaches, error) {
	tariffs, err := tariffRepo.List()
	if err != nil {
		return nil, err
	}
	discounts, err := discountRepo.ListOverlapping(period.Start, period.End)
	if err != nil {
		return nil, err
	}
	fines, err := fineRepo.ListPendingAll()
	if err != nil {
		return nil, err
	}
	events, err := reconnectionRepo.ListPendingUntil(period.End)
	if err != nil {
		return nil, err
	}
	return &BatchCaches{
		Tariffs:      tariffs,
		Discounts:    discounts,
		Fines:        BuildFineCache(fines),
		Reposiciones: BuildReposicionCache(events),
	}, nil
}

// PreviewFromCaches calcula el desglose de un cliente contra los cachés, con
// la misma lógica de selección y costeo que la previsualización por cliente.
func PreviewFromCaches(
	caches *BatchCaches,
	processor *ReposicionProcessor,
	subsidyResolver *SubsidyResolver,
	customerID string,
	period entity.Period,
	consumptionM3 decimal.Decimal,
) (*ComputePreview, error) {
	tariff, err := ResolveFromList(caches.Tariffs, period.End)
	if err != nil {
		return nil, err
	}
	subsidy, err := subsidyResolver.Resolve(customerID, period.Start)
	if err != nil {
		return nil, err
	}

	var customerDiscounts []*entity.Discount
	for _, d := range caches.Discounts {
		if d.CustomerID == customerID {
			customerDiscounts = append(customerDiscounts, d)
		}
	}
	discountTotal := SumDiscounts(customerDiscounts, period.Start, period.End)

	fineCharges := SplitFines(caches.Fines[customerID])
	reposicionCharges := processor.ProcessFromCache(caches.Reposiciones, customerID, period.End, tariff)

	useNew := domainbilling.UseNewFormula(period.Start)
	breakdown := domainbilling.Assemble(domainbilling.AssembleInput{
		Tariff:            tariff,
		Subsidy:           subsidy,
		UseNewFormula:     useNew,
		ConsumptionM3:     consumptionM3,
		DiscountTotal:     discountTotal,
		FineTaxable:       fineCharges.Taxable,
		FineExempt:        fineCharges.Exempt,
		ReposicionTaxable: reposicionCharges.Taxable,
		ReposicionExempt:  reposicionCharges.Exempt,
	})

	return &ComputePreview{
		Breakdown:            breakdown,
		TariffID:             tariff.ID,
		Subsidy:              subsidy,
		UseNewFormula:        useNew,
		FineIDs:              fineCharges.FineIDs,
		ReposicionIDs:        reposicionCharges.EventIDs,
		SkippedReposicionIDs: reposicionCharges.SkippedIDs,
	}, nil
}
