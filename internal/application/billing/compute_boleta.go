package billing

import (
	"context"
	"fmt"

	"github.com/aguasaustral/facturacion-api/internal/domain"
	domainbilling "github.com/aguasaustral/facturacion-api/internal/domain/billing"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ComputePreview es el resultado de una previsualización: el desglose completo
// más los cargos que SE CONSUMIRÍAN al emitir. Nada se persiste ni se marca.
type ComputePreview struct {
	Breakdown     domainbilling.ChargeBreakdown
	TariffID      string
	Subsidy       entity.SubsidyType
	UseNewFormula bool
	FineIDs       []string
	ReposicionIDs []string
	// SkippedReposicionIDs reposiciones omitidas por costo tarifario no
	// positivo; siguen pendientes.
	SkippedReposicionIDs []string
}

// ComputeBoletaUseCase calcula el desglose de cargos de un cliente para un
// período sin efectos: es la operación de previsualización, determinista y
// segura de reintentar.
type ComputeBoletaUseCase struct {
	tariffResolver  *TariffResolver
	subsidyResolver *SubsidyResolver
	discounts       *DiscountAggregator
	fineRepo        repository.FineRepository
	reposicionRepo  repository.ReconnectionRepository
	processor       *ReposicionProcessor
}

// NewComputeBoletaUseCase construye el caso de uso.
func NewComputeBoletaUseCase(
	tariffResolver *TariffResolver,
	subsidyResolver *SubsidyResolver,
	discounts *DiscountAggregator,
	fineRepo repository.FineRepository,
	reposicionRepo repository.ReconnectionRepository,
	processor *ReposicionProcessor,
) *ComputeBoletaUseCase {
	return &ComputeBoletaUseCase{
		tariffResolver:  tariffResolver,
		subsidyResolver: subsidyResolver,
		discounts:       discounts,
		fineRepo:        fineRepo,
		reposicionRepo:  reposicionRepo,
		processor:       processor,
	}
}

// Compute arma el desglose en el orden mandatorio: tarifa y subsidio primero
// (lecturas independientes), cargos base, descuentos, multas/reposiciones,
// subsidio e IVA al final.
func (uc *ComputeBoletaUseCase) Compute(
	ctx context.Context,
	customerID string,
	period entity.Period,
	consumptionM3 decimal.Decimal,
) (*ComputePreview, error) {
	if customerID == "" || !period.Valid() || consumptionM3.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// La tarifa se resuelve a la fecha de facturación (cierre del período);
	// la versión de la fórmula de subsidio depende del inicio del período.
	tariff, err := uc.tariffResolver.Resolve(period.End)
	if err != nil {
		return nil, err
	}
	subsidy, err := uc.subsidyResolver.Resolve(customerID, period.Start)
	if err != nil {
		return nil, err
	}

	discountTotal, err := uc.discounts.Total(customerID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	fines, err := uc.fineRepo.ListPending(customerID)
	if err != nil {
		return nil, fmt.Errorf("listar multas pendientes: %w", err)
	}
	fineCharges := SplitFines(fines)

	events, err := uc.reposicionRepo.ListPending(customerID, period.End)
	if err != nil {
		return nil, fmt.Errorf("listar reposiciones pendientes: %w", err)
	}
	reposicionCharges := uc.processor.Process(events, period.End, tariff)

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
