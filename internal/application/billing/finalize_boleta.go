package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aguasaustral/facturacion-api/internal/domain"
	domainbilling "github.com/aguasaustral/facturacion-api/internal/domain/billing"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
	"github.com/aguasaustral/facturacion-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// FinalizeInput insumos para emitir la boleta de un cliente/período.
type FinalizeInput struct {
	CustomerID    string
	Period        entity.Period
	ConsumptionM3 decimal.Decimal

	// Montos fuera del motor: se copian a la boleta sin entrar a la base
	// imponible.
	PriorBalance        decimal.Decimal
	OtherCharges        decimal.Decimal
	RestructuringAmount decimal.Decimal
}

// FinalizeBoletaUseCase emite la boleta: calcula el desglose y, en UNA
// transacción, reclama las multas/reposiciones consumidas y persiste la
// boleta. El reclamo es una escritura condicional (applied_boleta_id aún
// nulo): si otra corrida concurrente ya tomó un cargo, ese cargo se excluye
// de esta boleta y el cálculo continúa con el resto — nunca se cobra dos
// veces ni se aborta la corrida completa.
type FinalizeBoletaUseCase struct {
	txRunner        TxRunner
	tariffResolver  *TariffResolver
	subsidyResolver *SubsidyResolver
	discounts       *DiscountAggregator
	processor       *ReposicionProcessor
	log             *logger.Logger
	dueDays         int
}

// NewFinalizeBoletaUseCase construye el caso de uso. dueDays es el plazo de
// vencimiento en días desde la emisión.
func NewFinalizeBoletaUseCase(
	txRunner TxRunner,
	tariffResolver *TariffResolver,
	subsidyResolver *SubsidyResolver,
	discounts *DiscountAggregator,
	processor *ReposicionProcessor,
	log *logger.Logger,
	dueDays int,
) *FinalizeBoletaUseCase {
	return &FinalizeBoletaUseCase{
		txRunner:        txRunner,
		tariffResolver:  tariffResolver,
		subsidyResolver: subsidyResolver,
		discounts:       discounts,
		processor:       processor,
		log:             log,
		dueDays:         dueDays,
	}
}

// Finalize emite la boleta del cliente para el período. Cualquier falla antes
// del commit deja todos los registros de origen intactos (rollback), por lo
// que reintentar la computación completa es seguro.
func (uc *FinalizeBoletaUseCase) Finalize(ctx context.Context, in FinalizeInput) (*entity.Boleta, error) {
	if in.CustomerID == "" || !in.Period.Valid() || in.ConsumptionM3.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// Lecturas independientes fuera de la transacción: tarifa a la fecha de
	// facturación, subsidio al inicio del período, descuentos del período.
	tariff, err := uc.tariffResolver.Resolve(in.Period.End)
	if err != nil {
		return nil, err
	}
	subsidy, err := uc.subsidyResolver.Resolve(in.CustomerID, in.Period.Start)
	if err != nil {
		return nil, err
	}
	discountTotal, err := uc.discounts.Total(in.CustomerID, in.Period.Start, in.Period.End)
	if err != nil {
		return nil, err
	}

	boletaID := uuid.New().String()
	now := time.Now()
	var boleta *entity.Boleta

	err = uc.txRunner.RunFacturacion(ctx, func(
		fineRepo repository.FineRepository,
		reconnectionRepo repository.ReconnectionRepository,
		boletaRepo repository.BoletaRepository,
	) error {
		// 1) Multas: reclamar cada pendiente contra esta boleta. Un reclamo
		// perdido significa que otra corrida la consumió: se excluye y se
		// sigue con el resto.
		fines, err := fineRepo.ListPending(in.CustomerID)
		if err != nil {
			return fmt.Errorf("listar multas pendientes: %w", err)
		}
		fineTaxable, fineExempt := decimal.Zero, decimal.Zero
		for _, f := range fines {
			if err := fineRepo.Claim(f.ID, boletaID); err != nil {
				if errors.Is(err, domain.ErrChargeClaimed) {
					uc.log.Warn().
						Str("multa", f.ID).
						Str("cliente", in.CustomerID).
						Msg("multa ya consumida por otra corrida, se excluye de esta boleta")
					continue
				}
				return fmt.Errorf("reclamar multa %s: %w", f.ID, err)
			}
			if f.TaxApplicable {
				fineTaxable = fineTaxable.Add(f.Amount)
			} else {
				fineExempt = fineExempt.Add(f.Amount)
			}
		}

		// 2) Reposiciones: costear desde la tarifa y reclamar las cobrables.
		// Las de costo no positivo quedan sin reclamar (elegibles a futuro).
		events, err := reconnectionRepo.ListPending(in.CustomerID, in.Period.End)
		if err != nil {
			return fmt.Errorf("listar reposiciones pendientes: %w", err)
		}
		charges := uc.processor.Process(events, in.Period.End, tariff)
		reposTaxable, reposExempt := decimal.Zero, decimal.Zero
		byID := make(map[string]*entity.ReconnectionEvent, len(events))
		for _, e := range events {
			byID[e.ID] = e
		}
		for _, id := range charges.EventIDs {
			e := byID[id]
			if err := reconnectionRepo.Claim(id, boletaID); err != nil {
				if errors.Is(err, domain.ErrChargeClaimed) {
					uc.log.Warn().
						Str("reposicion", id).
						Str("cliente", in.CustomerID).
						Msg("reposición ya consumida por otra corrida, se excluye de esta boleta")
					continue
				}
				return fmt.Errorf("reclamar reposición %s: %w", id, err)
			}
			cost := tariff.ReconnectionCost(e.SequenceNumber)
			if e.TaxApplicable {
				reposTaxable = reposTaxable.Add(cost)
			} else {
				reposExempt = reposExempt.Add(cost)
			}
		}

		// 3) Desglose final solo con los cargos efectivamente reclamados.
		breakdown := domainbilling.Assemble(domainbilling.AssembleInput{
			Tariff:            tariff,
			Subsidy:           subsidy,
			UseNewFormula:     domainbilling.UseNewFormula(in.Period.Start),
			ConsumptionM3:     in.ConsumptionM3,
			DiscountTotal:     discountTotal,
			FineTaxable:       fineTaxable,
			FineExempt:        fineExempt,
			ReposicionTaxable: reposTaxable,
			ReposicionExempt:  reposExempt,
		})

		// 4) Folio correlativo y escritura de la boleta, en la misma
		// transacción que los reclamos.
		folio, err := boletaRepo.NextFolio()
		if err != nil {
			return fmt.Errorf("reservar folio: %w", err)
		}

		breakdown.State = domainbilling.StateFinalized
		boleta = &entity.Boleta{
			ID:            boletaID,
			CustomerID:    in.CustomerID,
			PeriodStart:   in.Period.Start,
			PeriodEnd:     in.Period.End,
			IssueDate:     now,
			DueDate:       now.AddDate(0, 0, uc.dueDays),
			ConsumptionM3: in.ConsumptionM3,
			Folio:         folio,
			Status:        entity.BoletaStatusEmitida,

			FixedCharge:        breakdown.FixedCharge,
			WaterCharge:        breakdown.WaterCharge,
			SewageCharge:       breakdown.SewageCharge,
			TreatmentCharge:    breakdown.TreatmentCharge,
			Subtotal:           breakdown.Subtotal,
			DiscountAmount:     breakdown.DiscountAmount,
			SubsidyAmount:      breakdown.SubsidyAmount,
			GrossBeforeSubsidy: breakdown.GrossBeforeSubsidy,
			GrossAfterSubsidy:  breakdown.GrossAfterSubsidy,
			NetAmount:          breakdown.NetAmount,
			TaxAmount:          breakdown.TaxAmount,
			ExemptCharges:      breakdown.ExemptCharges,
			TotalAmount:        breakdown.TotalAmount,

			PriorBalance:        in.PriorBalance,
			OtherCharges:        in.OtherCharges,
			RestructuringAmount: in.RestructuringAmount,

			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := boletaRepo.Create(boleta); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return boleta, nil
}
