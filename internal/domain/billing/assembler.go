package billing

import (
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AssembleInput insumos ya resueltos para armar el desglose de una boleta.
// Los totales de multas y reposiciones vienen separados por afectación de IVA.
type AssembleInput struct {
	Tariff        *entity.Tariff
	Subsidy       entity.SubsidyType
	UseNewFormula bool
	ConsumptionM3 decimal.Decimal
	DiscountTotal decimal.Decimal

	FineTaxable       decimal.Decimal
	FineExempt        decimal.Decimal
	ReposicionTaxable decimal.Decimal
	ReposicionExempt  decimal.Decimal
}

// Assemble compone el ChargeBreakdown completo en el orden mandatorio:
// cargos base → descuentos → multas/reposiciones → subsidio → IVA.
//
// El orden NO es reordenable: la ley exige el IVA sobre la base afecta
// INCLUYENDO multas y reposiciones afectas pero SIN descontar el subsidio,
// mientras que el subsidio se calcula sobre la base de consumo previa a
// multas. Cambiar el orden cambia la base imponible y produce montos
// incorrectos.
func Assemble(in AssembleInput) ChargeBreakdown {
	b := BaseCharges(in.ConsumptionM3, in.Tariff)

	b.DiscountAmount = RoundPeso(in.DiscountTotal)
	b.FineTaxable = RoundPeso(in.FineTaxable)
	b.FineExempt = RoundPeso(in.FineExempt)
	b.ReposicionTaxable = RoundPeso(in.ReposicionTaxable)
	b.ReposicionExempt = RoundPeso(in.ReposicionExempt)

	// Base imponible: subtotal menos descuentos, más cargos afectos.
	b.GrossBeforeSubsidy = b.Subtotal.
		Sub(b.DiscountAmount).
		Add(b.FineTaxable).
		Add(b.ReposicionTaxable)

	// Subsidio sobre la base de consumo pre-multas y pre-IVA.
	sewage, treatment := in.Tariff.SewageTreatmentRates()
	b.SubsidyAmount = SubsidyAmount(
		in.Subsidy,
		in.ConsumptionM3,
		in.Tariff.WaterRatePerM3, sewage, treatment,
		in.Tariff.FixedCharge,
		in.UseNewFormula,
	)
	b.GrossAfterSubsidy = b.GrossBeforeSubsidy.Sub(b.SubsidyAmount)

	// IVA sobre la base afecta pre-subsidio.
	b.NetAmount, b.TaxAmount = SplitIVA(b.GrossBeforeSubsidy, in.Tariff.TaxRate)

	b.ExemptCharges = b.FineExempt.Add(b.ReposicionExempt)
	b.TotalAmount = b.GrossAfterSubsidy.Add(b.ExemptCharges)

	b.State = StateComputed
	return b
}
