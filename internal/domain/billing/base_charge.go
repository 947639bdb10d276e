package billing

import (
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BaseCharges calcula el desglose base de cargos a partir del consumo y la
// tarifa vigente (servicio de dominio puro):
//
//	aguaCharge        = consumo * tarifaAgua
//	alcantarillado    = consumo * tarifaAlcantarillado   (esquema separado)
//	tratamiento       = consumo * tarifaTratamiento      (esquema separado)
//	alcantarillado    = consumo * tarifaCombinada        (esquema combinado, tratamiento = 0)
//	subtotal          = cargoFijo + agua + alcantarillado + tratamiento
//
// Devuelve el desglose inicial en estado Draft con descuentos, subsidio e IVA
// en cero y ambos brutos iguales al subtotal.
func BaseCharges(consumption decimal.Decimal, tariff *entity.Tariff) ChargeBreakdown {
	water := RoundPeso(consumption.Mul(tariff.WaterRatePerM3))

	var sewage, treatment decimal.Decimal
	switch r := tariff.Rates.(type) {
	case entity.SeparateRates:
		sewage = RoundPeso(consumption.Mul(r.SewageRatePerM3))
		treatment = RoundPeso(consumption.Mul(r.TreatmentRatePerM3))
	case entity.CombinedRate:
		sewage = RoundPeso(consumption.Mul(r.SewageTreatmentRatePerM3))
		treatment = decimal.Zero
	default:
		sewage, treatment = decimal.Zero, decimal.Zero
	}

	fixed := RoundPeso(tariff.FixedCharge)
	subtotal := fixed.Add(water).Add(sewage).Add(treatment)

	return ChargeBreakdown{
		State:              StateDraft,
		FixedCharge:        fixed,
		WaterCharge:        water,
		SewageCharge:       sewage,
		TreatmentCharge:    treatment,
		Subtotal:           subtotal,
		DiscountAmount:     decimal.Zero,
		SubsidyAmount:      decimal.Zero,
		FineTaxable:        decimal.Zero,
		FineExempt:         decimal.Zero,
		ReposicionTaxable:  decimal.Zero,
		ReposicionExempt:   decimal.Zero,
		GrossBeforeSubsidy: subtotal,
		GrossAfterSubsidy:  subtotal,
		NetAmount:          decimal.Zero,
		TaxAmount:          decimal.Zero,
		ExemptCharges:      decimal.Zero,
		TotalAmount:        subtotal,
	}
}
