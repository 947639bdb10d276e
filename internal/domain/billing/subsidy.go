package billing

import (
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// NewFormulaCutoff fecha legal de corte de la fórmula de subsidio. Períodos
// que parten en esta fecha o después usan los umbrales nuevos (13 m³ para
// subsidio 50%, 15 m³ para 100%); períodos anteriores usan el umbral histórico
// de 15 m³ para ambos tipos. Ambas fórmulas deben seguir siendo computables
// para refacturación de períodos históricos.
var NewFormulaCutoff = time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC)

// UseNewFormula indica qué versión de la fórmula corresponde a un período que
// parte en periodStart.
func UseNewFormula(periodStart time.Time) bool {
	return !periodStart.Before(NewFormulaCutoff)
}

// subsidyThreshold umbral de consumo subsidiado en m³ según tipo y versión de
// la fórmula.
func subsidyThreshold(subsidy entity.SubsidyType, useNewFormula bool) decimal.Decimal {
	if useNewFormula && subsidy == entity.SubsidyHalf {
		return decimal.NewFromInt(13)
	}
	return decimal.NewFromInt(15)
}

// SubsidyAmount calcula el monto de subsidio (función pura). El subsidio se
// calcula sobre la base de consumo ANTES de multas y ANTES de IVA; con tarifa
// combinada, sewageRate trae el valor combinado completo y treatmentRate debe
// venir en cero para no subsidiar dos veces.
//
// Con consumo sobre el umbral:
//
//	monto = ((agua+alcantarillado+tratamiento) * umbral + cargoFijo) / 2 * multiplicador
//
// Con consumo igual o bajo el umbral:
//
//	monto = ((consumo/2) * (agua+alcantarillado+tratamiento) + cargoFijo/2) * multiplicador
//
// Resultado redondeado al peso entero (half-up).
func SubsidyAmount(
	subsidy entity.SubsidyType,
	consumption decimal.Decimal,
	waterRate, sewageRate, treatmentRate decimal.Decimal,
	fixedCharge decimal.Decimal,
	useNewFormula bool,
) decimal.Decimal {
	mult := decimal.NewFromInt(subsidy.Multiplier())
	if mult.IsZero() {
		return decimal.Zero
	}

	two := decimal.NewFromInt(2)
	ratesSum := waterRate.Add(sewageRate).Add(treatmentRate)
	threshold := subsidyThreshold(subsidy, useNewFormula)

	var amount decimal.Decimal
	if consumption.GreaterThan(threshold) {
		amount = ratesSum.Mul(threshold).Add(fixedCharge).Div(two).Mul(mult)
	} else {
		amount = consumption.Div(two).Mul(ratesSum).Add(fixedCharge.Div(two)).Mul(mult)
	}
	return RoundPeso(amount)
}
