package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateModel es la variante del esquema tarifario. El esquema histórico traía
// tarifas separadas de alcantarillado y tratamiento; el esquema vigente las
// fusiona en una sola tarifa combinada. La variante se resuelve una sola vez
// al cargar la tarifa y el resto del código hace switch exhaustivo sobre ella.
type RateModel interface {
	isRateModel()
}

// SeparateRates esquema antiguo: alcantarillado y tratamiento por separado.
type SeparateRates struct {
	SewageRatePerM3    decimal.Decimal
	TreatmentRatePerM3 decimal.Decimal
}

// CombinedRate esquema vigente: una sola tarifa de alcantarillado+tratamiento.
type CombinedRate struct {
	SewageTreatmentRatePerM3 decimal.Decimal
}

func (SeparateRates) isRateModel() {}
func (CombinedRate) isRateModel()  {}

// Tariff es el conjunto de cargos y tarifas vigente en un rango de fechas
// semiabierto [ValidFrom, ValidTo). ValidTo nulo significa vigencia abierta.
// Invariante: los rangos de vigencia nunca se traslapan; para cualquier fecha
// de facturación hay a lo más una tarifa vigente.
type Tariff struct {
	ID                  string
	ValidFrom           time.Time
	ValidTo             *time.Time
	FixedCharge         decimal.Decimal // cargo fijo mensual
	WaterRatePerM3      decimal.Decimal
	Rates               RateModel
	ReconnectionCost1   decimal.Decimal // costo primera reposición
	ReconnectionCost2   decimal.Decimal // costo segunda reposición en adelante
	TaxRate             decimal.Decimal // fraccional, ej. 0.19
	MonthlyInterestRate decimal.Decimal
	InterestGraceDays   int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Covers indica si la fecha cae dentro del rango de vigencia [ValidFrom, ValidTo).
func (t *Tariff) Covers(date time.Time) bool {
	if date.Before(t.ValidFrom) {
		return false
	}
	return t.ValidTo == nil || date.Before(*t.ValidTo)
}

// SewageTreatmentRates descompone la variante en (alcantarillado, tratamiento).
// Con tarifa combinada, alcantarillado lleva el valor completo y tratamiento
// queda en cero para que los totales sigan siendo aditivos sin duplicar.
func (t *Tariff) SewageTreatmentRates() (sewage, treatment decimal.Decimal) {
	switch r := t.Rates.(type) {
	case SeparateRates:
		return r.SewageRatePerM3, r.TreatmentRatePerM3
	case CombinedRate:
		return r.SewageTreatmentRatePerM3, decimal.Zero
	default:
		return decimal.Zero, decimal.Zero
	}
}

// ReconnectionCost devuelve el costo de reposición según el número de secuencia
// (1 = primera reposición, 2 o más = reposiciones siguientes). Secuencia cero o
// negativa se trata como primera.
func (t *Tariff) ReconnectionCost(sequence int) decimal.Decimal {
	if sequence >= 2 {
		return t.ReconnectionCost2
	}
	return t.ReconnectionCost1
}
