package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la boleta.
const (
	BoletaStatusEmitida = "EMITIDA"
	BoletaStatusPagada  = "PAGADA"
	BoletaStatusVencida = "VENCIDA"
	BoletaStatusAnulada = "ANULADA"
)

// Period es un período de facturación semiabierto [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// Valid indica si el período está bien formado (Start < End).
func (p Period) Valid() bool {
	return p.Start.Before(p.End)
}

// Boleta es la cuenta mensual de un cliente. Se crea una sola vez por cliente
// y período y es inmutable; las correcciones van por un mecanismo aparte.
// Los montos monetarios se copian de un ChargeBreakdown finalizado.
type Boleta struct {
	ID            string
	CustomerID    string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	IssueDate     time.Time
	DueDate       time.Time
	ConsumptionM3 decimal.Decimal
	Folio         int64
	Status        string

	// Desglose de cargos (copiado del ChargeBreakdown).
	FixedCharge        decimal.Decimal
	WaterCharge        decimal.Decimal
	SewageCharge       decimal.Decimal
	TreatmentCharge    decimal.Decimal
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	SubsidyAmount      decimal.Decimal
	GrossBeforeSubsidy decimal.Decimal
	GrossAfterSubsidy  decimal.Decimal
	NetAmount          decimal.Decimal
	TaxAmount          decimal.Decimal
	ExemptCharges      decimal.Decimal
	TotalAmount        decimal.Decimal

	// Montos fuera del motor de cálculo (saldo anterior, otros cargos,
	// convenio de repactación); los informa el llamador y no entran a la
	// base imponible.
	PriorBalance        decimal.Decimal
	OtherCharges        decimal.Decimal
	RestructuringAmount decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
