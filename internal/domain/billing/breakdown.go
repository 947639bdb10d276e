package billing

import "github.com/shopspring/decimal"

// BreakdownState estado del desglose dentro del ciclo de armado de la boleta.
// Draft -> Computed ocurre en el dominio (puro); Computed -> Finalized ocurre
// al consumir multas/reposiciones y persistir la boleta. Antes de Finalized
// ningún registro de origen se toca, por lo que reintentar es seguro.
type BreakdownState string

const (
	StateDraft     BreakdownState = "DRAFT"
	StateComputed  BreakdownState = "COMPUTED"
	StateFinalized BreakdownState = "FINALIZED"
)

// ChargeBreakdown es el desglose monetario completo de una boleta. Se arma
// progresivamente en el orden mandatorio y una vez finalizado es inmutable.
// Todos los montos están redondeados al peso entero.
type ChargeBreakdown struct {
	State BreakdownState

	FixedCharge     decimal.Decimal
	WaterCharge     decimal.Decimal
	SewageCharge    decimal.Decimal
	TreatmentCharge decimal.Decimal
	Subtotal        decimal.Decimal

	DiscountAmount decimal.Decimal
	SubsidyAmount  decimal.Decimal

	// Multas y reposiciones separadas por afectación de IVA.
	FineTaxable       decimal.Decimal
	FineExempt        decimal.Decimal
	ReposicionTaxable decimal.Decimal
	ReposicionExempt  decimal.Decimal

	// GrossBeforeSubsidy es la base imponible: subtotal − descuentos + multas
	// y reposiciones afectas. El subsidio NO la reduce (es un reembolso de
	// terceros, no rebaja la base del IVA).
	GrossBeforeSubsidy decimal.Decimal
	GrossAfterSubsidy  decimal.Decimal

	NetAmount decimal.Decimal
	TaxAmount decimal.Decimal

	// ExemptCharges cargos no afectos (multas/reposiciones exentas), se suman
	// al total sin pasar por el IVA.
	ExemptCharges decimal.Decimal
	TotalAmount   decimal.Decimal
}
