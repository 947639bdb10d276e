package dto

import (
	"github.com/shopspring/decimal"
)

// PreviewBoletaRequest solicitud de previsualización (sin efectos).
// Las fechas van en formato YYYY-MM-DD; el período es [start, end).
type PreviewBoletaRequest struct {
	CustomerID    string          `json:"customer_id"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	ConsumptionM3 decimal.Decimal `json:"consumption_m3"`
}

// EmitirBoletaRequest solicitud de emisión: calcula, consume multas y
// reposiciones, y persiste la boleta.
type EmitirBoletaRequest struct {
	CustomerID    string          `json:"customer_id"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	ConsumptionM3 decimal.Decimal `json:"consumption_m3"`

	PriorBalance        decimal.Decimal `json:"prior_balance"`
	OtherCharges        decimal.Decimal `json:"other_charges"`
	RestructuringAmount decimal.Decimal `json:"restructuring_amount"`
}

// ChargeBreakdownResponse desglose monetario de la previsualización.
type ChargeBreakdownResponse struct {
	FixedCharge        decimal.Decimal `json:"fixed_charge"`
	WaterCharge        decimal.Decimal `json:"water_charge"`
	SewageCharge       decimal.Decimal `json:"sewage_charge"`
	TreatmentCharge    decimal.Decimal `json:"treatment_charge"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	SubsidyAmount      decimal.Decimal `json:"subsidy_amount"`
	GrossBeforeSubsidy decimal.Decimal `json:"gross_before_subsidy"`
	GrossAfterSubsidy  decimal.Decimal `json:"gross_after_subsidy"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	ExemptCharges      decimal.Decimal `json:"exempt_charges"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	TotalFormatted     string          `json:"total_formatted"` // ej. "$12.345"
}

// PreviewBoletaResponse resultado de la previsualización.
type PreviewBoletaResponse struct {
	CustomerID           string                  `json:"customer_id"`
	TariffID             string                  `json:"tariff_id"`
	Subsidy              string                  `json:"subsidy"`
	UseNewFormula        bool                    `json:"use_new_formula"`
	Breakdown            ChargeBreakdownResponse `json:"breakdown"`
	FineIDs              []string                `json:"fine_ids,omitempty"`
	ReposicionIDs        []string                `json:"reposicion_ids,omitempty"`
	SkippedReposicionIDs []string                `json:"skipped_reposicion_ids,omitempty"`
}

// BoletaResponse boleta emitida.
type BoletaResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	Folio         int64           `json:"folio"`
	Status        string          `json:"status"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	ConsumptionM3 decimal.Decimal `json:"consumption_m3"`

	Breakdown ChargeBreakdownResponse `json:"breakdown"`

	PriorBalance        decimal.Decimal `json:"prior_balance"`
	OtherCharges        decimal.Decimal `json:"other_charges"`
	RestructuringAmount decimal.Decimal `json:"restructuring_amount"`
}
