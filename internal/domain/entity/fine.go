package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fine es una multa operacional pendiente de cobro. Se consume exactamente una
// vez: al finalizar una boleta se fija AppliedBoletaID y nunca vuelve a ser
// seleccionada.
type Fine struct {
	ID              string
	CustomerID      string
	Amount          decimal.Decimal
	TaxApplicable   bool
	AppliedBoletaID *string // nulo = pendiente
	CreatedAt       time.Time
}

// Pending indica si la multa aún no fue aplicada a ninguna boleta.
func (f *Fine) Pending() bool {
	return f.AppliedBoletaID == nil
}
