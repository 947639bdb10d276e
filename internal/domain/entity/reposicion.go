package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconnectionEvent es una reposición de servicio tras un corte. El cobro se
// calcula SIEMPRE desde la tarifa vigente según SequenceNumber; StoredAmount es
// el monto ad-hoc que registró terreno y es solo informativo — si difiere del
// valor tarifario se deja constancia en el log pero gana la tarifa.
type ReconnectionEvent struct {
	ID              string
	CustomerID      string
	SequenceNumber  int // 1 = primera reposición, 2+ = siguientes; 0 se trata como 1
	TaxApplicable   bool
	StoredAmount    decimal.Decimal // informativo, nunca es la fuente del cobro
	RestoredAt      time.Time
	AppliedBoletaID *string // nulo = pendiente
	CreatedAt       time.Time
}

// Pending indica si la reposición aún no fue aplicada a ninguna boleta.
// Invariante: un evento con AppliedBoletaID no nulo jamás vuelve a cobrarse.
func (e *ReconnectionEvent) Pending() bool {
	return e.AppliedBoletaID == nil
}
