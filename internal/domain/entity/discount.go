package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount es una asignación de descuento ya resuelta a monto para el cliente.
// El origen puede ser porcentual o de monto fijo; ese cálculo ocurre aguas
// arriba, aquí solo se suma el monto aplicado dentro de la ventana de vigencia.
type Discount struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal
	ValidFrom  time.Time
	ValidTo    *time.Time // nulo = sin fecha de término
	Active     bool
	CreatedAt  time.Time
}

// AppliesTo indica si el descuento está activo y su ventana de vigencia se
// traslapa con el período [start, end): ValidFrom <= end y (ValidTo nulo o
// ValidTo >= start).
func (d *Discount) AppliesTo(start, end time.Time) bool {
	if !d.Active {
		return false
	}
	if d.ValidFrom.After(end) {
		return false
	}
	return d.ValidTo == nil || !d.ValidTo.Before(start)
}
