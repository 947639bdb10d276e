package repository

import (
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
)

// DiscountRepository define el puerto de persistencia para descuentos.
type DiscountRepository interface {
	// ListApplicable devuelve los descuentos activos del cliente cuya
	// ventana de vigencia se traslapa con el período [start, end).
	ListApplicable(customerID string, start, end time.Time) ([]*entity.Discount, error)
	// ListOverlapping devuelve los descuentos activos de TODOS los clientes
	// que se traslapan con el período (caché de corridas masivas).
	ListOverlapping(start, end time.Time) ([]*entity.Discount, error)
}
