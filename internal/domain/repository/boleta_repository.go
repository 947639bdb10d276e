package repository

import (
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
)

// BoletaRepository define el puerto de persistencia para boletas.
type BoletaRepository interface {
	// Create persiste la boleta finalizada. Devuelve domain.ErrBoletaExists
	// si ya existe una para el cliente y período.
	Create(b *entity.Boleta) error
	GetByID(id string) (*entity.Boleta, error)
	// GetByCustomerPeriod devuelve la boleta del cliente para el período que
	// parte en start, o nil si no existe.
	GetByCustomerPeriod(customerID string, start time.Time) (*entity.Boleta, error)
	// NextFolio reserva y devuelve el siguiente folio correlativo.
	NextFolio() (int64, error)
}
