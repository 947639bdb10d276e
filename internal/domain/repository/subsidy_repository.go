package repository

import (
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
)

// SubsidyRepository define el puerto de persistencia para el historial de
// subsidios (append-only).
type SubsidyRepository interface {
	// GetLatest devuelve la entrada más reciente del cliente con
	// EffectiveFrom <= asOf, o nil si no hay historial.
	GetLatest(customerID string, asOf time.Time) (*entity.SubsidyAssignment, error)
	// ListByCustomer devuelve el historial completo del cliente, más
	// reciente primero.
	ListByCustomer(customerID string) ([]*entity.SubsidyAssignment, error)
}
