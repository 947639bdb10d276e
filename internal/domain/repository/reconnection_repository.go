package repository

import (
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
)

// ReconnectionRepository define el puerto de persistencia para reposiciones
// de servicio.
type ReconnectionRepository interface {
	// ListPending devuelve las reposiciones del cliente sin boleta aplicada
	// y repuestas hasta la fecha dada (restored_at <= until).
	ListPending(customerID string, until time.Time) ([]*entity.ReconnectionEvent, error)
	// ListPendingUntil devuelve las reposiciones pendientes de todos los
	// clientes hasta la fecha (caché de corridas masivas).
	ListPendingUntil(until time.Time) ([]*entity.ReconnectionEvent, error)
	// Claim marca la reposición como aplicada a la boleta con una escritura
	// condicional (applied_boleta_id aún nulo). Si otra corrida la tomó
	// primero devuelve domain.ErrChargeClaimed.
	Claim(eventID, boletaID string) error
}
