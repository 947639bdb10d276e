package repository

import "github.com/aguasaustral/facturacion-api/internal/domain/entity"

// FineRepository define el puerto de persistencia para multas.
type FineRepository interface {
	// ListPending devuelve las multas del cliente sin boleta aplicada.
	ListPending(customerID string) ([]*entity.Fine, error)
	// ListPendingAll devuelve las multas pendientes de todos los clientes
	// (caché de corridas masivas).
	ListPendingAll() ([]*entity.Fine, error)
	// Claim marca la multa como aplicada a la boleta con una escritura
	// condicional (applied_boleta_id aún nulo). Si otra corrida la tomó
	// primero devuelve domain.ErrChargeClaimed.
	Claim(fineID, boletaID string) error
}
