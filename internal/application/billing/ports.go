package billing

import (
	"context"

	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

// TxRunner ejecuta la finalización de una boleta dentro de una transacción:
// el consumo de multas/reposiciones y la escritura de la boleta deben ser
// atómicos. Si fn falla se hace rollback y ningún registro de origen queda
// consumido (reintentar es seguro).
type TxRunner interface {
	RunFacturacion(ctx context.Context, fn func(
		fineRepo repository.FineRepository,
		reconnectionRepo repository.ReconnectionRepository,
		boletaRepo repository.BoletaRepository,
	) error) error
}
