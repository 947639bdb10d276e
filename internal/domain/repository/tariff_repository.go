package repository

import (
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
)

// TariffRepository define el puerto de persistencia para tarifas.
type TariffRepository interface {
	// GetEffective devuelve la tarifa cuyo rango [desde, hasta) contiene la
	// fecha, o nil si ninguna la cubre. Los rangos no se traslapan, por lo
	// que hay a lo más una.
	GetEffective(date time.Time) (*entity.Tariff, error)
	// List devuelve todas las tarifas ordenadas por vigencia (para el caché
	// de corridas masivas).
	List() ([]*entity.Tariff, error)
}
