package billing

import (
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ReposicionCharges es el resultado de seleccionar y costear reposiciones
// para una corrida de facturación.
type ReposicionCharges struct {
	Taxable decimal.Decimal
	Exempt  decimal.Decimal
	// EventIDs reposiciones a consumir en esta boleta.
	EventIDs []string
	// SkippedIDs reposiciones con costo tarifario no positivo: quedan SIN
	// consumir, elegibles para una corrida futura si la tarifa se corrige.
	SkippedIDs []string
}

// ReposicionProcessor selecciona reposiciones elegibles y calcula su cobro
// desde la tarifa. El monto ad-hoc almacenado en el evento NUNCA es la fuente
// del cobro: si difiere del valor tarifario se deja constancia y gana la
// tarifa.
type ReposicionProcessor struct {
	log *logger.Logger
}

// NewReposicionProcessor construye el procesador.
func NewReposicionProcessor(log *logger.Logger) *ReposicionProcessor {
	return &ReposicionProcessor{log: log}
}

// EligibleReposiciones filtra los eventos cobrables en esta corrida: servicio
// repuesto hasta el cierre del período y sin boleta aplicada (función pura,
// testeable sin base de datos).
func EligibleReposiciones(events []*entity.ReconnectionEvent, periodEnd time.Time) []*entity.ReconnectionEvent {
	var eligible []*entity.ReconnectionEvent
	for _, e := range events {
		if e.Pending() && !e.RestoredAt.After(periodEnd) {
			eligible = append(eligible, e)
		}
	}
	return eligible
}

// Process costea los eventos elegibles contra la tarifa y los separa por
// afectación de IVA. La misma lógica sirve para la consulta por cliente y
// para el caché precargado de corridas masivas.
func (p *ReposicionProcessor) Process(
	events []*entity.ReconnectionEvent,
	periodEnd time.Time,
	tariff *entity.Tariff,
) ReposicionCharges {
	charges := ReposicionCharges{
		Taxable: decimal.Zero,
		Exempt:  decimal.Zero,
	}

	for _, e := range EligibleReposiciones(events, periodEnd) {
		cost := tariff.ReconnectionCost(e.SequenceNumber)

		if cost.LessThanOrEqual(decimal.Zero) {
			// Costo tarifario no positivo: no se cobra ni se consume; el
			// evento sigue pendiente para una corrida con tarifa corregida.
			p.log.Warn().
				Str("evento", e.ID).
				Str("cliente", e.CustomerID).
				Int("secuencia", e.SequenceNumber).
				Str("costo_tarifa", cost.String()).
				Msg("reposición con costo tarifario no positivo, se omite sin consumir")
			charges.SkippedIDs = append(charges.SkippedIDs, e.ID)
			continue
		}

		if !e.StoredAmount.IsZero() && !e.StoredAmount.Equal(cost) {
			p.log.Warn().
				Str("evento", e.ID).
				Str("cliente", e.CustomerID).
				Str("monto_registrado", e.StoredAmount.String()).
				Str("costo_tarifa", cost.String()).
				Msg("discrepancia entre monto registrado y costo tarifario, gana la tarifa")
		}

		if e.TaxApplicable {
			charges.Taxable = charges.Taxable.Add(cost)
		} else {
			charges.Exempt = charges.Exempt.Add(cost)
		}
		charges.EventIDs = append(charges.EventIDs, e.ID)
	}
	return charges
}

// ReposicionCache caché de reposiciones pendientes por cliente, precargado una
// vez por corrida masiva y compartido de solo lectura entre workers.
type ReposicionCache map[string][]*entity.ReconnectionEvent

// BuildReposicionCache agrupa eventos pendientes por cliente.
func BuildReposicionCache(events []*entity.ReconnectionEvent) ReposicionCache {
	cache := make(ReposicionCache)
	for _, e := range events {
		cache[e.CustomerID] = append(cache[e.CustomerID], e)
	}
	return cache
}

// ProcessFromCache aplica la misma selección y costeo sobre el caché de una
// corrida masiva.
func (p *ReposicionProcessor) ProcessFromCache(
	cache ReposicionCache,
	customerID string,
	periodEnd time.Time,
	tariff *entity.Tariff,
) ReposicionCharges {
	return p.Process(cache[customerID], periodEnd, tariff)
}
