package billing

import (
	"fmt"
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

// TariffResolver resuelve la tarifa vigente para una fecha de facturación.
type TariffResolver struct {
	tariffRepo repository.TariffRepository
}

// NewTariffResolver construye el resolver.
func NewTariffResolver(tariffRepo repository.TariffRepository) *TariffResolver {
	return &TariffResolver{tariffRepo: tariffRepo}
}

// Resolve devuelve la única tarifa cuyo rango contiene la fecha. Sin tarifa
// vigente la facturación no puede continuar para ese cliente/período:
// domain.ErrNoEffectiveTariff.
func (r *TariffResolver) Resolve(billingDate time.Time) (*entity.Tariff, error) {
	tariff, err := r.tariffRepo.GetEffective(billingDate)
	if err != nil {
		return nil, fmt.Errorf("buscar tarifa vigente: %w", err)
	}
	if tariff == nil {
		return nil, domain.ErrNoEffectiveTariff
	}
	return tariff, nil
}

// ResolveFromList resuelve contra una lista precargada de tarifas (caché de
// corridas masivas), con la misma semántica que Resolve.
func ResolveFromList(tariffs []*entity.Tariff, billingDate time.Time) (*entity.Tariff, error) {
	for _, t := range tariffs {
		if t.Covers(billingDate) {
			return t, nil
		}
	}
	return nil, domain.ErrNoEffectiveTariff
}

// SubsidyResolver resuelve el subsidio vigente de un cliente al inicio de un
// período de facturación.
type SubsidyResolver struct {
	subsidyRepo repository.SubsidyRepository
}

// NewSubsidyResolver construye el resolver.
func NewSubsidyResolver(subsidyRepo repository.SubsidyRepository) *SubsidyResolver {
	return &SubsidyResolver{subsidyRepo: subsidyRepo}
}

// Resolve devuelve el tipo de subsidio vigente: la entrada más reciente con
// EffectiveFrom <= periodStart. Sin historial, o con la última entrada en
// REMOVED, el tipo es None — no es un error, el subsidio simplemente es cero.
func (r *SubsidyResolver) Resolve(customerID string, periodStart time.Time) (entity.SubsidyType, error) {
	latest, err := r.subsidyRepo.GetLatest(customerID, periodStart)
	if err != nil {
		return entity.SubsidyNone, fmt.Errorf("buscar subsidio vigente: %w", err)
	}
	if latest == nil {
		return entity.SubsidyNone, nil
	}
	return latest.EffectiveType(), nil
}
