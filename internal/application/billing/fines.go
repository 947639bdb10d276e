package billing

import (
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// FineCharges multas pendientes separadas por afectación de IVA. Las multas
// afectas engrosan la base imponible ANTES del subsidio (la ley exige IVA
// sobre el monto de servicio completo post-multas); las exentas van al total
// sin IVA.
type FineCharges struct {
	Taxable decimal.Decimal
	Exempt  decimal.Decimal
	FineIDs []string
}

// SplitFines separa las multas pendientes por afectación (función pura).
func SplitFines(fines []*entity.Fine) FineCharges {
	charges := FineCharges{
		Taxable: decimal.Zero,
		Exempt:  decimal.Zero,
	}
	for _, f := range fines {
		if !f.Pending() {
			continue
		}
		if f.TaxApplicable {
			charges.Taxable = charges.Taxable.Add(f.Amount)
		} else {
			charges.Exempt = charges.Exempt.Add(f.Amount)
		}
		charges.FineIDs = append(charges.FineIDs, f.ID)
	}
	return charges
}

// FineCache caché de multas pendientes por cliente para corridas masivas.
type FineCache map[string][]*entity.Fine

// BuildFineCache agrupa multas pendientes por cliente.
func BuildFineCache(fines []*entity.Fine) FineCache {
	cache := make(FineCache)
	for _, f := range fines {
		cache[f.CustomerID] = append(cache[f.CustomerID], f)
	}
	return cache
}
