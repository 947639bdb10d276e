package billing

import (
	"fmt"
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DiscountAggregator suma los descuentos vigentes de un cliente para un
// período. Varios descuentos simultáneos son aditivos, no excluyentes; la
// ausencia de descuentos no es error, el total simplemente es cero.
type DiscountAggregator struct {
	discountRepo repository.DiscountRepository
}

// NewDiscountAggregator construye el agregador.
func NewDiscountAggregator(discountRepo repository.DiscountRepository) *DiscountAggregator {
	return &DiscountAggregator{discountRepo: discountRepo}
}

// Total suma los montos ya resueltos de los descuentos activos que se
// traslapan con el período [start, end).
func (a *DiscountAggregator) Total(customerID string, start, end time.Time) (decimal.Decimal, error) {
	discounts, err := a.discountRepo.ListApplicable(customerID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listar descuentos: %w", err)
	}
	return SumDiscounts(discounts, start, end), nil
}

// SumDiscounts filtra y suma descuentos en memoria (función pura, compartida
// con el caché de corridas masivas). Se re-aplica el predicado de vigencia
// aunque el repositorio ya filtre, para que la elegibilidad sea testeable sin
// base de datos.
func SumDiscounts(discounts []*entity.Discount, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, d := range discounts {
		if d.AppliesTo(start, end) {
			total = total.Add(d.Amount)
		}
	}
	return total
}
