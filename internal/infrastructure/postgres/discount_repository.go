package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

var _ repository.DiscountRepository = (*DiscountRepo)(nil)

// DiscountRepo implementación de DiscountRepository (usable con pool o tx).
type DiscountRepo struct {
	q Querier
}

// NewDiscountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscountRepository(q Querier) *DiscountRepo {
	return &DiscountRepo{q: q}
}

const discountColumns = `id, customer_id, amount, valid_from, valid_to, active, created_at`

// ListApplicable devuelve los descuentos activos del cliente que se traslapan
// con el período [start, end): valid_from <= end y (valid_to nulo o
// valid_to >= start).
func (r *DiscountRepo) ListApplicable(customerID string, start, end time.Time) ([]*entity.Discount, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM discounts
		WHERE customer_id = $1 AND active
		  AND valid_from <= $3
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY valid_from`
	rows, err := r.q.Query(context.Background(), query, customerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	return collectDiscounts(rows)
}

// ListOverlapping devuelve los descuentos activos de todos los clientes para
// el período (caché de corridas masivas).
func (r *DiscountRepo) ListOverlapping(start, end time.Time) ([]*entity.Discount, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM discounts
		WHERE active
		  AND valid_from <= $2
		  AND (valid_to IS NULL OR valid_to >= $1)
		ORDER BY customer_id, valid_from`
	rows, err := r.q.Query(context.Background(), query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list discounts overlapping: %w", err)
	}
	return collectDiscounts(rows)
}

func collectDiscounts(rows pgx.Rows) ([]*entity.Discount, error) {
	defer rows.Close()
	var list []*entity.Discount
	for rows.Next() {
		var d entity.Discount
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.Amount, &d.ValidFrom, &d.ValidTo, &d.Active, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
