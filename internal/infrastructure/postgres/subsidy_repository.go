package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

var _ repository.SubsidyRepository = (*SubsidyRepo)(nil)

// SubsidyRepo implementación de SubsidyRepository (usable con pool o tx).
// El historial es append-only: acá solo se lee.
type SubsidyRepo struct {
	q Querier
}

// NewSubsidyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubsidyRepository(q Querier) *SubsidyRepo {
	return &SubsidyRepo{q: q}
}

// GetLatest obtiene la entrada más reciente del cliente vigente a la fecha.
// Devuelve nil sin error si el cliente no tiene historial.
func (r *SubsidyRepo) GetLatest(customerID string, asOf time.Time) (*entity.SubsidyAssignment, error) {
	query := `
		SELECT id, customer_id, subsidy_type, change_kind, effective_from, created_at
		FROM subsidy_assignments
		WHERE customer_id = $1 AND effective_from <= $2
		ORDER BY effective_from DESC, created_at DESC
		LIMIT 1`
	var a entity.SubsidyAssignment
	err := r.q.QueryRow(context.Background(), query, customerID, asOf).Scan(
		&a.ID, &a.CustomerID, &a.Type, &a.Change, &a.EffectiveFrom, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subsidy assignment: %w", err)
	}
	return &a, nil
}

// ListByCustomer devuelve el historial completo del cliente, más reciente
// primero.
func (r *SubsidyRepo) ListByCustomer(customerID string) ([]*entity.SubsidyAssignment, error) {
	query := `
		SELECT id, customer_id, subsidy_type, change_kind, effective_from, created_at
		FROM subsidy_assignments
		WHERE customer_id = $1
		ORDER BY effective_from DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list subsidy assignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.SubsidyAssignment
	for rows.Next() {
		var a entity.SubsidyAssignment
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Type, &a.Change, &a.EffectiveFrom, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subsidy assignment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
