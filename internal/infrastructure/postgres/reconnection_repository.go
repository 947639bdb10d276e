package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aguasaustral/facturacion-api/internal/domain"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

var _ repository.ReconnectionRepository = (*ReconnectionRepo)(nil)

// ReconnectionRepo implementación de ReconnectionRepository (usable con pool
// o tx).
type ReconnectionRepo struct {
	q Querier
}

// NewReconnectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReconnectionRepository(q Querier) *ReconnectionRepo {
	return &ReconnectionRepo{q: q}
}

const reconnectionColumns = `
	id, customer_id, sequence_number, tax_applicable, stored_amount,
	restored_at, applied_boleta_id, created_at`

// ListPending devuelve las reposiciones del cliente con servicio repuesto
// hasta la fecha y sin boleta aplicada.
func (r *ReconnectionRepo) ListPending(customerID string, until time.Time) ([]*entity.ReconnectionEvent, error) {
	query := `
		SELECT` + reconnectionColumns + `
		FROM reconnection_events
		WHERE customer_id = $1
		  AND applied_boleta_id IS NULL
		  AND restored_at IS NOT NULL AND restored_at <= $2
		ORDER BY restored_at`
	rows, err := r.q.Query(context.Background(), query, customerID, until)
	if err != nil {
		return nil, fmt.Errorf("list pending reconnections: %w", err)
	}
	return collectReconnections(rows)
}

// ListPendingUntil devuelve las reposiciones pendientes de todos los clientes
// hasta la fecha.
func (r *ReconnectionRepo) ListPendingUntil(until time.Time) ([]*entity.ReconnectionEvent, error) {
	query := `
		SELECT` + reconnectionColumns + `
		FROM reconnection_events
		WHERE applied_boleta_id IS NULL
		  AND restored_at IS NOT NULL AND restored_at <= $1
		ORDER BY customer_id, restored_at`
	rows, err := r.q.Query(context.Background(), query, until)
	if err != nil {
		return nil, fmt.Errorf("list pending reconnections all: %w", err)
	}
	return collectReconnections(rows)
}

// Claim marca la reposición como aplicada con una escritura condicional
// (applied_boleta_id aún nulo). Cero filas afectadas significa que otra
// corrida la consumió primero.
func (r *ReconnectionRepo) Claim(eventID, boletaID string) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE reconnection_events
		SET applied_boleta_id = $2
		WHERE id = $1 AND applied_boleta_id IS NULL`,
		eventID, boletaID,
	)
	if err != nil {
		return fmt.Errorf("claim reconnection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChargeClaimed
	}
	return nil
}

func collectReconnections(rows pgx.Rows) ([]*entity.ReconnectionEvent, error) {
	defer rows.Close()
	var list []*entity.ReconnectionEvent
	for rows.Next() {
		var e entity.ReconnectionEvent
		if err := rows.Scan(
			&e.ID, &e.CustomerID, &e.SequenceNumber, &e.TaxApplicable, &e.StoredAmount,
			&e.RestoredAt, &e.AppliedBoletaID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reconnection: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
