package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aguasaustral/facturacion-api/internal/domain"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

var _ repository.FineRepository = (*FineRepo)(nil)

// FineRepo implementación de FineRepository (usable con pool o tx).
type FineRepo struct {
	q Querier
}

// NewFineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFineRepository(q Querier) *FineRepo {
	return &FineRepo{q: q}
}

const fineColumns = `id, customer_id, amount, tax_applicable, applied_boleta_id, created_at`

// ListPending devuelve las multas del cliente sin boleta aplicada.
func (r *FineRepo) ListPending(customerID string) ([]*entity.Fine, error) {
	query := `
		SELECT ` + fineColumns + `
		FROM fines
		WHERE customer_id = $1 AND applied_boleta_id IS NULL
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list pending fines: %w", err)
	}
	return collectFines(rows)
}

// ListPendingAll devuelve las multas pendientes de todos los clientes.
func (r *FineRepo) ListPendingAll() ([]*entity.Fine, error) {
	query := `
		SELECT ` + fineColumns + `
		FROM fines
		WHERE applied_boleta_id IS NULL
		ORDER BY customer_id, created_at`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list pending fines all: %w", err)
	}
	return collectFines(rows)
}

// Claim marca la multa como aplicada con una escritura condicional: solo gana
// quien encuentre applied_boleta_id aún nulo. Cero filas afectadas significa
// que otra corrida la consumió primero.
func (r *FineRepo) Claim(fineID, boletaID string) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE fines
		SET applied_boleta_id = $2
		WHERE id = $1 AND applied_boleta_id IS NULL`,
		fineID, boletaID,
	)
	if err != nil {
		return fmt.Errorf("claim fine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChargeClaimed
	}
	return nil
}

func collectFines(rows pgx.Rows) ([]*entity.Fine, error) {
	defer rows.Close()
	var list []*entity.Fine
	for rows.Next() {
		var f entity.Fine
		if err := rows.Scan(&f.ID, &f.CustomerID, &f.Amount, &f.TaxApplicable, &f.AppliedBoletaID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fine: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
