package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

var _ repository.TariffRepository = (*TariffRepo)(nil)

// TariffRepo implementación de TariffRepository (usable con pool o tx).
type TariffRepo struct {
	q Querier
}

// NewTariffRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTariffRepository(q Querier) *TariffRepo {
	return &TariffRepo{q: q}
}

const tariffColumns = `
	id, valid_from, valid_to, fixed_charge, water_rate_m3,
	sewage_rate_m3, treatment_rate_m3, sewage_treatment_rate_m3,
	reconnection_cost_1, reconnection_cost_2,
	tax_rate, monthly_interest_rate, interest_grace_days,
	created_at, updated_at`

// GetEffective obtiene la tarifa cuyo rango semiabierto contiene la fecha.
// Devuelve nil sin error si ninguna la cubre.
func (r *TariffRepo) GetEffective(date time.Time) (*entity.Tariff, error) {
	query := `
		SELECT` + tariffColumns + `
		FROM tariffs
		WHERE valid_from <= $1 AND (valid_to IS NULL OR valid_to > $1)`
	row := r.q.QueryRow(context.Background(), query, date)
	t, err := scanTariff(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tariff: %w", err)
	}
	return t, nil
}

// List devuelve todas las tarifas ordenadas por vigencia.
func (r *TariffRepo) List() ([]*entity.Tariff, error) {
	query := `SELECT` + tariffColumns + ` FROM tariffs ORDER BY valid_from`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list tariffs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tariff
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tariff: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// scanTariff mapea una fila a la entidad, resolviendo la variante del esquema
// una sola vez: si la columna combinada viene poblada gana el esquema
// combinado aunque datos históricos traigan también las separadas.
func scanTariff(row pgx.Row) (*entity.Tariff, error) {
	var t entity.Tariff
	var validTo *time.Time
	var sewage, treatment, combined *decimal.Decimal
	err := row.Scan(
		&t.ID, &t.ValidFrom, &validTo, &t.FixedCharge, &t.WaterRatePerM3,
		&sewage, &treatment, &combined,
		&t.ReconnectionCost1, &t.ReconnectionCost2,
		&t.TaxRate, &t.MonthlyInterestRate, &t.InterestGraceDays,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ValidTo = validTo

	deref := func(p *decimal.Decimal) decimal.Decimal {
		if p != nil {
			return *p
		}
		return decimal.Zero
	}
	if combined != nil {
		t.Rates = entity.CombinedRate{SewageTreatmentRatePerM3: *combined}
	} else {
		t.Rates = entity.SeparateRates{
			SewageRatePerM3:    deref(sewage),
			TreatmentRatePerM3: deref(treatment),
		}
	}
	return &t, nil
}
