package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aguasaustral/facturacion-api/internal/domain"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

var _ repository.BoletaRepository = (*BoletaRepo)(nil)

// BoletaRepo implementación de BoletaRepository (usable con pool o tx).
type BoletaRepo struct {
	q Querier
}

// NewBoletaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBoletaRepository(q Querier) *BoletaRepo {
	return &BoletaRepo{q: q}
}

const boletaColumns = `
	id, customer_id, period_start, period_end, issue_date, due_date,
	consumption_m3, folio, status,
	fixed_charge, water_charge, sewage_charge, treatment_charge, subtotal,
	discount_amount, subsidy_amount, gross_before_subsidy, gross_after_subsidy,
	net_amount, tax_amount, exempt_charges, total_amount,
	prior_balance, other_charges, restructuring_amount,
	created_at, updated_at`

// Create persiste la boleta finalizada. La tabla tiene unique
// (customer_id, period_start): una segunda boleta para el mismo cliente y
// período devuelve domain.ErrBoletaExists.
func (r *BoletaRepo) Create(b *entity.Boleta) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	query := `
		INSERT INTO boletas (` + boletaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.CustomerID, b.PeriodStart, b.PeriodEnd, b.IssueDate, b.DueDate,
		b.ConsumptionM3, b.Folio, b.Status,
		b.FixedCharge, b.WaterCharge, b.SewageCharge, b.TreatmentCharge, b.Subtotal,
		b.DiscountAmount, b.SubsidyAmount, b.GrossBeforeSubsidy, b.GrossAfterSubsidy,
		b.NetAmount, b.TaxAmount, b.ExemptCharges, b.TotalAmount,
		b.PriorBalance, b.OtherCharges, b.RestructuringAmount,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBoletaExists
		}
		return fmt.Errorf("insert boleta: %w", err)
	}
	return nil
}

// GetByID obtiene una boleta por ID, o nil si no existe.
func (r *BoletaRepo) GetByID(id string) (*entity.Boleta, error) {
	query := `SELECT ` + boletaColumns + ` FROM boletas WHERE id = $1`
	return r.getOne(query, id)
}

// GetByCustomerPeriod obtiene la boleta del cliente para el período que parte
// en start, o nil si no existe.
func (r *BoletaRepo) GetByCustomerPeriod(customerID string, start time.Time) (*entity.Boleta, error) {
	query := `SELECT ` + boletaColumns + ` FROM boletas WHERE customer_id = $1 AND period_start = $2`
	return r.getOne(query, customerID, start)
}

// NextFolio reserva el siguiente folio correlativo desde la secuencia.
func (r *BoletaRepo) NextFolio() (int64, error) {
	var folio int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('boletas_folio_seq')`).Scan(&folio)
	if err != nil {
		return 0, fmt.Errorf("next folio: %w", err)
	}
	return folio, nil
}

func (r *BoletaRepo) getOne(query string, args ...any) (*entity.Boleta, error) {
	var b entity.Boleta
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&b.ID, &b.CustomerID, &b.PeriodStart, &b.PeriodEnd, &b.IssueDate, &b.DueDate,
		&b.ConsumptionM3, &b.Folio, &b.Status,
		&b.FixedCharge, &b.WaterCharge, &b.SewageCharge, &b.TreatmentCharge, &b.Subtotal,
		&b.DiscountAmount, &b.SubsidyAmount, &b.GrossBeforeSubsidy, &b.GrossAfterSubsidy,
		&b.NetAmount, &b.TaxAmount, &b.ExemptCharges, &b.TotalAmount,
		&b.PriorBalance, &b.OtherCharges, &b.RestructuringAmount,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get boleta: %w", err)
	}
	return &b, nil
}
