package billing_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aguasaustral/facturacion-api/internal/domain"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

// Fakes en memoria de los puertos de persistencia, para testear los casos de
// uso sin base de datos. El reclamo condicional imita al repositorio real:
// primera escritura gana, las siguientes reciben domain.ErrChargeClaimed.

func testPeriod() entity.Period {
	return entity.Period{
		Start: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testTariff() *entity.Tariff {
	return &entity.Tariff{
		ID:             "tarifa-2024",
		ValidFrom:      time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		FixedCharge:    decimal.NewFromInt(1000),
		WaterRatePerM3: decimal.NewFromInt(100),
		Rates: entity.SeparateRates{
			SewageRatePerM3:    decimal.NewFromInt(50),
			TreatmentRatePerM3: decimal.NewFromInt(50),
		},
		ReconnectionCost1: decimal.NewFromInt(400),
		ReconnectionCost2: decimal.NewFromInt(900),
		TaxRate:           decimal.RequireFromString("0.19"),
	}
}

type fakeTariffRepo struct {
	tariffs []*entity.Tariff
	err     error
}

func (r *fakeTariffRepo) GetEffective(date time.Time) (*entity.Tariff, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, t := range r.tariffs {
		if t.Covers(date) {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTariffRepo) List() ([]*entity.Tariff, error) {
	return r.tariffs, r.err
}

type fakeSubsidyRepo struct {
	entries []*entity.SubsidyAssignment
}

func (r *fakeSubsidyRepo) GetLatest(customerID string, asOf time.Time) (*entity.SubsidyAssignment, error) {
	var latest *entity.SubsidyAssignment
	for _, e := range r.entries {
		if e.CustomerID != customerID || e.EffectiveFrom.After(asOf) {
			continue
		}
		if latest == nil || e.EffectiveFrom.After(latest.EffectiveFrom) {
			latest = e
		}
	}
	return latest, nil
}

func (r *fakeSubsidyRepo) ListByCustomer(customerID string) ([]*entity.SubsidyAssignment, error) {
	var out []*entity.SubsidyAssignment
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeDiscountRepo struct {
	discounts []*entity.Discount
}

func (r *fakeDiscountRepo) ListApplicable(customerID string, start, end time.Time) ([]*entity.Discount, error) {
	var out []*entity.Discount
	for _, d := range r.discounts {
		if d.CustomerID == customerID && d.AppliesTo(start, end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDiscountRepo) ListOverlapping(start, end time.Time) ([]*entity.Discount, error) {
	var out []*entity.Discount
	for _, d := range r.discounts {
		if d.AppliesTo(start, end) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeFineRepo struct {
	mu    sync.Mutex
	fines []*entity.Fine
	// claimedElsewhere simula la carrera: la multa aparece pendiente en el
	// listado pero el reclamo condicional ya lo perdió contra otra corrida.
	claimedElsewhere map[string]bool
	// listErr fuerza una falla de listado por cliente.
	listErr map[string]error
}

func (r *fakeFineRepo) ListPending(customerID string) ([]*entity.Fine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.listErr[customerID]; err != nil {
		return nil, err
	}
	var out []*entity.Fine
	for _, f := range r.fines {
		if f.CustomerID == customerID && f.Pending() {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFineRepo) ListPendingAll() ([]*entity.Fine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Fine
	for _, f := range r.fines {
		if f.Pending() {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFineRepo) Claim(fineID, boletaID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimedElsewhere[fineID] {
		return domain.ErrChargeClaimed
	}
	for _, f := range r.fines {
		if f.ID == fineID {
			if !f.Pending() {
				return domain.ErrChargeClaimed
			}
			id := boletaID
			f.AppliedBoletaID = &id
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeFineRepo) claimedBy(fineID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.fines {
		if f.ID == fineID && f.AppliedBoletaID != nil {
			return *f.AppliedBoletaID
		}
	}
	return ""
}

type fakeReconnectionRepo struct {
	mu               sync.Mutex
	events           []*entity.ReconnectionEvent
	claimedElsewhere map[string]bool
}

func (r *fakeReconnectionRepo) ListPending(customerID string, until time.Time) ([]*entity.ReconnectionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ReconnectionEvent
	for _, e := range r.events {
		if e.CustomerID == customerID && e.Pending() && !e.RestoredAt.After(until) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeReconnectionRepo) ListPendingUntil(until time.Time) ([]*entity.ReconnectionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ReconnectionEvent
	for _, e := range r.events {
		if e.Pending() && !e.RestoredAt.After(until) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeReconnectionRepo) Claim(eventID, boletaID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimedElsewhere[eventID] {
		return domain.ErrChargeClaimed
	}
	for _, e := range r.events {
		if e.ID == eventID {
			if !e.Pending() {
				return domain.ErrChargeClaimed
			}
			id := boletaID
			e.AppliedBoletaID = &id
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeReconnectionRepo) pendingIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Pending() {
			out = append(out, e.ID)
		}
	}
	return out
}

type fakeBoletaRepo struct {
	mu        sync.Mutex
	boletas   []*entity.Boleta
	folio     int64
	createErr error
}

func (r *fakeBoletaRepo) Create(b *entity.Boleta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.boletas {
		if existing.CustomerID == b.CustomerID && existing.PeriodStart.Equal(b.PeriodStart) {
			return domain.ErrBoletaExists
		}
	}
	r.boletas = append(r.boletas, b)
	return nil
}

func (r *fakeBoletaRepo) GetByID(id string) (*entity.Boleta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.boletas {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBoletaRepo) GetByCustomerPeriod(customerID string, start time.Time) (*entity.Boleta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.boletas {
		if b.CustomerID == customerID && b.PeriodStart.Equal(start) {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBoletaRepo) NextFolio() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folio++
	return r.folio, nil
}

// fakeTxRunner ejecuta el callback sobre los fakes y, si falla, restaura el
// estado previo (imita el rollback del runner real).
type fakeTxRunner struct {
	mu      sync.Mutex
	fines   *fakeFineRepo
	events  *fakeReconnectionRepo
	boletas *fakeBoletaRepo
}

func newFakeTxRunner(fines *fakeFineRepo, events *fakeReconnectionRepo, boletas *fakeBoletaRepo) *fakeTxRunner {
	return &fakeTxRunner{fines: fines, events: events, boletas: boletas}
}

func (r *fakeTxRunner) RunFacturacion(ctx context.Context, fn func(
	fineRepo repository.FineRepository,
	reconnectionRepo repository.ReconnectionRepository,
	boletaRepo repository.BoletaRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	finesBefore := snapshotFines(r.fines)
	eventsBefore := snapshotEvents(r.events)
	r.boletas.mu.Lock()
	boletasBefore := len(r.boletas.boletas)
	folioBefore := r.boletas.folio
	r.boletas.mu.Unlock()

	if err := fn(r.fines, r.events, r.boletas); err != nil {
		restoreFines(r.fines, finesBefore)
		restoreEvents(r.events, eventsBefore)
		r.boletas.mu.Lock()
		r.boletas.boletas = r.boletas.boletas[:boletasBefore]
		r.boletas.folio = folioBefore
		r.boletas.mu.Unlock()
		return err
	}
	return nil
}

func snapshotFines(repo *fakeFineRepo) map[string]*string {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	state := make(map[string]*string, len(repo.fines))
	for _, f := range repo.fines {
		state[f.ID] = f.AppliedBoletaID
	}
	return state
}

func restoreFines(repo *fakeFineRepo, state map[string]*string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, f := range repo.fines {
		f.AppliedBoletaID = state[f.ID]
	}
}

func snapshotEvents(repo *fakeReconnectionRepo) map[string]*string {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	state := make(map[string]*string, len(repo.events))
	for _, e := range repo.events {
		state[e.ID] = e.AppliedBoletaID
	}
	return state
}

func restoreEvents(repo *fakeReconnectionRepo, state map[string]*string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, e := range repo.events {
		e.AppliedBoletaID = state[e.ID]
	}
}
