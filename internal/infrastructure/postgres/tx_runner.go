package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aguasaustral/facturacion-api/internal/application/billing"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunFacturacion inicia una transacción con los repos de finalización de
// boleta atados a la tx y hace Commit o Rollback. El reclamo condicional de
// multas/reposiciones y la escritura de la boleta quedan en la misma
// transacción: o se consume todo y la boleta existe, o nada quedó tocado.
func (r *TxRunner) RunFacturacion(ctx context.Context, fn func(
	fineRepo repository.FineRepository,
	reconnectionRepo repository.ReconnectionRepository,
	boletaRepo repository.BoletaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	fineRepo := NewFineRepository(tx)
	reconnectionRepo := NewReconnectionRepository(tx)
	boletaRepo := NewBoletaRepository(tx)

	if err := fn(fineRepo, reconnectionRepo, boletaRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
