package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks con repositorios ligados a una misma transacción.
// Commit al final, Rollback ante cualquier error o panic.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner sobre el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre la transacción del registro (organización + primer usuario).
func (t *TxRunner) Run(ctx context.Context, fn func(
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(NewOrganizationRepository(tx), NewUserRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// RunImport abre la transacción de una importación CSV: todas las filas entran
// o ninguna.
func (t *TxRunner) RunImport(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
