// Package pgx implements deadline.StorageAdapter on a PostgreSQL pool.
package pgx

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/nakeddeadlines/deadline"
	"github.com/nakeddeadlines/deadline/adapters/pgx/migrations"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ deadline.StorageAdapter = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

// Migrate applies the embedded schema migrations. It opens a separate
// database/sql handle because goose drives the stdlib interface, not
// the pool.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// storeErr converts infrastructure failures into the uniform store
// error so callers fail closed with one taxonomy.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", deadline.ErrStoreFailed, err)
}
