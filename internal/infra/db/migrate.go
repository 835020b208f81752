package db

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Migrate applies every pending up migration found at dir inside src.
// Each service keeps its own version table so both can share one database.
func Migrate(pool *pgxpool.Pool, src fs.FS, dir, table string) error {
	source, err := iofs.New(src, dir)
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	// The *sql.DB borrows connections from pool; closing the migrator releases them.
	driver, err := pgxv5.WithInstance(stdlib.OpenDBFromPool(pool), &pgxv5.Config{MigrationsTable: table})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx_v5", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
