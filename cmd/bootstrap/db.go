package bootstrap

import (
	"context"
	"io/fs"
	"log/slog"

	"room-booking/internal/infra/db"
	"room-booking/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

// MigrationModule applies the embedded schema of one service at startup when DB_AUTO_MIGRATE is set.
// Each service records its versions in its own table so both can share a database.
func MigrationModule(src fs.FS, dir, table string) fx.Option {
	return fx.Module("db/migrate",
		fx.Invoke(func(pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger) error {
			if !cfg.DB.AutoMigrate {
				logger.Info("automatic migrations disabled")
				return nil
			}
			if err := db.Migrate(pool, src, dir, table); err != nil {
				return err
			}
			logger.Info("database schema is up to date", "schema", dir)
			return nil
		}),
	)
}
