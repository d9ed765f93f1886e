package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/powercore/internal/db/migrations"
)

// openProvider opens a database/sql handle over pgx and binds the embedded
// definition schema to it. The caller closes the returned *sql.DB.
func openProvider(dsn string) (*goose.Provider, *sql.DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("creating migration provider: %w", err)
	}
	return p, sqlDB, nil
}

// RunMigrations brings the definition schema at dsn up to date.
// Running it against an up to date schema is a no-op.
func RunMigrations(ctx context.Context, dsn string) error {
	p, sqlDB, err := openProvider(dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying definition schema: %w", err)
	}
	for _, r := range results {
		slog.Info("definition schema migration applied",
			"version", r.Source.Version,
			"file", r.Source.Path,
			"duration", r.Duration)
	}
	return nil
}

// SchemaVersion reports the highest applied definition schema version, 0 for an empty database.
func SchemaVersion(ctx context.Context, dsn string) (int64, error) {
	p, sqlDB, err := openProvider(dsn)
	if err != nil {
		return 0, err
	}
	defer sqlDB.Close()

	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading definition schema version: %w", err)
	}
	return v, nil
}
