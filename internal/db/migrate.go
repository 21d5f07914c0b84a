package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/challenge-hub/backend/internal/db/migrations"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

func runGoose(ctx context.Context, command string, sqlDB *sql.DB) error {
	switch command {
	case MigrateUp:
		return goose.UpContext(ctx, sqlDB, ".")
	case MigrateDown:
		return goose.DownContext(ctx, sqlDB, ".")
	case MigrateStatus:
		return goose.StatusContext(ctx, sqlDB, ".")
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

// Migrate applies the embedded goose migrations through the pool.
func (db *Postgres) Migrate(ctx context.Context, command string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	if err := runGoose(ctx, command, sqlDB); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
