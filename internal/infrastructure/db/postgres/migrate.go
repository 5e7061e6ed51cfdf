package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// seams for tests
var (
	gooseUpContext     = goose.UpContext
	gooseDownContext   = goose.DownContext
	gooseStatusContext = goose.StatusContext
)

func prepareGoose() error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return nil
}

// Migrate runs one goose command ("up", "down" or "status") against db.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	var err error
	switch command {
	case "up":
		err = gooseUpContext(ctx, db, migrationsDir)
	case "down":
		err = gooseDownContext(ctx, db, migrationsDir)
	case "status":
		err = gooseStatusContext(ctx, db, migrationsDir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
