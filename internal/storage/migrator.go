package storage

import (
	"context"
	"database/sql"
	"fmt"
	"voltabot/internal/storage/migrations"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

type gooseCommand func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error

// migrate runs one goose command against the embedded order_drafts schema.
func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger, operation string, cmd gooseCommand) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: failed to set dialect: %w", operation, err)
	}

	logger.Info("Running goose command", zap.String("operation", operation))
	if err := cmd(ctx, db, "."); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	logger.Info("Goose command completed", zap.String("operation", operation))
	return nil
}

func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return migrate(ctx, db, logger, "storage.RunMigrations", goose.UpContext)
}

func RollbackMigration(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return migrate(ctx, db, logger, "storage.RollbackMigration", goose.DownContext)
}

func Status(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return migrate(ctx, db, logger, "storage.Status", goose.StatusContext)
}
