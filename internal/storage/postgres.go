package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"voltabot/internal/config"
	"voltabot/internal/order"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStorage keeps one draft row per user. Rows older than the TTL are
// treated as absent and removed by PurgeExpired.
type PostgresStorage struct {
	db     *sqlx.DB
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

type draftRow struct {
	UserID    int64     `db:"user_id"`
	Draft     []byte    `db:"draft"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewPostgresStorage(ctx context.Context, cfg config.Database, ttl time.Duration, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				_ = db.Close()
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return NewWithDB(db, ttl, logger), nil
}

// NewWithDB wraps an already opened connection.
func NewWithDB(db *sqlx.DB, ttl time.Duration, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:     db,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func (s *PostgresStorage) Load(ctx context.Context, userID int64) (*order.Draft, error) {
	const operation = "storage.Load"
	const query = `SELECT user_id, draft, updated_at FROM order_drafts WHERE user_id = $1`

	var row draftRow
	err := s.db.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return order.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get draft: %w", operation, err)
	}

	if s.ttl > 0 && s.now().Sub(row.UpdatedAt) > s.ttl {
		s.logger.Debug("Ignoring expired draft",
			zap.Int64("user_id", userID),
			zap.Time("updated_at", row.UpdatedAt))
		return order.New(), nil
	}

	var d order.Draft
	if err := json.Unmarshal(row.Draft, &d); err != nil {
		return nil, fmt.Errorf("%s: failed to decode draft: %w", operation, err)
	}
	return &d, nil
}

func (s *PostgresStorage) Save(ctx context.Context, userID int64, d *order.Draft) error {
	const operation = "storage.Save"
	const query = `
        INSERT INTO order_drafts (user_id, draft, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE
        SET draft = EXCLUDED.draft, updated_at = EXCLUDED.updated_at
    `

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%s: failed to encode draft: %w", operation, err)
	}

	if _, err := s.db.ExecContext(ctx, query, userID, string(data), s.now()); err != nil {
		return fmt.Errorf("%s: failed to upsert draft: %w", operation, err)
	}
	return nil
}

// PurgeExpired deletes drafts not saved within the TTL.
func (s *PostgresStorage) PurgeExpired(ctx context.Context) (int64, error) {
	const operation = "storage.PurgeExpired"

	if s.ttl <= 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM order_drafts WHERE updated_at < $1`, s.now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete expired drafts: %w", operation, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count deleted drafts: %w", operation, err)
	}
	return n, nil
}

// RunPurger calls PurgeExpired every interval until ctx is done.
func (s *PostgresStorage) RunPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				s.logger.Error("Failed to purge expired drafts", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("Purged expired drafts", zap.Int64("count", n))
			}
		}
	}
}
