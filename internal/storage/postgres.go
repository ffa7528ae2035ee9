package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/pkg/config"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

const transactionsDDL = `
CREATE TABLE IF NOT EXISTS transactions (
    id                         BIGSERIAL PRIMARY KEY,
    tx_digest                  TEXT NOT NULL UNIQUE,
    checkpoint_sequence_number BIGINT NOT NULL,
    sender                     TEXT NOT NULL,
    timestamp_ms               BIGINT NOT NULL,
    execution_status           TEXT NOT NULL,
    raw_transaction            JSONB NOT NULL,
    raw_effects                JSONB,
    created_at                 TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_checkpoint
    ON transactions (checkpoint_sequence_number);
CREATE INDEX IF NOT EXISTS idx_transactions_sender
    ON transactions (sender);
`

const insertTransaction = `
INSERT INTO transactions (
    tx_digest, checkpoint_sequence_number, sender, timestamp_ms,
    execution_status, raw_transaction, raw_effects, created_at
) VALUES (
    :tx_digest, :checkpoint_sequence_number, :sender, :timestamp_ms,
    :execution_status, :raw_transaction, :raw_effects, :created_at
) ON CONFLICT (tx_digest) DO NOTHING`

// Store is the PostgreSQL transaction sink
type Store struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// NewStore connects to PostgreSQL and configures the pool
func NewStore(cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database url is not configured")
	}

	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Store{db: db, logger: log.Named("postgres-store")}, nil
}

// EnsureSchema creates the transactions table if it does not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, transactionsDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// InsertTransactions batch-inserts records, skipping digests already stored.
// Returns the number of rows submitted.
func (s *Store) InsertTransactions(ctx context.Context, records []TransactionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range records {
		if _, err := tx.NamedExecContext(ctx, insertTransaction, &records[i]); err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", records[i].TxDigest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}

	s.logger.Debug("Inserted transaction batch", zap.Int("count", len(records)))
	return len(records), nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}
