package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"xcmScope/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS account (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transfer (
	id TEXT PRIMARY KEY,
	block_number BIGINT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL,
	extrinsic_hash TEXT,
	from_id TEXT NOT NULL REFERENCES account (id),
	to_para_id BIGINT NOT NULL,
	to_id TEXT NOT NULL,
	to_address TEXT NOT NULL,
	assets JSONB NOT NULL,
	fee NUMERIC NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transfer_block_number ON transfer (block_number);
CREATE INDEX IF NOT EXISTS idx_transfer_from_id ON transfer (from_id);
CREATE INDEX IF NOT EXISTS idx_transfer_to_para_id ON transfer (to_para_id);

CREATE TABLE IF NOT EXISTS indexer_state (
	name TEXT PRIMARY KEY,
	last_height BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for accounts, transfers and progress.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables used by the indexer if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutTransferBatch writes the accounts and transfers of a batch in one
// transaction. Both inserts are idempotent on id, so a replayed batch is a
// no-op.
func (s *Store) PutTransferBatch(ctx context.Context, batch model.TransferBatch) error {
	if len(batch.Accounts) == 0 && len(batch.Transfers) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := upsertAccounts(ctx, tx, batch.Accounts); err != nil {
		return err
	}
	if err := insertTransfers(ctx, tx, batch.Transfers); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func upsertAccounts(ctx context.Context, tx pgx.Tx, accounts []model.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, account := range accounts {
		batch.Queue(`INSERT INTO account (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, account.ID)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for range accounts {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert account: %w", err)
		}
	}
	return br.Close()
}

func insertTransfers(ctx context.Context, tx pgx.Tx, transfers []model.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, transfer := range transfers {
		assets, err := json.Marshal(transfer.Assets)
		if err != nil {
			return fmt.Errorf("marshal assets: %w", err)
		}
		fee := "0"
		if transfer.Fee != nil {
			fee = transfer.Fee.String()
		}
		batch.Queue(`
			INSERT INTO transfer (
				id, block_number, timestamp, extrinsic_hash, from_id,
				to_para_id, to_id, to_address, assets, fee
			) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10::text::numeric)
			ON CONFLICT (id) DO NOTHING
		`,
			transfer.ID,
			int64(transfer.BlockNumber),
			transfer.Timestamp,
			transfer.ExtrinsicHash,
			transfer.From,
			int64(transfer.To.ParaID),
			transfer.To.ID,
			transfer.To.Address,
			string(assets),
			fee,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for range transfers {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert transfer: %w", err)
		}
	}
	return br.Close()
}

// LoadState returns the last persisted block height for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var height int64
	row := s.pool.QueryRow(ctx, `SELECT last_height FROM indexer_state WHERE name=$1`, name)
	if err := row.Scan(&height); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(height), true, nil
}

// SaveState upserts the last persisted block height for a name.
func (s *Store) SaveState(ctx context.Context, name string, height uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO indexer_state (name, last_height, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_height = EXCLUDED.last_height, updated_at = now()
	`, name, int64(height))
	return err
}
