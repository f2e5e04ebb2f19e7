package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"formledger/pkg/platform/sentinel"
)

// PostgresStore persists records in PostgreSQL. The primary key on address
// makes INSERT ... ON CONFLICT DO NOTHING the atomic insert-if-absent.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS ledger_records (
//	    address    BYTEA PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, addr Address, payload []byte) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_records (address, payload)
		VALUES ($1, $2)
		ON CONFLICT (address) DO NOTHING
	`, addr[:], payload)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, addr Address) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM ledger_records WHERE address = $1`, addr[:],
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return payload, nil
}

func (s *PostgresStore) Put(ctx context.Context, addr Address, payload []byte) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ledger_records
		SET payload = $2, updated_at = now()
		WHERE address = $1
	`, addr[:], payload)
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Migrate creates the ledger relation when it does not exist. main calls this
// at startup so deployments stay single-binary.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ledger_records (
		    address    BYTEA PRIMARY KEY,
		    payload    JSONB NOT NULL,
		    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate ledger_records: %w", err)
	}
	return nil
}
