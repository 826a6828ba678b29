// Package repository provides persistence implementations for the account
// slot using PostgreSQL, Redis or process memory.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresSlotRepository implements slot reads and writes against a PostgreSQL database.
type PostgresSlotRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSlotRepository creates a new PostgresSlotRepository using the provided *sql.DB.
// db must be a valid connection to a PostgreSQL instance with the kv_slots table in place.
func NewPostgresSlotRepository(db *sql.DB) *PostgresSlotRepository {
	return &PostgresSlotRepository{DB: db}
}

// Get retrieves the value stored under key.
//
//	ctx: context for cancellation and deadlines
//	key: name of the slot
//
// Returns ok=false without an error when the slot was never written.
func (s *PostgresSlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, `
		SELECT value FROM kv_slots WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot: %w", err)
	}
	return value, true, nil
}

// Set inserts the slot or replaces its value.
//
//	ctx:   context for cancellation and deadlines
//	key:   name of the slot
//	value: serialized content to store
func (s *PostgresSlotRepository) Set(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("set slot: %w", err)
	}
	return nil
}
