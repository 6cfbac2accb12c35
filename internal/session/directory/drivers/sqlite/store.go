// Package sqlite backs the credential directory with SQLite for deployments
// that outgrow the seeded in-memory table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerline/sessionkit/internal/session/directory"
	"github.com/ledgerline/sessionkit/internal/session/domain"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Lookup(ctx context.Context, email string) (domain.CredentialRecord, error) {
	var (
		rec        domain.CredentialRecord
		status     string
		profileRaw []byte
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, credential, status, profile, failed_attempts
		 FROM credentials WHERE email = ?`, email,
	).Scan(&rec.ID, &rec.Email, &rec.Credential, &status, &profileRaw, &rec.FailedAttempts)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CredentialRecord{}, directory.ErrNotFound
	}
	if err != nil {
		return domain.CredentialRecord{}, fmt.Errorf("lookup credential: %w", err)
	}

	rec.Status = domain.Status(status)
	if err := json.Unmarshal(profileRaw, &rec.Profile); err != nil {
		return domain.CredentialRecord{}, fmt.Errorf("decode credential profile: %w", err)
	}
	return rec, nil
}

// Create inserts a record. The caller provides the already-hashed credential;
// the email is normalized before storage.
func (s *Store) Create(ctx context.Context, rec domain.CredentialRecord) error {
	profileRaw, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("encode credential profile: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO credentials (id, email, credential, status, profile, failed_attempts, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		strings.ToLower(strings.TrimSpace(rec.Email)),
		rec.Credential,
		string(rec.Status),
		profileRaw,
		rec.FailedAttempts,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}

// RecordFailure bumps the failed-attempt counter and returns the new count.
func (s *Store) RecordFailure(ctx context.Context, email string) (int, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE credentials
		 SET failed_attempts = failed_attempts + 1, updated_at = ?
		 WHERE email = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), email,
	)
	if err != nil {
		return 0, fmt.Errorf("record failure: %w", err)
	}

	var count int
	err = s.db.QueryRowContext(ctx,
		`SELECT failed_attempts FROM credentials WHERE email = ?`, email,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, directory.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("record failure: %w", err)
	}
	return count, nil
}

// ResetFailures clears the failed-attempt counter.
func (s *Store) ResetFailures(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE credentials
		 SET failed_attempts = 0, updated_at = ?
		 WHERE email = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), email,
	)
	if err != nil {
		return fmt.Errorf("reset failures: %w", err)
	}
	return nil
}

// IsEmpty returns true if there are no credential records.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
