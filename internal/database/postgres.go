package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// PostgresStore is the Store used when DATABASE_URL is configured
type PostgresStore struct {
	Pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects a pgx pool and runs migrations
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{Pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Database initialized with connection pooling",
		"driver", "pgx",
		"max_conns", cfg.MaxConns)

	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS esg_records (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL REFERENCES users(id),
			input JSONB NOT NULL,
			environmental_calculations JSONB NOT NULL,
			environmental_score DOUBLE PRECISION NOT NULL,
			social_score DOUBLE PRECISION NOT NULL,
			governance_score DOUBLE PRECISION NOT NULL,
			overall_esg_score DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_esg_records_user_created ON esg_records(user_id, created_at DESC, seq DESC)`,
	}

	for _, query := range queries {
		if _, err := s.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a user. A taken email yields ErrDuplicateEmail.
func (s *PostgresStore) CreateUser(ctx context.Context, user *User) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, NormalizeEmail(user.Email), user.PasswordHash, user.CreatedAt, user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) getUser(ctx context.Context, where string, arg string) (*User, error) {
	var user User
	err := s.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users WHERE `+where+` = $1
	`, arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, "email", NormalizeEmail(email))
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *PostgresStore) CreateRecord(ctx context.Context, record *Record) error {
	input, calculations, err := encodeRecord(record)
	if err != nil {
		return err
	}

	_, err = s.Pool.Exec(ctx, `
		INSERT INTO esg_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, record.ID, record.UserID, json.RawMessage(input), json.RawMessage(calculations),
		record.EnvironmentalScore, record.SocialScore, record.GovernanceScore, record.OverallESGScore,
		record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestRecord(ctx context.Context, userID string) (*Record, error) {
	var (
		record       Record
		input        []byte
		calculations []byte
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM esg_records WHERE user_id = $1
		ORDER BY created_at DESC, seq DESC LIMIT 1
	`, userID).Scan(
		&record.ID, &record.UserID, &input, &calculations,
		&record.EnvironmentalScore, &record.SocialScore, &record.GovernanceScore, &record.OverallESGScore,
		&record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest record: %w", err)
	}

	if err := decodeRecord(&record, input, calculations); err != nil {
		return nil, err
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return &record, nil
}

func (s *PostgresStore) TrendRecords(ctx context.Context, userID string, limit int) ([]TrendPoint, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT created_at, environmental_score, social_score, governance_score, overall_esg_score
		FROM esg_records WHERE user_id = $1
		ORDER BY created_at DESC, seq DESC LIMIT $2
	`, userID, ClampTrendLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}

	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (TrendPoint, error) {
		var record Record
		err := row.Scan(
			&record.CreatedAt,
			&record.EnvironmentalScore, &record.SocialScore, &record.GovernanceScore, &record.OverallESGScore,
		)
		return record.TrendPoint(), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan trend rows: %w", err)
	}

	slices.Reverse(points)
	return points, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *PostgresStore) Stats() map[string]interface{} {
	stats := s.Pool.Stat()
	return map[string]interface{}{
		"driver":               "pgx",
		"total_connections":    stats.TotalConns(),
		"in_use":               stats.AcquiredConns(),
		"idle":                 stats.IdleConns(),
		"max_open_connections": stats.MaxConns(),
		"acquire_count":        stats.AcquireCount(),
		"acquire_duration_ms":  stats.AcquireDuration().Milliseconds(),
	}
}

func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}
