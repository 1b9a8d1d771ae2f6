package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Repository is the sqlite Store
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// CreateUser inserts a user. A taken email yields ErrDuplicateEmail.
func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	stmt, err := r.db.GetPreparedStatement("insert_user")
	if err != nil {
		return err
	}

	_, err = stmt.ExecContext(ctx, user.ID, NormalizeEmail(user.Email), user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *Repository) getUser(ctx context.Context, statement, arg string) (*User, error) {
	stmt, err := r.db.GetPreparedStatement(statement)
	if err != nil {
		return nil, err
	}

	var user User
	err = stmt.QueryRowContext(ctx, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail looks a user up by (normalized) email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, "get_user_by_email", NormalizeEmail(email))
}

// GetUserByID looks a user up by id
func (r *Repository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "get_user_by_id", id)
}

// CreateRecord appends a scored submission
func (r *Repository) CreateRecord(ctx context.Context, record *Record) error {
	input, calculations, err := encodeRecord(record)
	if err != nil {
		return err
	}

	stmt, err := r.db.GetPreparedStatement("insert_record")
	if err != nil {
		return err
	}

	_, err = stmt.ExecContext(ctx,
		record.ID, record.UserID, string(input), string(calculations),
		record.EnvironmentalScore, record.SocialScore, record.GovernanceScore, record.OverallESGScore,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// LatestRecord returns the newest record for userID
func (r *Repository) LatestRecord(ctx context.Context, userID string) (*Record, error) {
	stmt, err := r.db.GetPreparedStatement("latest_record")
	if err != nil {
		return nil, err
	}

	var (
		record       Record
		input        string
		calculations string
	)
	err = stmt.QueryRowContext(ctx, userID).Scan(
		&record.ID, &record.UserID, &input, &calculations,
		&record.EnvironmentalScore, &record.SocialScore, &record.GovernanceScore, &record.OverallESGScore,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest record: %w", err)
	}

	if err := decodeRecord(&record, []byte(input), []byte(calculations)); err != nil {
		return nil, err
	}
	return &record, nil
}

// TrendRecords returns up to limit of the newest records, oldest first
func (r *Repository) TrendRecords(ctx context.Context, userID string, limit int) ([]TrendPoint, error) {
	stmt, err := r.db.GetPreparedStatement("trend_records")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, userID, ClampTrendLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}
	defer rows.Close()

	points := make([]TrendPoint, 0, ClampTrendLimit(limit))
	for rows.Next() {
		var (
			record    Record
			createdAt time.Time
		)
		if err := rows.Scan(
			&createdAt,
			&record.EnvironmentalScore, &record.SocialScore, &record.GovernanceScore, &record.OverallESGScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		record.CreatedAt = createdAt
		points = append(points, record.TrendPoint())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trend rows: %w", err)
	}

	slices.Reverse(points)
	return points, nil
}

// Ping verifies the connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Stats returns connection pool statistics
func (r *Repository) Stats() map[string]interface{} {
	return r.db.GetPoolStats()
}

// Close releases the statements and connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func encodeRecord(record *Record) ([]byte, []byte, error) {
	input, err := json.Marshal(record.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode record input: %w", err)
	}
	calculations, err := json.Marshal(record.EnvironmentalCalculations)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode environmental calculations: %w", err)
	}
	return input, calculations, nil
}

func decodeRecord(record *Record, input, calculations []byte) error {
	if err := json.Unmarshal(input, &record.Input); err != nil {
		return fmt.Errorf("failed to decode record input: %w", err)
	}
	if err := json.Unmarshal(calculations, &record.EnvironmentalCalculations); err != nil {
		return fmt.Errorf("failed to decode environmental calculations: %w", err)
	}
	return nil
}
