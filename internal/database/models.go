package database

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mandar-Sonkusare/esg/internal/scoring"
)

// trendDateLayout is the day granularity used by trend points
const trendDateLayout = "2006-01-02"

// User represents a registered account
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Record is one stored submission: the raw sections, the derived
// calculations and the four scores. Records are append-only.
type Record struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user" db:"user_id"`
	scoring.Input
	EnvironmentalCalculations scoring.EnvironmentalCalculations `json:"environmentalCalculations" db:"environmental_calculations"`
	scoring.Scores
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TrendPoint is the projection of a Record used for history charts
type TrendPoint struct {
	Date          string  `json:"date"`
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
	Overall       float64 `json:"overall"`
}

// NewUser creates a new user with generated ID. Emails are stored lowercased.
func NewUser(email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewRecord creates a record for userID from an input and its scores
func NewRecord(userID string, in scoring.Input, result scoring.Result) *Record {
	return &Record{
		ID:                        uuid.New().String(),
		UserID:                    userID,
		Input:                     in,
		EnvironmentalCalculations: result.EnvironmentalCalculations,
		Scores:                    result.Scores,
		CreatedAt:                 time.Now().UTC(),
	}
}

// TrendPoint projects the record onto its UTC calendar date and scores
func (r *Record) TrendPoint() TrendPoint {
	return TrendPoint{
		Date:          r.CreatedAt.UTC().Format(trendDateLayout),
		Environmental: r.EnvironmentalScore,
		Social:        r.SocialScore,
		Governance:    r.GovernanceScore,
		Overall:       r.OverallESGScore,
	}
}

// NormalizeEmail trims and lowercases an address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
