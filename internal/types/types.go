package types

import (
	"time"

	"github.com/Mandar-Sonkusare/esg/internal/scoring"
)

// CredentialsRequest represents the request structure for register and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents the request structure for the refresh endpoint
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Email   string `json:"email"`
}

// AccessTokenResponse is returned by the refresh endpoint
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// SubmitResponse is returned after a submission is scored and stored
type SubmitResponse struct {
	Message                   string                            `json:"message"`
	ID                        string                            `json:"id"`
	Scores                    scoring.Scores                    `json:"scores"`
	EnvironmentalCalculations scoring.EnvironmentalCalculations `json:"environmentalCalculations"`
	CreatedAt                 time.Time                         `json:"createdAt"`
}

// CalculateResponse is the preview result of scoring without persistence
type CalculateResponse struct {
	Scores                    scoring.Scores                    `json:"scores"`
	EnvironmentalCalculations scoring.EnvironmentalCalculations `json:"environmentalCalculations"`
}

// HealthResponse represents the health endpoint payload
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	Database  map[string]interface{} `json:"database"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}
