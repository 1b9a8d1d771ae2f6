// Package submission runs a raw ESG submission through validation, the
// scoring engine and the store.
package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/Mandar-Sonkusare/esg/internal/database"
	"github.com/Mandar-Sonkusare/esg/internal/errors"
	"github.com/Mandar-Sonkusare/esg/internal/monitoring"
	"github.com/Mandar-Sonkusare/esg/internal/scoring"
	"github.com/Mandar-Sonkusare/esg/internal/validation"
)

// Invalidator drops cached reads for a user after a write
type Invalidator interface {
	Invalidate(userID string)
}

// Service orchestrates validate -> score -> persist -> invalidate
type Service struct {
	engine      *scoring.Engine
	store       database.Store
	invalidator Invalidator
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
}

// NewService creates a submission service. invalidator may be nil.
func NewService(engine *scoring.Engine, store database.Store, invalidator Invalidator, metrics *monitoring.Metrics, logger *monitoring.Logger) *Service {
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}
	if logger == nil {
		logger = monitoring.NewLogger()
	}
	return &Service{
		engine:      engine,
		store:       store,
		invalidator: invalidator,
		metrics:     metrics,
		logger:      logger,
	}
}

// Calculate validates raw and scores it without storing anything
func (s *Service) Calculate(userID string, raw []byte) (scoring.Result, error) {
	in, err := s.decode(raw)
	if err != nil {
		return scoring.Result{}, err
	}

	start := time.Now()
	result := s.engine.ComputeScores(in)
	if err := s.checkFinite(result); err != nil {
		return scoring.Result{}, err
	}
	s.logger.ScoreLogger(userID, result.Scores, time.Since(start), false)
	s.metrics.RecordScores(result.Scores, false)

	return result, nil
}

// Submit validates and scores raw, appends the record for userID and drops
// the user's cached history. Nothing is stored when validation fails.
func (s *Service) Submit(ctx context.Context, userID string, raw []byte) (*database.Record, error) {
	in, err := s.decode(raw)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := s.engine.ComputeScores(in)
	duration := time.Since(start)
	if err := s.checkFinite(result); err != nil {
		return nil, err
	}

	record := database.NewRecord(userID, in, result)
	if err := s.store.CreateRecord(ctx, record); err != nil {
		return nil, errors.NewInternalError("failed to store ESG record", err)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}

	s.logger.ScoreLogger(userID, result.Scores, duration, true)
	s.metrics.RecordScores(result.Scores, true)

	return record, nil
}

// Benchmarks returns the tables the engine scores against
func (s *Service) Benchmarks() scoring.Config {
	return s.engine.Config()
}

// checkFinite rejects inputs large enough to push a derived quantity past
// float64 range, since such a result cannot be encoded or stored.
func (s *Service) checkFinite(result scoring.Result) error {
	section := result.EnvironmentalCalculations.Overflow()
	if section == "" {
		return nil
	}
	s.metrics.IncrementValidationFailure()
	return errors.NewFieldError(
		fmt.Sprintf("Invalid value for %s: values are too large to score", section),
		section,
		nil,
	)
}

func (s *Service) decode(raw []byte) (scoring.Input, error) {
	in, err := validation.Decode(raw)
	if err != nil {
		s.metrics.IncrementValidationFailure()
		return in, errors.NewFieldError(err.Error(), validation.FieldPath(err), err)
	}
	return in, nil
}
