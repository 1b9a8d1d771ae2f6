// Package history serves a user's latest ESG record and score trend from the
// store, keeping recent answers in a TTL cache until the next submission.
package history

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Mandar-Sonkusare/esg/internal/cache"
	"github.com/Mandar-Sonkusare/esg/internal/database"
	"github.com/Mandar-Sonkusare/esg/internal/errors"
)

// CacheMetrics receives hit and miss counts
type CacheMetrics interface {
	IncrementCacheHit()
	IncrementCacheMiss()
}

type noopMetrics struct{}

func (noopMetrics) IncrementCacheHit()  {}
func (noopMetrics) IncrementCacheMiss() {}

// Service handles latest and trend reads
type Service struct {
	store        database.Store
	cache        *cache.Cache
	metrics      CacheMetrics
	defaultLimit int

	// generations counts invalidations per user. A read only caches what it
	// loaded if no invalidation happened while it was querying the store.
	genMu       sync.Mutex
	generations map[string]uint64
}

// NewService creates a history service caching for ttl. defaultLimit applies
// when a trend request does not name one.
func NewService(store database.Store, ttl time.Duration, defaultLimit int, metrics CacheMetrics) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		store:        store,
		cache:        cache.NewCache(ttl),
		metrics:      metrics,
		defaultLimit: database.ClampTrendLimit(defaultLimit),
		generations:  make(map[string]uint64),
	}
}

func latestKey(userID string) string {
	return cache.Key("latest", userID)
}

func trendKey(userID string, limit int) string {
	return cache.Key("trend", userID, strconv.Itoa(limit))
}

// Latest returns the newest record for userID, or a 404 "No ESG data found"
func (s *Service) Latest(ctx context.Context, userID string) (*database.Record, error) {
	key := latestKey(userID)

	var record database.Record
	if s.getCached(key, &record) {
		return &record, nil
	}

	gen := s.generation(userID)
	latest, err := s.store.LatestRecord(ctx, userID)
	if stdErrors.Is(err, database.ErrNotFound) {
		return nil, errors.NewNotFoundError("No ESG data found")
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to load latest record", err)
	}

	s.setCached(userID, gen, key, latest)
	return latest, nil
}

// Trend returns up to limit points, oldest first. limit <= 0 uses the
// service default and values above the store maximum are capped.
func (s *Service) Trend(ctx context.Context, userID string, limit int) ([]database.TrendPoint, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = database.ClampTrendLimit(limit)
	key := trendKey(userID, limit)

	var points []database.TrendPoint
	if s.getCached(key, &points) {
		return points, nil
	}

	gen := s.generation(userID)
	points, err := s.store.TrendRecords(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to load trend", err)
	}
	if points == nil {
		points = []database.TrendPoint{}
	}

	s.setCached(userID, gen, key, points)
	return points, nil
}

// Invalidate drops every cached answer for userID
func (s *Service) Invalidate(userID string) {
	s.genMu.Lock()
	s.generations[userID]++
	s.cache.Delete(latestKey(userID))
	removed := s.cache.DeletePrefix(cache.Key("trend", userID) + ":")
	s.genMu.Unlock()
	slog.Debug("History cache invalidated", "user_id", userID, "trend_entries", removed)
}

// CacheStats returns cache statistics
func (s *Service) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}

// Close stops the cache sweeper
func (s *Service) Close() {
	s.cache.Close()
}

func (s *Service) getCached(key string, dst interface{}) bool {
	data, found := s.cache.Get(key)
	if !found {
		s.metrics.IncrementCacheMiss()
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		slog.Error("Failed to unmarshal cached history data", "error", err, "key", key)
		s.cache.Delete(key)
		s.metrics.IncrementCacheMiss()
		return false
	}

	s.metrics.IncrementCacheHit()
	return true
}

func (s *Service) generation(userID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[userID]
}

// setCached stores value unless userID was invalidated after gen was read
func (s *Service) setCached(userID string, gen uint64, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Error("Failed to marshal history data for cache", "error", err, "key", key)
		return
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.generations[userID] != gen {
		slog.Debug("Skipped caching stale history read", "user_id", userID, "key", key)
		return
	}
	s.cache.Set(key, data)
}
