package history

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mandar-Sonkusare/esg/internal/auth"
	"github.com/Mandar-Sonkusare/esg/internal/database"
	"github.com/Mandar-Sonkusare/esg/internal/errors"
	"github.com/Mandar-Sonkusare/esg/internal/scoring"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// countingStore counts read calls reaching the underlying store
type countingStore struct {
	database.Store
	latestCalls atomic.Int64
	trendCalls  atomic.Int64
}

func (s *countingStore) LatestRecord(ctx context.Context, userID string) (*database.Record, error) {
	s.latestCalls.Add(1)
	return s.Store.LatestRecord(ctx, userID)
}

func (s *countingStore) TrendRecords(ctx context.Context, userID string, limit int) ([]database.TrendPoint, error) {
	s.trendCalls.Add(1)
	return s.Store.TrendRecords(ctx, userID, limit)
}

type counters struct {
	hits, misses atomic.Int64
}

func (c *counters) IncrementCacheHit()  { c.hits.Add(1) }
func (c *counters) IncrementCacheMiss() { c.misses.Add(1) }

func setup(t *testing.T) (*Service, *countingStore, *counters, *database.User) {
	t.Helper()
	store, err := database.Open(context.Background(), t.TempDir(), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	user := database.NewUser("history@example.com", "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))

	counting := &countingStore{Store: store}
	metrics := &counters{}
	svc := NewService(counting, time.Minute, database.DefaultTrendLimit, metrics)
	t.Cleanup(svc.Close)
	return svc, counting, metrics, user
}

func addRecord(t *testing.T, store database.Store, userID string, at time.Time, overall float64) *database.Record {
	t.Helper()
	record := database.NewRecord(userID, scoring.Input{}, scoring.Result{
		Scores: scoring.Scores{EnvironmentalScore: 80, SocialScore: 50, GovernanceScore: 30, OverallESGScore: overall},
	})
	record.CreatedAt = at
	require.NoError(t, store.CreateRecord(context.Background(), record))
	return record
}

func TestLatest_NotFound(t *testing.T) {
	svc, _, _, user := setup(t)

	_, err := svc.Latest(context.Background(), user.ID)
	var appErr *errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	assert.Equal(t, "No ESG data found", appErr.Message())
}

func TestLatest_CachedUntilInvalidated(t *testing.T) {
	svc, store, metrics, user := setup(t)
	ctx := context.Background()
	day := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	first := addRecord(t, store, user.ID, day, 50)

	got, err := svc.Latest(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	got, err = svc.Latest(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, 50.0, got.OverallESGScore)
	assert.Equal(t, int64(1), store.latestCalls.Load())
	assert.Equal(t, int64(1), metrics.hits.Load())

	second := addRecord(t, store, user.ID, day.Add(time.Hour), 70)
	svc.Invalidate(user.ID)

	got, err = svc.Latest(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, int64(2), store.latestCalls.Load())
}

// gatedStore pauses reads after they have loaded from the store, until the
// test releases them. Reads pass straight through while closed is false.
type gatedStore struct {
	database.Store
	closed  atomic.Bool
	loaded  chan struct{}
	release chan struct{}
}

func (s *gatedStore) wait() {
	if !s.closed.Load() {
		return
	}
	s.loaded <- struct{}{}
	<-s.release
}

func newGatedStore(store database.Store) *gatedStore {
	return &gatedStore{Store: store, loaded: make(chan struct{}), release: make(chan struct{})}
}

func (s *gatedStore) LatestRecord(ctx context.Context, userID string) (*database.Record, error) {
	record, err := s.Store.LatestRecord(ctx, userID)
	s.wait()
	return record, err
}

func (s *gatedStore) TrendRecords(ctx context.Context, userID string, limit int) ([]database.TrendPoint, error) {
	points, err := s.Store.TrendRecords(ctx, userID, limit)
	s.wait()
	return points, err
}

func TestReadInFlightDuringInvalidate(t *testing.T) {
	store, err := database.Open(context.Background(), t.TempDir(), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	user := database.NewUser("race@example.com", "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))

	ctx := context.Background()
	day := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	addRecord(t, store, user.ID, day, 10)

	gated := newGatedStore(store)
	svc := NewService(gated, time.Minute, database.DefaultTrendLimit, nil)
	t.Cleanup(svc.Close)

	t.Run("latest", func(t *testing.T) {
		done := make(chan *database.Record)
		gated.closed.Store(true)
		go func() {
			record, _ := svc.Latest(ctx, user.ID)
			done <- record
		}()

		<-gated.loaded
		newest := addRecord(t, store, user.ID, day.Add(time.Hour), 99)
		svc.Invalidate(user.ID)
		gated.closed.Store(false)
		gated.release <- struct{}{}

		stale := <-done
		require.NotNil(t, stale)
		assert.Equal(t, 10.0, stale.OverallESGScore)

		got, err := svc.Latest(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, newest.ID, got.ID)
		assert.Equal(t, 99.0, got.OverallESGScore)
	})

	t.Run("trend", func(t *testing.T) {
		done := make(chan []database.TrendPoint)
		gated.closed.Store(true)
		go func() {
			points, _ := svc.Trend(ctx, user.ID, 10)
			done <- points
		}()

		<-gated.loaded
		addRecord(t, store, user.ID, day.Add(2*time.Hour), 55)
		svc.Invalidate(user.ID)
		gated.closed.Store(false)
		gated.release <- struct{}{}

		assert.Len(t, <-done, 2)

		points, err := svc.Trend(ctx, user.ID, 10)
		require.NoError(t, err)
		require.Len(t, points, 3)
		assert.Equal(t, 55.0, points[2].Overall)
	})
}

func TestTrend_LimitsAndCache(t *testing.T) {
	svc, store, _, user := setup(t)
	ctx := context.Background()

	empty, err := svc.Trend(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
	svc.Invalidate(user.ID)

	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		addRecord(t, store, user.ID, start.AddDate(0, 0, i), float64(i))
	}

	points, err := svc.Trend(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, points, 10)
	assert.Equal(t, "2025-01-03", points[0].Date)
	assert.Equal(t, "2025-01-12", points[9].Date)

	three, err := svc.Trend(ctx, user.ID, 3)
	require.NoError(t, err)
	require.Len(t, three, 3)
	assert.Equal(t, 11.0, three[2].Overall)

	calls := store.trendCalls.Load()
	_, err = svc.Trend(ctx, user.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, calls, store.trendCalls.Load())

	huge, err := svc.Trend(ctx, user.ID, 5000)
	require.NoError(t, err)
	assert.Len(t, huge, 12)
}

func TestInvalidate_OnlyTouchesOneUser(t *testing.T) {
	svc, store, _, user := setup(t)
	ctx := context.Background()

	other := database.NewUser("other@example.com", "hash")
	require.NoError(t, store.CreateUser(ctx, other))
	addRecord(t, store, user.ID, time.Now().UTC(), 10)
	addRecord(t, store, other.ID, time.Now().UTC(), 20)

	_, err := svc.Trend(ctx, user.ID, 5)
	require.NoError(t, err)
	_, err = svc.Trend(ctx, other.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.CacheStats()["total_items"])

	svc.Invalidate(user.ID)
	assert.Equal(t, 1, svc.CacheStats()["total_items"])
}

func newRouter(svc *Service, userID string) *gin.Engine {
	r := gin.New()
	group := r.Group("/api/esg", func(c *gin.Context) {
		c.Set(auth.ContextUserID, userID)
		c.Next()
	})
	svc.RegisterRoutes(group)
	return r
}

func TestHandlers(t *testing.T) {
	svc, store, _, user := setup(t)
	r := newRouter(svc, user.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/esg/latest", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No ESG data found")

	record := addRecord(t, store, user.ID, time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC), 61.57)
	svc.Invalidate(user.ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/esg/latest", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, record.ID, body["id"])
	assert.Equal(t, user.ID, body["user"])
	assert.Equal(t, 61.57, body["overallESGScore"])
	assert.Contains(t, body, "fossilFuel")
	assert.Contains(t, body, "environmentalCalculations")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/esg/trend?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var points []database.TrendPoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &points))
	require.Len(t, points, 1)
	assert.Equal(t, "2025-02-02", points[0].Date)

	for _, bad := range []string{"abc", "0", "-3"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/esg/trend?limit="+bad, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", bad)
	}
}
