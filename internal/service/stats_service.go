package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scholark/scholark-backend/internal/config"
)

// ClassEnrollment is one class's slice of the overview.
type ClassEnrollment struct {
	ClassID        int    `json:"class_id"`
	Name           string `json:"name"`
	Year           int    `json:"year"`
	IsActive       bool   `json:"is_active"`
	ActiveLearners int    `json:"active_learners"`
}

// EnrollmentOverview is the dashboard snapshot. Counts come from the
// transactionally-maintained class aggregates, not from scanning learners.
type EnrollmentOverview struct {
	TotalActive int               `json:"total_active"`
	ByClass     []ClassEnrollment `json:"by_class"`
	ByType      map[string]int    `json:"by_type"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// StatsService serves enrollment analytics with a short-lived Redis cache.
// Every mutating path invalidates the cache, so staleness is bounded by both
// the TTL and the write rate.
type StatsService struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(pool *pgxpool.Pool, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *StatsService {
	return &StatsService{
		pool: pool,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "stats_service").Logger(),
	}
}

// Overview returns the enrollment snapshot, from cache when fresh.
func (s *StatsService) Overview(ctx context.Context) (*EnrollmentOverview, error) {
	key := config.CacheKey.EnrollmentOverviewKey()

	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var overview EnrollmentOverview
		if err := json.Unmarshal([]byte(cached), &overview); err == nil {
			return &overview, nil
		}
		// Corrupt cache entry; fall through to rebuild.
		s.rdb.Del(ctx, key)
	}

	overview, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(overview); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache enrollment overview")
		}
	}
	return overview, nil
}

func (s *StatsService) build(ctx context.Context) (*EnrollmentOverview, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, year, class_type, is_active, student_count
		 FROM classes ORDER BY year DESC, class_type, level, section`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overview := &EnrollmentOverview{
		ByClass:     []ClassEnrollment{},
		ByType:      map[string]int{},
		GeneratedAt: time.Now().UTC(),
	}

	for rows.Next() {
		var ce ClassEnrollment
		var classType string
		if err := rows.Scan(&ce.ClassID, &ce.Name, &ce.Year, &classType, &ce.IsActive, &ce.ActiveLearners); err != nil {
			return nil, err
		}
		overview.ByClass = append(overview.ByClass, ce)
		overview.ByType[classType] += ce.ActiveLearners
		overview.TotalActive += ce.ActiveLearners
	}
	return overview, rows.Err()
}

// Invalidate drops the cached overview. Called by every mutating operation;
// a failed invalidation is logged, not surfaced — the TTL still bounds
// staleness.
func (s *StatsService) Invalidate(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.EnrollmentOverviewKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate enrollment overview cache")
	}
}
