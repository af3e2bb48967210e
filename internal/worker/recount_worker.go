package worker

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/scholark/scholark-backend/internal/service"
)

// RecountWorker periodically audits the denormalized student_count column
// against the actual number of active learners in each class. Every mutation
// path adjusts the counter inside its own transaction, so a drift here means
// a bug — the worker repairs the counter and logs loudly so the bug gets
// investigated rather than papered over.
type RecountWorker struct {
	pool     *pgxpool.Pool
	stats    *service.StatsService
	interval time.Duration
	log      zerolog.Logger
}

func NewRecountWorker(pool *pgxpool.Pool, stats *service.StatsService, interval time.Duration, log zerolog.Logger) *RecountWorker {
	return &RecountWorker{
		pool:     pool,
		stats:    stats,
		interval: interval,
		log:      log.With().Str("component", "recount_worker").Logger(),
	}
}

func (w *RecountWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("RecountWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("RecountWorker stopped")
			return
		case <-ticker.C:
			w.auditOnce(ctx)
		}
	}
}

func (w *RecountWorker) auditOnce(ctx context.Context) {
	rows, err := w.pool.Query(ctx, `
		SELECT c.id, c.student_count, COUNT(l.id) FILTER (WHERE l.status = 'active')
		FROM classes c
		LEFT JOIN learners l ON l.class_id = c.id
		GROUP BY c.id, c.student_count
		HAVING c.student_count <> COUNT(l.id) FILTER (WHERE l.status = 'active')`)
	if err != nil {
		w.log.Error().Err(err).Msg("Recount query failed")
		return
	}
	defer rows.Close()

	type drift struct {
		classID int
		stored  int
		actual  int
	}
	var drifted []drift
	for rows.Next() {
		var d drift
		if err := rows.Scan(&d.classID, &d.stored, &d.actual); err != nil {
			w.log.Error().Err(err).Msg("Recount scan failed")
			return
		}
		drifted = append(drifted, d)
	}
	if err := rows.Err(); err != nil {
		w.log.Error().Err(err).Msg("Recount iteration failed")
		return
	}
	if len(drifted) == 0 {
		return
	}

	for _, d := range drifted {
		w.log.Error().
			Int("class_id", d.classID).
			Int("stored", d.stored).
			Int("actual", d.actual).
			Msg("Class counter drift detected — repairing")

		if _, err := w.pool.Exec(ctx,
			`UPDATE classes SET student_count = $1, updated_at = NOW() WHERE id = $2`,
			d.actual, d.classID,
		); err != nil {
			w.log.Error().Err(err).Int("class_id", d.classID).Msg("Counter repair failed")
		}
	}

	w.stats.Invalidate(ctx)
}
