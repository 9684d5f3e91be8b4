package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/acadrec/acadrec-backend/internal/config"
	"github.com/acadrec/acadrec-backend/internal/service"
)

const (
	RecomputeBatchSize    = 50
	RecomputeBatchTimeout = 2 * time.Second
	RecomputePollTimeout  = 1 * time.Second
)

// RecomputeWorker drains the recompute queue that grade sheet imports
// feed and refreshes SPI/CPI for the affected students. Only derived
// records are touched; a failed refresh is picked up again by the next
// import or an explicit compute call.
type RecomputeWorker struct {
	perfService *service.PerformanceService
	rdb         *redis.Client
	log         zerolog.Logger
}

func NewRecomputeWorker(perfService *service.PerformanceService, rdb *redis.Client, log zerolog.Logger) *RecomputeWorker {
	return &RecomputeWorker{
		perfService: perfService,
		rdb:         rdb,
		log:         log.With().Str("component", "recompute_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *RecomputeWorker) Start(ctx context.Context) {
	w.log.Info().Msg("RecomputeWorker started")

	batch := make([]service.RecomputePayload, 0, RecomputeBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= RecomputeBatchSize || time.Since(lastFlush) >= RecomputeBatchTimeout) {

			w.flush(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, RecomputePollTimeout, config.WorkerKey.RecomputeQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p service.RecomputePayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, p)
		}
	}
}

// flush recomputes each distinct (student, semester) key once, even
// when a sheet import queued it several times.
func (w *RecomputeWorker) flush(ctx context.Context, batch []service.RecomputePayload) {
	if len(batch) == 0 {
		return
	}

	seen := make(map[service.RecomputePayload]bool, len(batch))
	for _, p := range batch {
		if seen[p] {
			continue
		}
		seen[p] = true

		if _, err := w.perfService.ComputeSPI(ctx, p.RollNo, p.SemNo, p.Year); err != nil {
			w.log.Error().Err(err).Int("roll_no", p.RollNo).Int("sem_no", p.SemNo).Msg("SPI recompute failed")
			continue
		}
		if _, err := w.perfService.ComputeCPI(ctx, p.RollNo, p.SemNo, p.Year); err != nil {
			w.log.Error().Err(err).Int("roll_no", p.RollNo).Int("sem_no", p.SemNo).Msg("CPI recompute failed")
		}
	}

	w.log.Debug().Int("keys", len(seen)).Msg("Recompute batch flushed")
}
