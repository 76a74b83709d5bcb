package reconcile

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/sceneforge/scene-backend/internal/storage"
)

// Sweeper periodically retries pending cleanup items against the storage
// provider. Sweep failures only affect the work-item log, never the API.
type Sweeper struct {
	items     *Log
	assets    storage.Provider
	limiter   *rate.Limiter
	batchSize int
	cron      *cron.Cron
}

func NewSweeper(items *Log, assets storage.Provider, batchSize int) *Sweeper {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Sweeper{
		items:     items,
		assets:    assets,
		limiter:   rate.NewLimiter(rate.Limit(5), 5),
		batchSize: batchSize,
	}
}

// Start schedules sweeps with the given cron expression (with a seconds
// field, e.g. "0 */10 * * * *").
func (s *Sweeper) Start(schedule string) error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		s.sweep(ctx)
	})
	if err != nil {
		return err
	}

	log.Printf("Reconcile sweeper started (schedule %q)", schedule)
	c.Start()
	s.cron = c
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	pending, err := s.items.Pending(ctx, s.batchSize)
	if err != nil {
		log.Printf("[error] operation=reconcile_sweep error=%v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	resolved := 0
	for _, it := range pending {
		if err := s.limiter.Wait(ctx); err != nil {
			break
		}

		err := s.assets.Delete(ctx, it.Key)
		// A missing object means someone else cleaned it up; the item
		// is done either way.
		if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			log.Printf("[warn] operation=reconcile_sweep key=%s error=%v", it.Key, err)
			continue
		}

		if err := s.items.MarkResolved(ctx, it.ID); err != nil {
			log.Printf("[error] operation=reconcile_sweep key=%s error=%v", it.Key, err)
			continue
		}
		resolved++
	}

	log.Printf("[info] operation=reconcile_sweep pending=%d resolved=%d", len(pending), resolved)
}
