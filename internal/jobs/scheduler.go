package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler owns the producer side of the variant stream. It enqueues
// per-image encode tasks on demand and runs periodic maintenance on a
// cron: a nightly sweep reconciling stored renditions against the
// metadata table and an hourly backfill for images missing renditions.
type Scheduler struct {
	cron   *cron.Cron
	queue  *redis.Client
	stream string
	log    zerolog.Logger
}

func NewScheduler(queue *redis.Client, stream string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:   c,
		queue:  queue,
		stream: stream,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 3 * * *", s.enqueueSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 30 * * * *", s.enqueueBackfill); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits briefly for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

// EnqueueEncode queues a rendition rebuild for one image.
func (s *Scheduler) EnqueueEncode(ctx context.Context, imageID string) error {
	return s.enqueueTask(ctx, map[string]any{"type": "encode", "imageId": imageID})
}

func (s *Scheduler) enqueueSweep() {
	if err := s.enqueueTask(context.Background(), map[string]any{"type": "sweep"}); err != nil {
		s.log.Error().Err(err).Msg("enqueue sweep failed")
	}
}

func (s *Scheduler) enqueueBackfill() {
	if err := s.enqueueTask(context.Background(), map[string]any{"type": "backfill"}); err != nil {
		s.log.Error().Err(err).Msg("enqueue backfill failed")
	}
}

func (s *Scheduler) enqueueTask(ctx context.Context, payload map[string]any) error {
	if s.queue == nil {
		return nil
	}
	_, err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: payload,
	}).Result()
	return err
}
