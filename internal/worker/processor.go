package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"inkwell/api/internal/media"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/storage"
)

type TaskPayload struct {
	Type    string `json:"type"`
	ImageID string `json:"imageId"`
}

// Processor executes variant maintenance tasks: re-encoding renditions
// for one image, backfilling missing renditions, and sweeping renditions
// whose metadata row is gone.
type Processor struct {
	images  *repository.ImageRepository
	store   *storage.ObjectStore
	encoder media.Encoder
	logger  zerolog.Logger
}

func NewProcessor(images *repository.ImageRepository, store *storage.ObjectStore, encoder media.Encoder, logger zerolog.Logger) *Processor {
	return &Processor{
		images:  images,
		store:   store,
		encoder: encoder,
		logger:  logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "encode":
		return p.handleEncode(ctx, payload.ImageID)
	case "backfill":
		return p.handleBackfill(ctx)
	case "sweep":
		return p.handleSweep(ctx)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// handleEncode rebuilds every rendition of one image from its largest
// stored rendition.
func (p *Processor) handleEncode(ctx context.Context, imageID string) error {
	source, err := p.store.GetRendition(ctx, "l", imageID)
	if err != nil {
		return fmt.Errorf("fetch source for %s: %w", imageID, err)
	}

	renditions, err := p.encoder.EncodeRenditions(source)
	if err != nil {
		return fmt.Errorf("encode %s: %w", imageID, err)
	}

	for size, data := range renditions {
		if err := p.store.PutRendition(ctx, size, imageID, data); err != nil {
			return fmt.Errorf("store %s/%s: %w", size, imageID, err)
		}
	}

	p.logger.Info().Str("image_id", imageID).Msg("renditions rebuilt")
	return nil
}

// handleBackfill re-enqueues nothing; it rebuilds renditions for any
// metadata row whose medium rendition is missing from the store.
func (p *Processor) handleBackfill(ctx context.Context) error {
	known, err := p.images.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list image ids: %w", err)
	}

	stored, err := p.store.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list stored ids: %w", err)
	}
	storedSet := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		storedSet[id] = struct{}{}
	}

	for _, id := range known {
		if _, ok := storedSet[id]; ok {
			continue
		}
		if err := p.handleEncode(ctx, id); err != nil {
			p.logger.Error().Err(err).Str("image_id", id).Msg("backfill failed")
		}
	}
	return nil
}

// handleSweep deletes renditions that no longer have a metadata row, the
// other half of the record-and-files-together contract.
func (p *Processor) handleSweep(ctx context.Context) error {
	known, err := p.images.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list image ids: %w", err)
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, id := range known {
		knownSet[id] = struct{}{}
	}

	stored, err := p.store.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list stored ids: %w", err)
	}

	for _, id := range stored {
		if _, ok := knownSet[id]; ok {
			continue
		}
		if err := p.store.DeleteRenditions(ctx, id); err != nil {
			p.logger.Error().Err(err).Str("image_id", id).Msg("sweep delete failed")
			continue
		}
		p.logger.Info().Str("image_id", id).Msg("orphaned renditions removed")
	}
	return nil
}
