package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"inkwell/api/internal/apperr"
	"inkwell/api/internal/ids"
	"inkwell/api/internal/models"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/security"
)

// RenditionEncoder produces the derived renditions for a source image,
// off the calling task. The media pool satisfies it.
type RenditionEncoder interface {
	Encode(ctx context.Context, data []byte) (map[string][]byte, error)
}

// ImageService keeps the metadata record and the stored renditions in
// step: they are created together and deleted together.
type ImageService struct {
	images     ImageStore
	renditions RenditionStore
	encoder    RenditionEncoder
	queue      VariantQueue
	log        zerolog.Logger
}

func NewImageService(images ImageStore, renditions RenditionStore, encoder RenditionEncoder, queue VariantQueue, log zerolog.Logger) *ImageService {
	return &ImageService{
		images:     images,
		renditions: renditions,
		encoder:    encoder,
		queue:      queue,
		log:        log,
	}
}

type UploadImageInput struct {
	Data        []byte
	Description *string
	Tags        []string
}

// Upload encodes the source, inserts the metadata row, then writes the
// renditions. If any rendition write fails the metadata row is deleted
// again so no record exists without its files.
func (s *ImageService) Upload(ctx context.Context, claims *security.Claims, input UploadImageInput) (models.Image, error) {
	if len(input.Data) == 0 {
		return models.Image{}, apperr.BadRequest("empty image payload")
	}

	renditions, err := s.encoder.Encode(ctx, input.Data)
	if err != nil {
		return models.Image{}, apperr.Wrap(apperr.KindBadRequest, "unsupported or corrupt image", err)
	}

	image := models.Image{
		ID:          ids.New(),
		Author:      claims.Subject,
		Description: input.Description,
		Tags:        input.Tags,
	}

	if err := s.images.Create(ctx, image); err != nil {
		return models.Image{}, apperr.Internal("save image metadata", err)
	}

	for size, data := range renditions {
		if err := s.renditions.PutRendition(ctx, size, image.ID, data); err != nil {
			s.rollback(ctx, image.ID)
			return models.Image{}, apperr.Internal("store image rendition", err)
		}
	}

	// The worker rebuilds the renditions at full encoder effort off the
	// request path; the synchronous set above is already serviceable, so
	// a failed enqueue is not fatal.
	if err := s.queue.EnqueueEncode(ctx, image.ID); err != nil {
		s.log.Warn().Err(err).Str("image_id", image.ID).Msg("enqueue encode failed")
	}

	s.log.Info().Str("image_id", image.ID).Str("author", claims.Subject).Msg("image uploaded")
	return image, nil
}

// rollback is the compensating action for a partial upload: remove the
// metadata row and whatever renditions were written.
func (s *ImageService) rollback(ctx context.Context, imageID string) {
	if err := s.renditions.DeleteRenditions(ctx, imageID); err != nil {
		s.log.Error().Err(err).Str("image_id", imageID).Msg("rollback renditions failed")
	}
	if err := s.images.Delete(ctx, imageID); err != nil {
		s.log.Error().Err(err).Str("image_id", imageID).Msg("rollback metadata failed")
	}
}

// Delete removes the renditions and the metadata row together. Missing
// renditions are tolerated so a previously failed delete can be rerun.
func (s *ImageService) Delete(ctx context.Context, claims *security.Claims, imageID string) error {
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return apperr.NotFound("no such image")
		}
		return apperr.Internal("look up image", err)
	}

	if image.Author != claims.Subject && !claims.Admin {
		return apperr.Unauthorized("only the uploader or a publisher may delete this image")
	}

	if err := s.renditions.DeleteRenditions(ctx, imageID); err != nil {
		return apperr.Internal("delete renditions", err)
	}
	if err := s.images.Delete(ctx, imageID); err != nil {
		return apperr.Internal("delete image metadata", err)
	}

	s.log.Info().Str("image_id", imageID).Str("by", claims.Subject).Msg("image deleted")
	return nil
}

func (s *ImageService) Get(ctx context.Context, imageID string) (models.Image, error) {
	if _, err := ids.Parse(imageID); err != nil {
		return models.Image{}, apperr.BadRequest("malformed image id")
	}
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return models.Image{}, apperr.NotFound("no such image")
		}
		return models.Image{}, apperr.Internal("look up image", err)
	}
	return image, nil
}

func (s *ImageService) ListByTag(ctx context.Context, tag string) ([]models.Image, error) {
	images, err := s.images.ListByTag(ctx, tag)
	if err != nil {
		return nil, apperr.Internal("list images", err)
	}
	return images, nil
}
