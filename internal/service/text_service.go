package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"inkwell/api/internal/apperr"
	"inkwell/api/internal/blocks"
	"inkwell/api/internal/models"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/security"
)

// TextService is the lifecycle manager for texts: draft, done, published.
// Only a publisher may flip the publish flag; only the original author
// may flip the done flag.
type TextService struct {
	texts  TextStore
	images ImageStore
	log    zerolog.Logger
}

func NewTextService(texts TextStore, images ImageStore, log zerolog.Logger) *TextService {
	return &TextService{
		texts:  texts,
		images: images,
		log:    log,
	}
}

type SaveTextInput struct {
	TextID        *int64
	Title         string
	LeadParagraph string
	TextBody      []blocks.Block
	TextType      models.TextType
	Tags          []string
	Thumbnail     *string
	// Publish is honored only for publishers. Nil means keep the
	// current value (false on create).
	Publish *bool
	// MarkedAsDone is honored on create only; edits preserve the
	// stored flag.
	MarkedAsDone bool
}

// Create saves a new text. It always starts unpublished unless a
// publisher explicitly asked to publish on save.
func (s *TextService) Create(ctx context.Context, claims *security.Claims, input SaveTextInput) (models.Text, error) {
	if input.Title == "" {
		return models.Text{}, apperr.BadRequest("title is required")
	}

	publish := false
	if claims.Admin && input.Publish != nil {
		publish = *input.Publish
	}

	text := models.Text{
		Title:         input.Title,
		TitleSlug:     models.Slugify(input.Title),
		Author:        claims.Subject,
		Thumbnail:     input.Thumbnail,
		LeadParagraph: input.LeadParagraph,
		TextBody:      input.TextBody,
		TextType:      input.TextType,
		Tags:          input.Tags,
		IsPublished:   publish,
		MarkedAsDone:  input.MarkedAsDone,
	}

	saved, err := s.texts.Insert(ctx, text)
	if err != nil {
		return models.Text{}, apperr.Internal("save text", err)
	}

	s.log.Info().Int64("text_id", saved.ID).Str("author", claims.Subject).Msg("text created")
	return saved, nil
}

// Edit updates an existing text. Only the author or a publisher may edit;
// a published text may only be edited by a publisher, even by its author.
// A non-publisher's publish input is ignored and the current value kept;
// a publisher's unspecified publish input also keeps the current value.
// The done flag is never touched by an edit: it moves only through
// MarkDone and UnmarkDone, which enforce the author-only rule.
func (s *TextService) Edit(ctx context.Context, claims *security.Claims, input SaveTextInput) (models.Text, error) {
	if input.TextID == nil {
		return models.Text{}, apperr.BadRequest("text id is required")
	}
	if input.Title == "" {
		return models.Text{}, apperr.BadRequest("title is required")
	}

	current, err := s.texts.GetByID(ctx, *input.TextID)
	if err != nil {
		if errors.Is(err, repository.ErrTextNotFound) {
			return models.Text{}, apperr.NotFound("no such text")
		}
		return models.Text{}, apperr.Internal("look up text", err)
	}

	if current.Author != claims.Subject && !claims.Admin {
		return models.Text{}, apperr.Unauthorized("only the author or a publisher may edit this text")
	}
	if current.IsPublished && !claims.Admin {
		return models.Text{}, apperr.Unauthorized("cannot edit published text if not publisher")
	}

	publish := current.IsPublished
	if claims.Admin && input.Publish != nil {
		publish = *input.Publish
	}

	updated := current
	updated.Title = input.Title
	updated.TitleSlug = models.Slugify(input.Title)
	updated.Thumbnail = input.Thumbnail
	updated.LeadParagraph = input.LeadParagraph
	updated.TextBody = input.TextBody
	updated.TextType = input.TextType
	updated.Tags = input.Tags
	updated.IsPublished = publish
	updated.MarkedAsDone = current.MarkedAsDone

	saved, err := s.texts.Update(ctx, updated)
	if err != nil {
		return models.Text{}, apperr.Internal("update text", err)
	}

	s.log.Info().Int64("text_id", saved.ID).Str("by", claims.Subject).Msg("text edited")
	return saved, nil
}

// MarkDone is the author signalling the draft is ready for review.
func (s *TextService) MarkDone(ctx context.Context, claims *security.Claims, textID int64) error {
	text, err := s.get(ctx, textID)
	if err != nil {
		return err
	}
	if text.Author != claims.Subject {
		return apperr.Unauthorized("only the author may mark this text as done")
	}
	if text.MarkedAsDone {
		return apperr.BadRequest("text is already marked as done")
	}

	if err := s.texts.SetMarkedAsDone(ctx, textID, true); err != nil {
		return apperr.Internal("mark text as done", err)
	}
	return nil
}

// UnmarkDone takes a done text back to draft. Not allowed once published.
func (s *TextService) UnmarkDone(ctx context.Context, claims *security.Claims, textID int64) error {
	text, err := s.get(ctx, textID)
	if err != nil {
		return err
	}
	if text.Author != claims.Subject {
		return apperr.Unauthorized("only the author may unmark this text")
	}
	if !text.MarkedAsDone {
		return apperr.BadRequest("text is not marked as done")
	}
	if text.IsPublished {
		return apperr.BadRequest("cannot unmark a published text")
	}

	if err := s.texts.SetMarkedAsDone(ctx, textID, false); err != nil {
		return apperr.Internal("unmark text", err)
	}
	return nil
}

// SetPublishStatus flips the publish flag. Publisher only.
func (s *TextService) SetPublishStatus(ctx context.Context, claims *security.Claims, textID int64, publish bool) error {
	if !claims.Admin {
		return apperr.Unauthorized("this action requires publisher access")
	}
	if _, err := s.get(ctx, textID); err != nil {
		return err
	}

	if err := s.texts.SetPublished(ctx, textID, publish); err != nil {
		return apperr.Internal("set publish status", err)
	}

	s.log.Info().Int64("text_id", textID).Bool("publish", publish).Str("by", claims.Subject).Msg("publish status changed")
	return nil
}

func (s *TextService) Get(ctx context.Context, textID int64) (models.Text, error) {
	return s.get(ctx, textID)
}

func (s *TextService) ListPublished(ctx context.Context, limit int) ([]models.Text, error) {
	texts, err := s.texts.ListPublished(ctx, limit)
	if err != nil {
		return nil, apperr.Internal("list texts", err)
	}
	return texts, nil
}

func (s *TextService) ListByAuthor(ctx context.Context, author string) ([]models.Text, error) {
	texts, err := s.texts.ListByAuthor(ctx, author)
	if err != nil {
		return nil, apperr.Internal("list texts", err)
	}
	return texts, nil
}

// RenderBody renders the text's blocks to HTML in stored order.
func (s *TextService) RenderBody(ctx context.Context, text models.Text) string {
	return blocks.RenderAll(ctx, text.TextBody, imageResolver{images: s.images})
}

func (s *TextService) get(ctx context.Context, textID int64) (models.Text, error) {
	text, err := s.texts.GetByID(ctx, textID)
	if err != nil {
		if errors.Is(err, repository.ErrTextNotFound) {
			return models.Text{}, apperr.NotFound("no such text")
		}
		return models.Text{}, apperr.Internal("look up text", err)
	}
	return text, nil
}
