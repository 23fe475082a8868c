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

// PageService manages static pages. All mutation is publisher-only.
type PageService struct {
	pages  PageStore
	images ImageStore
	log    zerolog.Logger
}

func NewPageService(pages PageStore, images ImageStore, log zerolog.Logger) *PageService {
	return &PageService{
		pages:  pages,
		images: images,
		log:    log,
	}
}

type SavePageInput struct {
	// OldPath is set when editing; empty means create.
	OldPath  string
	Path     string
	Title    string
	TextBody []blocks.Block
}

func (s *PageService) Save(ctx context.Context, claims *security.Claims, input SavePageInput) (models.Page, error) {
	if !claims.Admin {
		return models.Page{}, apperr.Unauthorized("this action requires publisher access")
	}
	if input.Path == "" || input.Title == "" {
		return models.Page{}, apperr.BadRequest("path and title are required")
	}

	page := models.Page{
		Path:     input.Path,
		Title:    input.Title,
		TextBody: input.TextBody,
	}

	var (
		saved models.Page
		err   error
	)
	if input.OldPath == "" {
		saved, err = s.pages.Insert(ctx, page)
	} else {
		saved, err = s.pages.Update(ctx, input.OldPath, page)
	}
	if err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return models.Page{}, apperr.NotFound("no such page")
		}
		return models.Page{}, apperr.Internal("save page", err)
	}

	s.log.Info().Str("path", saved.Path).Str("by", claims.Subject).Msg("page saved")
	return saved, nil
}

func (s *PageService) Get(ctx context.Context, path string) (models.Page, error) {
	page, err := s.pages.GetByPath(ctx, path)
	if err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return models.Page{}, apperr.NotFound("no such page")
		}
		return models.Page{}, apperr.Internal("look up page", err)
	}
	return page, nil
}

func (s *PageService) List(ctx context.Context) ([]models.Page, error) {
	pages, err := s.pages.GetAll(ctx)
	if err != nil {
		return nil, apperr.Internal("list pages", err)
	}
	return pages, nil
}

func (s *PageService) Delete(ctx context.Context, claims *security.Claims, path string) error {
	if !claims.Admin {
		return apperr.Unauthorized("this action requires publisher access")
	}
	if err := s.pages.Delete(ctx, path); err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return apperr.NotFound("no such page")
		}
		return apperr.Internal("delete page", err)
	}
	return nil
}

// RenderBody renders the page's blocks to HTML in stored order.
func (s *PageService) RenderBody(ctx context.Context, page models.Page) string {
	return blocks.RenderAll(ctx, page.TextBody, imageResolver{images: s.images})
}
