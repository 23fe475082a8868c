package service

import (
	"context"

	"github.com/google/uuid"

	"inkwell/api/internal/blocks"
	"inkwell/api/internal/models"
)

// The services consume the persistence layer through these interfaces;
// the pgx repositories satisfy them, and tests substitute in-memory
// fakes. Each call is one atomic, strongly consistent store operation.

type CreatorStore interface {
	Create(ctx context.Context, creator models.Creator) error
	GetByUsername(ctx context.Context, username string) (models.Creator, error)
	GetAll(ctx context.Context) ([]models.Creator, error)
	UpdateProfile(ctx context.Context, username, displayName, biography string) error
	UpdatePassword(ctx context.Context, username, password string) error
	UpdateRole(ctx context.Context, username string, role models.CreatorRole) error
}

type TextStore interface {
	Insert(ctx context.Context, text models.Text) (models.Text, error)
	Update(ctx context.Context, text models.Text) (models.Text, error)
	GetByID(ctx context.Context, id int64) (models.Text, error)
	ListPublished(ctx context.Context, limit int) ([]models.Text, error)
	ListByAuthor(ctx context.Context, author string) ([]models.Text, error)
	SetPublished(ctx context.Context, id int64, published bool) error
	SetMarkedAsDone(ctx context.Context, id int64, done bool) error
}

type ImageStore interface {
	Create(ctx context.Context, image models.Image) error
	GetByID(ctx context.Context, id string) (models.Image, error)
	ListByTag(ctx context.Context, tag string) ([]models.Image, error)
	Delete(ctx context.Context, id string) error
}

type PageStore interface {
	Insert(ctx context.Context, page models.Page) (models.Page, error)
	Update(ctx context.Context, oldPath string, page models.Page) (models.Page, error)
	GetByPath(ctx context.Context, path string) (models.Page, error)
	GetAll(ctx context.Context) ([]models.Page, error)
	Delete(ctx context.Context, path string) error
}

// RenditionStore holds the derived image files keyed by id and size class.
type RenditionStore interface {
	PutRendition(ctx context.Context, size, imageID string, data []byte) error
	DeleteRenditions(ctx context.Context, imageID string) error
}

// VariantQueue hands rendition maintenance to the worker over the task
// stream.
type VariantQueue interface {
	EnqueueEncode(ctx context.Context, imageID string) error
}

// imageResolver adapts an ImageStore to the block renderer.
type imageResolver struct {
	images ImageStore
}

func (r imageResolver) ResolveImage(ctx context.Context, id uuid.UUID) (blocks.ImageMeta, error) {
	image, err := r.images.GetByID(ctx, id.String())
	if err != nil {
		return blocks.ImageMeta{}, err
	}

	parsed, err := uuid.Parse(image.ID)
	if err != nil {
		return blocks.ImageMeta{}, err
	}

	description := ""
	if image.Description != nil {
		description = *image.Description
	}
	return blocks.ImageMeta{
		ID:          parsed,
		Author:      image.Author,
		Description: description,
	}, nil
}
