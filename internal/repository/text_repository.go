package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/api/internal/blocks"
	"inkwell/api/internal/models"
)

var ErrTextNotFound = errors.New("text not found")

type TextRepository struct {
	pool *pgxpool.Pool
}

func NewTextRepository(pool *pgxpool.Pool) *TextRepository {
	return &TextRepository{pool: pool}
}

const textColumns = `
	id, title, title_slug, author, thumbnail, lead_paragraph, text_body,
	text_type, tags, is_published, marked_as_done, created_at, updated_at
`

func scanText(row pgx.Row) (models.Text, error) {
	var (
		text models.Text
		body []byte
	)
	if err := row.Scan(
		&text.ID,
		&text.Title,
		&text.TitleSlug,
		&text.Author,
		&text.Thumbnail,
		&text.LeadParagraph,
		&body,
		&text.TextType,
		&text.Tags,
		&text.IsPublished,
		&text.MarkedAsDone,
		&text.CreatedAt,
		&text.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Text{}, ErrTextNotFound
		}
		return models.Text{}, err
	}

	decoded, err := blocks.Decode(body)
	if err != nil {
		return models.Text{}, err
	}
	text.TextBody = decoded
	return text, nil
}

func (r *TextRepository) Insert(ctx context.Context, text models.Text) (models.Text, error) {
	body, err := blocks.Encode(text.TextBody)
	if err != nil {
		return models.Text{}, err
	}

	const query = `
		INSERT INTO texts (
			title, title_slug, author, thumbnail, lead_paragraph, text_body,
			text_type, tags, is_published, marked_as_done, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
		RETURNING ` + textColumns

	row := r.pool.QueryRow(ctx, query,
		text.Title,
		text.TitleSlug,
		text.Author,
		text.Thumbnail,
		text.LeadParagraph,
		body,
		text.TextType,
		text.Tags,
		text.IsPublished,
		text.MarkedAsDone,
	)
	return scanText(row)
}

func (r *TextRepository) Update(ctx context.Context, text models.Text) (models.Text, error) {
	body, err := blocks.Encode(text.TextBody)
	if err != nil {
		return models.Text{}, err
	}

	const query = `
		UPDATE texts SET
			title = $2, title_slug = $3, thumbnail = $4, lead_paragraph = $5,
			text_body = $6, text_type = $7, tags = $8, is_published = $9,
			marked_as_done = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + textColumns

	row := r.pool.QueryRow(ctx, query,
		text.ID,
		text.Title,
		text.TitleSlug,
		text.Thumbnail,
		text.LeadParagraph,
		body,
		text.TextType,
		text.Tags,
		text.IsPublished,
		text.MarkedAsDone,
	)
	return scanText(row)
}

func (r *TextRepository) GetByID(ctx context.Context, id int64) (models.Text, error) {
	const query = `
		SELECT ` + textColumns + ` FROM texts WHERE id = $1
	`
	return scanText(r.pool.QueryRow(ctx, query, id))
}

func (r *TextRepository) ListPublished(ctx context.Context, limit int) ([]models.Text, error) {
	const query = `
		SELECT ` + textColumns + `
		FROM texts WHERE is_published ORDER BY created_at DESC LIMIT $1
	`
	return r.list(ctx, query, limit)
}

func (r *TextRepository) ListByAuthor(ctx context.Context, author string) ([]models.Text, error) {
	const query = `
		SELECT ` + textColumns + `
		FROM texts WHERE author = $1 ORDER BY created_at DESC
	`
	return r.list(ctx, query, author)
}

func (r *TextRepository) list(ctx context.Context, query string, args ...any) ([]models.Text, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var texts []models.Text
	for rows.Next() {
		text, err := scanText(rows)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

func (r *TextRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	const query = `
		UPDATE texts SET is_published = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, published)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTextNotFound
	}
	return nil
}

func (r *TextRepository) SetMarkedAsDone(ctx context.Context, id int64, done bool) error {
	const query = `
		UPDATE texts SET marked_as_done = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, done)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTextNotFound
	}
	return nil
}
