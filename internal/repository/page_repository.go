package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/api/internal/blocks"
	"inkwell/api/internal/models"
)

var ErrPageNotFound = errors.New("page not found")

type PageRepository struct {
	pool *pgxpool.Pool
}

func NewPageRepository(pool *pgxpool.Pool) *PageRepository {
	return &PageRepository{pool: pool}
}

func scanPage(row pgx.Row) (models.Page, error) {
	var (
		page models.Page
		body []byte
	)
	if err := row.Scan(&page.Path, &page.Title, &body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Page{}, ErrPageNotFound
		}
		return models.Page{}, err
	}

	decoded, err := blocks.Decode(body)
	if err != nil {
		return models.Page{}, err
	}
	page.TextBody = decoded
	return page, nil
}

func (r *PageRepository) Insert(ctx context.Context, page models.Page) (models.Page, error) {
	body, err := blocks.Encode(page.TextBody)
	if err != nil {
		return models.Page{}, err
	}

	const query = `
		INSERT INTO pages (path, title, text_body)
		VALUES ($1, $2, $3)
		RETURNING path, title, text_body
	`
	return scanPage(r.pool.QueryRow(ctx, query, page.Path, page.Title, body))
}

func (r *PageRepository) Update(ctx context.Context, oldPath string, page models.Page) (models.Page, error) {
	body, err := blocks.Encode(page.TextBody)
	if err != nil {
		return models.Page{}, err
	}

	const query = `
		UPDATE pages SET path = $2, title = $3, text_body = $4
		WHERE path = $1
		RETURNING path, title, text_body
	`
	return scanPage(r.pool.QueryRow(ctx, query, oldPath, page.Path, page.Title, body))
}

func (r *PageRepository) GetByPath(ctx context.Context, path string) (models.Page, error) {
	const query = `
		SELECT path, title, text_body FROM pages WHERE path = $1
	`
	return scanPage(r.pool.QueryRow(ctx, query, path))
}

func (r *PageRepository) GetAll(ctx context.Context) ([]models.Page, error) {
	rows, err := r.pool.Query(ctx, `SELECT path, title, text_body FROM pages ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

func (r *PageRepository) Delete(ctx context.Context, path string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM pages WHERE path = $1`, path)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPageNotFound
	}
	return nil
}
