package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/api/internal/models"
)

var (
	ErrCreatorNotFound = errors.New("creator not found")
	ErrCreatorExists   = errors.New("creator already exists")
)

type CreatorRepository struct {
	pool *pgxpool.Pool
}

func NewCreatorRepository(pool *pgxpool.Pool) *CreatorRepository {
	return &CreatorRepository{pool: pool}
}

func (r *CreatorRepository) Create(ctx context.Context, creator models.Creator) error {
	const query = `
		INSERT INTO creators (
			username, display_name, password, biography, joined_at, role
		) VALUES (
			$1, $2, $3, $4, NOW(), $5
		)
	`

	_, err := r.pool.Exec(ctx, query,
		creator.Username,
		creator.DisplayName,
		creator.Password,
		creator.Biography,
		creator.Role,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrCreatorExists
		}
		return err
	}
	return nil
}

func (r *CreatorRepository) GetByUsername(ctx context.Context, username string) (models.Creator, error) {
	const query = `
		SELECT username, display_name, password, biography, joined_at, role
		FROM creators WHERE username = $1
	`

	row := r.pool.QueryRow(ctx, query, username)
	var creator models.Creator
	if err := row.Scan(
		&creator.Username,
		&creator.DisplayName,
		&creator.Password,
		&creator.Biography,
		&creator.JoinedAt,
		&creator.Role,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Creator{}, ErrCreatorNotFound
		}
		return models.Creator{}, err
	}
	return creator, nil
}

func (r *CreatorRepository) GetAll(ctx context.Context) ([]models.Creator, error) {
	const query = `
		SELECT username, display_name, password, biography, joined_at, role
		FROM creators ORDER BY joined_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creators []models.Creator
	for rows.Next() {
		var creator models.Creator
		if err := rows.Scan(
			&creator.Username,
			&creator.DisplayName,
			&creator.Password,
			&creator.Biography,
			&creator.JoinedAt,
			&creator.Role,
		); err != nil {
			return nil, err
		}
		creators = append(creators, creator)
	}
	return creators, rows.Err()
}

func (r *CreatorRepository) UpdateProfile(ctx context.Context, username, displayName, biography string) error {
	const query = `
		UPDATE creators SET display_name = $2, biography = $3 WHERE username = $1
	`
	cmd, err := r.pool.Exec(ctx, query, username, displayName, biography)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCreatorNotFound
	}
	return nil
}

// UpdatePassword stores a new password hash, or the lock sentinel.
func (r *CreatorRepository) UpdatePassword(ctx context.Context, username, password string) error {
	const query = `
		UPDATE creators SET password = $2 WHERE username = $1
	`
	cmd, err := r.pool.Exec(ctx, query, username, password)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCreatorNotFound
	}
	return nil
}

func (r *CreatorRepository) UpdateRole(ctx context.Context, username string, role models.CreatorRole) error {
	const query = `
		UPDATE creators SET role = $2 WHERE username = $1
	`
	cmd, err := r.pool.Exec(ctx, query, username, role)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCreatorNotFound
	}
	return nil
}
