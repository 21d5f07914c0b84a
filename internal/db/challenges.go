package db

import (
	"context"

	"github.com/challenge-hub/backend/internal/model"
)

const challengeColumns = `id, title, description, created_at, updated_at`

func scanChallenge(row scanner) (*model.Challenge, error) {
	var c model.Challenge
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (db *Postgres) CreateChallenge(ctx context.Context, title, description string) (*model.Challenge, error) {
	query := `
		INSERT INTO challenges (title, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING ` + challengeColumns
	return scanChallenge(db.Pool.QueryRow(ctx, query, title, description))
}

func (db *Postgres) GetChallenge(ctx context.Context, id int64) (*model.Challenge, error) {
	return scanChallenge(db.Pool.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id))
}

func (db *Postgres) ListChallenges(ctx context.Context, limit, offset int) ([]model.Challenge, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM challenges`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT `+challengeColumns+` FROM challenges ORDER BY id ASC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	return list, total, rows.Err()
}

func (db *Postgres) UpdateChallenge(ctx context.Context, c *model.Challenge) (*model.Challenge, error) {
	query := `
		UPDATE challenges
		SET title = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + challengeColumns
	return scanChallenge(db.Pool.QueryRow(ctx, query, c.Title, c.Description, c.ID))
}

func (db *Postgres) DeleteChallenge(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
