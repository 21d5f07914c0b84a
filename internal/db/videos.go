package db

import (
	"context"

	"github.com/challenge-hub/backend/internal/model"
)

const videoColumns = `id, title, url, description, created_at, updated_at`

func scanVideo(row scanner) (*model.Video, error) {
	var v model.Video
	if err := row.Scan(&v.ID, &v.Title, &v.URL, &v.Description, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (db *Postgres) CreateVideo(ctx context.Context, title, url, description string) (*model.Video, error) {
	query := `
		INSERT INTO videos (title, url, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + videoColumns
	return scanVideo(db.Pool.QueryRow(ctx, query, title, url, description))
}

func (db *Postgres) GetVideo(ctx context.Context, id int64) (*model.Video, error) {
	return scanVideo(db.Pool.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
}

func (db *Postgres) ListVideos(ctx context.Context, limit, offset int) ([]model.Video, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY id ASC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *v)
	}
	return list, total, rows.Err()
}

func (db *Postgres) UpdateVideo(ctx context.Context, v *model.Video) (*model.Video, error) {
	query := `
		UPDATE videos
		SET title = $1, url = $2, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + videoColumns
	return scanVideo(db.Pool.QueryRow(ctx, query, v.Title, v.URL, v.Description, v.ID))
}

func (db *Postgres) DeleteVideo(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
