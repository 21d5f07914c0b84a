package db

import (
	"context"
	"time"

	"github.com/challenge-hub/backend/internal/model"
)

func (db *Postgres) CreateSession(ctx context.Context, userID int64, tokenID string, expiresAt time.Time) error {
	query := `
		INSERT INTO sessions (user_id, token_id, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := db.Pool.Exec(ctx, query, userID, tokenID, expiresAt)
	return err
}

func (db *Postgres) GetSessionByTokenID(ctx context.Context, tokenID string) (*model.Session, error) {
	query := `
		SELECT id, user_id, token_id, expires_at, revoked_at, created_at
		FROM sessions
		WHERE token_id = $1
	`
	var session model.Session
	err := db.Pool.QueryRow(ctx, query, tokenID).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenID,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

// RevokeSession is idempotent: revoking an unknown or already revoked token is
// not an error.
func (db *Postgres) RevokeSession(ctx context.Context, tokenID string) error {
	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE token_id = $1 AND revoked_at IS NULL
	`
	_, err := db.Pool.Exec(ctx, query, tokenID)
	return err
}
