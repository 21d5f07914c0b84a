//go:build integration

package db

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/challenge-hub/backend/internal/config"
	"github.com/challenge-hub/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *Postgres {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, "docker", "info").Run(); err != nil {
		t.Skip("Skipping test: Docker not available")
	}

	ctx = context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "hub",
				"POSTGRES_PASSWORD": "hub",
				"POSTGRES_DB":       "hub",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := NewPostgresPool(ctx, config.PostgresConfig{
		Host:     host,
		Port:     port.Port(),
		User:     "hub",
		Password: "hub",
		Database: "hub",
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := &Postgres{Pool: pool}
	require.NoError(t, repo.Migrate(ctx, MigrateUp))
	return repo
}

func TestPostgresRepositories(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		user, err := repo.CreateUser(ctx, "Test User", "t@x.com", "hash")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)

		_, err = repo.CreateUser(ctx, "Other", "t@x.com", "hash")
		assert.True(t, IsUniqueViolation(err))

		taken, err := repo.EmailTaken(ctx, "t@x.com", user.ID)
		require.NoError(t, err)
		assert.False(t, taken)
		taken, err = repo.EmailTaken(ctx, "t@x.com", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		user.Name = "Renamed"
		updated, err := repo.UpdateUser(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "t@x.com", updated.Email)

		list, total, err := repo.ListUsers(ctx, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)

		require.NoError(t, repo.DeleteUser(ctx, user.ID))
		assert.ErrorIs(t, repo.DeleteUser(ctx, user.ID), ErrNotFound)
		_, err = repo.GetUserByID(ctx, user.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("sessions", func(t *testing.T) {
		user, err := repo.CreateUser(ctx, "Session User", "s@x.com", "hash")
		require.NoError(t, err)

		require.NoError(t, repo.CreateSession(ctx, user.ID, "jti-1", time.Now().Add(time.Hour)))
		session, err := repo.GetSessionByTokenID(ctx, "jti-1")
		require.NoError(t, err)
		assert.Nil(t, session.RevokedAt)

		require.NoError(t, repo.RevokeSession(ctx, "jti-1"))
		require.NoError(t, repo.RevokeSession(ctx, "jti-1"))
		session, err = repo.GetSessionByTokenID(ctx, "jti-1")
		require.NoError(t, err)
		assert.NotNil(t, session.RevokedAt)

		_, err = repo.GetSessionByTokenID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("challenges-and-videos", func(t *testing.T) {
		c, err := repo.CreateChallenge(ctx, "Title", "Description")
		require.NoError(t, err)
		got, err := repo.GetChallenge(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Description", got.Description)

		v, err := repo.CreateVideo(ctx, "Video", "http://example.com/v", "")
		require.NoError(t, err)
		v.Title = "New"
		updated, err := repo.UpdateVideo(ctx, v)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/v", updated.URL)

		_, err = repo.UpdateVideo(ctx, &model.Video{ID: 99999, Title: "x", URL: "http://x"})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.DeleteChallenge(ctx, 99999), ErrNotFound)
	})
}
