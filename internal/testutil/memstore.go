// Package testutil provides an in-memory store that satisfies the service
// repository interfaces.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/challenge-hub/backend/internal/db"
	"github.com/challenge-hub/backend/internal/model"
)

// MemStore mirrors the Postgres repositories: ids are assigned in insertion
// order, lookups of missing rows return db.ErrNotFound and duplicate emails
// fail with a unique violation.
type MemStore struct {
	mu         sync.Mutex
	ids        map[string]int64
	users      []model.User
	sessions   []model.Session
	challenges []model.Challenge
	videos     []model.Video
	// Err, when set, is returned by every call.
	Err error
}

func NewMemStore() *MemStore {
	return &MemStore{ids: make(map[string]int64)}
}

// id returns the next id of table, starting at 1 like BIGSERIAL.
func (m *MemStore) id(table string) int64 {
	m.ids[table]++
	return m.ids[table]
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}

func (m *MemStore) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.Email == email {
			return nil, uniqueViolation()
		}
	}
	now := time.Now().UTC()
	u := model.User{ID: m.id("users"), Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	m.users = append(m.users, u)
	return &u, nil
}

func (m *MemStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) ListUsers(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	return window(m.users, limit, offset), int64(len(m.users)), nil
}

func (m *MemStore) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.Email == user.Email && u.ID != user.ID {
			return nil, uniqueViolation()
		}
	}
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i].Name = user.Name
			m.users[i].Email = user.Email
			m.users[i].PasswordHash = user.PasswordHash
			m.users[i].UpdatedAt = time.Now().UTC()
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

// DeleteUser also drops the user's sessions, like ON DELETE CASCADE.
func (m *MemStore) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			kept := m.sessions[:0]
			for _, s := range m.sessions {
				if s.UserID != id {
					kept = append(kept, s)
				}
			}
			m.sessions = kept
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *MemStore) CreateSession(ctx context.Context, userID int64, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, s := range m.sessions {
		if s.TokenID == tokenID {
			return uniqueViolation()
		}
	}
	m.sessions = append(m.sessions, model.Session{
		ID:        m.id("sessions"),
		UserID:    userID,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (m *MemStore) GetSessionByTokenID(ctx context.Context, tokenID string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, s := range m.sessions {
		if s.TokenID == tokenID {
			return &s, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) RevokeSession(ctx context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.sessions {
		if m.sessions[i].TokenID == tokenID && m.sessions[i].RevokedAt == nil {
			now := time.Now().UTC()
			m.sessions[i].RevokedAt = &now
		}
	}
	return nil
}

func (m *MemStore) CreateChallenge(ctx context.Context, title, description string) (*model.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	now := time.Now().UTC()
	c := model.Challenge{ID: m.id("challenges"), Title: title, Description: description, CreatedAt: now, UpdatedAt: now}
	m.challenges = append(m.challenges, c)
	return &c, nil
}

func (m *MemStore) GetChallenge(ctx context.Context, id int64) (*model.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.challenges {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) ListChallenges(ctx context.Context, limit, offset int) ([]model.Challenge, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	return window(m.challenges, limit, offset), int64(len(m.challenges)), nil
}

func (m *MemStore) UpdateChallenge(ctx context.Context, c *model.Challenge) (*model.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.challenges {
		if m.challenges[i].ID == c.ID {
			m.challenges[i].Title = c.Title
			m.challenges[i].Description = c.Description
			m.challenges[i].UpdatedAt = time.Now().UTC()
			out := m.challenges[i]
			return &out, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) DeleteChallenge(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.challenges {
		if m.challenges[i].ID == id {
			m.challenges = append(m.challenges[:i], m.challenges[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *MemStore) CreateVideo(ctx context.Context, title, url, description string) (*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	now := time.Now().UTC()
	v := model.Video{ID: m.id("videos"), Title: title, URL: url, Description: description, CreatedAt: now, UpdatedAt: now}
	m.videos = append(m.videos, v)
	return &v, nil
}

func (m *MemStore) GetVideo(ctx context.Context, id int64) (*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, v := range m.videos {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) ListVideos(ctx context.Context, limit, offset int) ([]model.Video, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	return window(m.videos, limit, offset), int64(len(m.videos)), nil
}

func (m *MemStore) UpdateVideo(ctx context.Context, v *model.Video) (*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.videos {
		if m.videos[i].ID == v.ID {
			m.videos[i].Title = v.Title
			m.videos[i].URL = v.URL
			m.videos[i].Description = v.Description
			m.videos[i].UpdatedAt = time.Now().UTC()
			out := m.videos[i]
			return &out, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) DeleteVideo(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.videos {
		if m.videos[i].ID == id {
			m.videos = append(m.videos[:i], m.videos[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

// Counts reports the number of stored users, challenges and videos.
func (m *MemStore) Counts() (users, challenges, videos int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), len(m.challenges), len(m.videos)
}

// GeneratorFunc adapts a function to client.Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
