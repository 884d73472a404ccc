package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository"
	"github.com/oksasatya/internship-portal/pkg/helpers"
)

const (
	sessionPrefix = "session:"
	deniedPrefix  = "token:denied:"
)

// SessionStore keeps sessions as JSON values and denied token ids as plain
// keys, both expiring with the tokens they guard.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

type sessionRecord struct {
	ID        string    `json:"sid"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *SessionStore) Save(ctx context.Context, sess entity.Session, ttl time.Duration) error {
	rec := sessionRecord{ID: sess.ID, UserID: sess.UserID, Email: sess.Email, IsAdmin: sess.IsAdmin, CreatedAt: sess.CreatedAt}
	return helpers.RedisSetJSON(ctx, s.rdb, sessionPrefix+sess.ID, rec, ttl)
}

func (s *SessionStore) Get(ctx context.Context, sid string) (*entity.Session, error) {
	var rec sessionRecord
	ok, err := helpers.RedisGetJSON(ctx, s.rdb, sessionPrefix+sid, &rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity.Session{ID: rec.ID, UserID: rec.UserID, Email: rec.Email, IsAdmin: rec.IsAdmin, CreatedAt: rec.CreatedAt}, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	return helpers.RedisDel(ctx, s.rdb, sessionPrefix+sid)
}

// Deny records jti until ttl passes. A non-positive ttl means the token has
// already expired and needs no entry.
func (s *SessionStore) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, deniedPrefix+jti, 1, ttl).Err()
}

func (s *SessionStore) IsDenied(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, deniedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ repository.SessionStore = (*SessionStore)(nil)
