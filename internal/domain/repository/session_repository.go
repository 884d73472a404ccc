package repository

import (
	"context"
	"time"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
)

// SessionStore keeps login sessions and the refresh-token denylist.
type SessionStore interface {
	Save(ctx context.Context, s entity.Session, ttl time.Duration) error
	Get(ctx context.Context, sid string) (*entity.Session, error)
	Delete(ctx context.Context, sid string) error
	Deny(ctx context.Context, jti string, ttl time.Duration) error
	IsDenied(ctx context.Context, jti string) (bool, error)
}
