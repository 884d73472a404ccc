package repository

import (
	"context"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
)

type ContactRepository interface {
	Create(ctx context.Context, m *entity.ContactMessage) error
	List(ctx context.Context) ([]entity.ContactMessage, error)
	GetByID(ctx context.Context, id int64) (*entity.ContactMessage, error)
	Update(ctx context.Context, m *entity.ContactMessage) error
	Delete(ctx context.Context, id int64) error
}
