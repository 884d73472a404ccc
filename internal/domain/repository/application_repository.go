package repository

import (
	"context"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *entity.Application) error
	GetByID(ctx context.Context, id int64) (*entity.Application, error)
	ListByStatus(ctx context.Context, status entity.ApplicationStatus) ([]entity.Application, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Application, error)
	// TransitionStatus moves the application from one status to another in a
	// single conditional write. It returns ErrNotFound for an unknown id and
	// ErrStatusConflict when the current status is not from.
	TransitionStatus(ctx context.Context, id int64, from, to entity.ApplicationStatus) (*entity.Application, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
