package repository

import (
	"context"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	Create(ctx context.Context, c *entity.Category) error
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id int64) error
}

type CompanyRepository interface {
	List(ctx context.Context) ([]entity.Company, error)
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
	Create(ctx context.Context, c *entity.Company) error
	Update(ctx context.Context, c *entity.Company) error
	Delete(ctx context.Context, id int64) error
}

// InternshipRepository returns internships with Company and Category filled in.
type InternshipRepository interface {
	List(ctx context.Context, f entity.InternshipFilter) ([]entity.Internship, error)
	ListByIDs(ctx context.Context, ids []int64) ([]entity.Internship, error)
	GetByID(ctx context.Context, id int64) (*entity.Internship, error)
	Create(ctx context.Context, in *entity.Internship) error
	Update(ctx context.Context, in *entity.Internship) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
