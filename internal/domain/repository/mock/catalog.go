package mock

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository"
)

type CategoryRepo struct {
	db *db
}

func (r *CategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]entity.Category, 0, len(r.db.categories))
	for _, c := range r.db.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = r.db.next()
	r.db.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.categories, id)
	r.db.dropInternshipsWhere(func(in entity.Internship) bool { return in.CategoryID == id })
	return nil
}

type CompanyRepo struct {
	db *db
}

func (r *CompanyRepo) List(ctx context.Context) ([]entity.Company, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]entity.Company, 0, len(r.db.companies))
	for _, c := range r.db.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = r.db.next()
	r.db.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.companies[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.companies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.companies, id)
	r.db.dropInternshipsWhere(func(in entity.Internship) bool { return in.CompanyID == id })
	return nil
}

type InternshipRepo struct {
	db *db
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// List mirrors the SQL filter: case-insensitive substrings, ANDed, newest first.
func (r *InternshipRepo) List(ctx context.Context, f entity.InternshipFilter) ([]entity.Internship, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entity.Internship{}
	for _, in := range r.db.internships {
		in = r.db.withRelations(in)
		if f.Query != "" && !containsFold(in.Title, f.Query) && !containsFold(in.Description, f.Query) {
			continue
		}
		if f.Category != "" && !containsFold(in.Category.Name, f.Category) {
			continue
		}
		if f.Company != "" && !containsFold(in.Company.Name, f.Company) {
			continue
		}
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *InternshipRepo) ListByIDs(ctx context.Context, ids []int64) ([]entity.Internship, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entity.Internship{}
	for _, id := range ids {
		if in, ok := r.db.internships[id]; ok {
			out = append(out, r.db.withRelations(in))
		}
	}
	return out, nil
}

func (r *InternshipRepo) GetByID(ctx context.Context, id int64) (*entity.Internship, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	in, ok := r.db.internships[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	in = r.db.withRelations(in)
	return &in, nil
}

func (r *InternshipRepo) checkRefs(in *entity.Internship) error {
	if _, ok := r.db.companies[in.CompanyID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.db.categories[in.CategoryID]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r *InternshipRepo) Create(ctx context.Context, in *entity.Internship) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.checkRefs(in); err != nil {
		return err
	}
	in.ID = r.db.next()
	in.CreatedAt = time.Now()
	r.db.internships[in.ID] = *in
	return nil
}

func (r *InternshipRepo) Update(ctx context.Context, in *entity.Internship) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.internships[in.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := r.checkRefs(in); err != nil {
		return err
	}
	r.db.internships[in.ID] = *in
	return nil
}

func (r *InternshipRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.internships[id]; !ok {
		return repository.ErrNotFound
	}
	r.db.dropInternshipsWhere(func(in entity.Internship) bool { return in.ID == id })
	return nil
}

func (r *InternshipRepo) Count(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.internships)), nil
}

var (
	_ repository.CategoryRepository   = (*CategoryRepo)(nil)
	_ repository.CompanyRepository    = (*CompanyRepo)(nil)
	_ repository.InternshipRepository = (*InternshipRepo)(nil)
)
