package mock

import (
	"context"
	"sort"
	"time"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository"
)

type ApplicationRepo struct {
	db *db
}

func (r *ApplicationRepo) Create(ctx context.Context, a *entity.Application) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[a.UserID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.db.internships[a.InternshipID]; !ok {
		return repository.ErrNotFound
	}
	a.ID = r.db.next()
	a.AppliedAt = time.Now()
	stored := *a
	stored.AdditionalTitles = copyTitles(a.AdditionalTitles)
	r.db.apps[a.ID] = stored
	return nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.apps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a.AdditionalTitles = copyTitles(a.AdditionalTitles)
	return &a, nil
}

func (r *ApplicationRepo) list(match func(entity.Application) bool) []entity.Application {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entity.Application{}
	for _, a := range r.db.apps {
		if match(a) {
			a.AdditionalTitles = copyTitles(a.AdditionalTitles)
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *ApplicationRepo) ListByStatus(ctx context.Context, status entity.ApplicationStatus) ([]entity.Application, error) {
	return r.list(func(a entity.Application) bool { return a.Status == status }), nil
}

func (r *ApplicationRepo) ListByUser(ctx context.Context, userID int64) ([]entity.Application, error) {
	return r.list(func(a entity.Application) bool { return a.UserID == userID }), nil
}

func (r *ApplicationRepo) TransitionStatus(ctx context.Context, id int64, from, to entity.ApplicationStatus) (*entity.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.apps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if a.Status != from {
		return nil, repository.ErrStatusConflict
	}
	a.Status = to
	r.db.apps[id] = a
	a.AdditionalTitles = copyTitles(a.AdditionalTitles)
	return &a, nil
}

func (r *ApplicationRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.apps[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.apps, id)
	return nil
}

func (r *ApplicationRepo) Count(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.apps)), nil
}

type ContactRepo struct {
	db *db
}

func (r *ContactRepo) Create(ctx context.Context, m *entity.ContactMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m.ID = r.db.next()
	m.CreatedAt = time.Now()
	r.db.contacts[m.ID] = *m
	return nil
}

func (r *ContactRepo) List(ctx context.Context) ([]entity.ContactMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]entity.ContactMessage, 0, len(r.db.contacts))
	for _, m := range r.db.contacts {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *ContactRepo) GetByID(ctx context.Context, id int64) (*entity.ContactMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.contacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *ContactRepo) Update(ctx context.Context, m *entity.ContactMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.contacts[m.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.contacts[m.ID] = *m
	return nil
}

func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.contacts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.contacts, id)
	return nil
}

var (
	_ repository.ApplicationRepository = (*ApplicationRepo)(nil)
	_ repository.ContactRepository     = (*ContactRepo)(nil)
)
