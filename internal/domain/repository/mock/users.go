package mock

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository"
)

type UserRepo struct {
	db *db
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.users {
		if strings.EqualFold(other.Email, u.Email) || other.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.db.next()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.db.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range r.db.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	u.Password = cur.Password
	u.UpdatedAt = time.Now()
	r.db.users[u.ID] = *u
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	r.db.users[id] = u
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.users, id)
	delete(r.db.profiles, id)
	r.db.dropAppsWhere(func(a entity.Application) bool { return a.UserID == id })
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]entity.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.users)), nil
}

// ProfileRepo fails Create with CreateErr when set.
type ProfileRepo struct {
	db        *db
	CreateErr error
}

func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.profiles[p.UserID]; ok {
		return repository.ErrDuplicate
	}
	p.ID = r.db.next()
	p.UpdatedAt = time.Now()
	r.db.profiles[p.UserID] = *p
	return nil
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (*entity.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.profiles[p.UserID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.db.profiles[p.UserID] = *p
	return nil
}

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.ProfileRepository = (*ProfileRepo)(nil)
)
