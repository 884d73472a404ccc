package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository"
)

const applicationColumns = `id, user_id, internship_id, file, additional_titles, description, status, applied_at`

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func scanApplication(row rowScanner) (*entity.Application, error) {
	a := &entity.Application{}
	var status string
	if err := row.Scan(&a.ID, &a.UserID, &a.InternshipID, &a.File, &a.AdditionalTitles, &a.Description,
		&status, &a.AppliedAt); err != nil {
		return nil, mapErr(err)
	}
	a.Status = entity.ApplicationStatus(status)
	if a.AdditionalTitles == nil {
		a.AdditionalTitles = map[string]string{}
	}
	return a, nil
}

func (r *ApplicationRepository) list(ctx context.Context, sql string, args ...any) ([]entity.Application, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *ApplicationRepository) Create(ctx context.Context, a *entity.Application) error {
	titles := a.AdditionalTitles
	if titles == nil {
		titles = map[string]string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO applications (user_id, internship_id, file, additional_titles, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, applied_at
	`, a.UserID, a.InternshipID, a.File, titles, a.Description, string(a.Status))

	return mapErr(row.Scan(&a.ID, &a.AppliedAt))
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	return scanApplication(r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
}

func (r *ApplicationRepository) ListByStatus(ctx context.Context, status entity.ApplicationStatus) ([]entity.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE status = $1 ORDER BY applied_at, id`, string(status))
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY applied_at DESC, id DESC`, userID)
}

// TransitionStatus only writes when the row is still in from, so two admins
// racing on the same application cannot both succeed.
func (r *ApplicationRepository) TransitionStatus(ctx context.Context, id int64, from, to entity.ApplicationStatus) (*entity.Application, error) {
	a, err := scanApplication(r.pool.QueryRow(ctx, `
		UPDATE applications SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING `+applicationColumns, string(to), id, string(from)))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrStatusConflict
	}
	return nil, repository.ErrNotFound
}

func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n)
	return n, err
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
