package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository"
)

const contactColumns = `id, first_name, last_name, email, phone_number, message, created_at`

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func scanContact(row rowScanner) (*entity.ContactMessage, error) {
	m := &entity.ContactMessage{}
	if err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber, &m.Message, &m.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (r *ContactRepository) Create(ctx context.Context, m *entity.ContactMessage) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (first_name, last_name, email, phone_number, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.FirstName, m.LastName, m.Email, m.PhoneNumber, m.Message)

	return mapErr(row.Scan(&m.ID, &m.CreatedAt))
}

func (r *ContactRepository) List(ctx context.Context) ([]entity.ContactMessage, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.ContactMessage{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*entity.ContactMessage, error) {
	return scanContact(r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id))
}

func (r *ContactRepository) Update(ctx context.Context, m *entity.ContactMessage) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE contact_messages
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4, message = $5
		WHERE id = $6
	`, m.FirstName, m.LastName, m.Email, m.PhoneNumber, m.Message, m.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
