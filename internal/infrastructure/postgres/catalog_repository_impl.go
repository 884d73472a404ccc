package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository"
)

// namedRepository covers the two id+name tables.
type namedRepository struct {
	pool  *pgxpool.Pool
	table string
}

func (r namedRepository) list(ctx context.Context) ([]idName, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM `+r.table+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []idName{}
	for rows.Next() {
		var v idName
		if err := rows.Scan(&v.id, &v.name); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r namedRepository) get(ctx context.Context, id int64) (idName, error) {
	var v idName
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM `+r.table+` WHERE id = $1`, id).Scan(&v.id, &v.name)
	return v, mapErr(err)
}

func (r namedRepository) create(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO `+r.table+` (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, mapErr(err)
}

func (r namedRepository) update(ctx context.Context, id int64, name string) error {
	res, err := r.pool.Exec(ctx, `UPDATE `+r.table+` SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r namedRepository) delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type idName struct {
	id   int64
	name string
}

type CategoryRepository struct{ named namedRepository }

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{named: namedRepository{pool: pool, table: "categories"}}
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.named.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Category, 0, len(rows))
	for _, v := range rows {
		out = append(out, entity.Category{ID: v.id, Name: v.name})
	}
	return out, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	v, err := r.named.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.Category{ID: v.id, Name: v.name}, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	id, err := r.named.create(ctx, c.Name)
	c.ID = id
	return err
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	return r.named.update(ctx, c.ID, c.Name)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.named.delete(ctx, id)
}

type CompanyRepository struct{ named namedRepository }

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{named: namedRepository{pool: pool, table: "companies"}}
}

func (r *CompanyRepository) List(ctx context.Context) ([]entity.Company, error) {
	rows, err := r.named.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Company, 0, len(rows))
	for _, v := range rows {
		out = append(out, entity.Company{ID: v.id, Name: v.name})
	}
	return out, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	v, err := r.named.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.Company{ID: v.id, Name: v.name}, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c *entity.Company) error {
	id, err := r.named.create(ctx, c.Name)
	c.ID = id
	return err
}

func (r *CompanyRepository) Update(ctx context.Context, c *entity.Company) error {
	return r.named.update(ctx, c.ID, c.Name)
}

func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	return r.named.delete(ctx, id)
}

const internshipSelect = `
	SELECT i.id, i.image, i.company_id, i.category_id, co.name, ca.name, i.title, i.published,
	       i.description, i.full_description, i.apply_url, i.created_at
	FROM internships i
	JOIN companies co ON co.id = i.company_id
	JOIN categories ca ON ca.id = i.category_id`

type InternshipRepository struct {
	pool *pgxpool.Pool
}

func NewInternshipRepository(pool *pgxpool.Pool) *InternshipRepository {
	return &InternshipRepository{pool: pool}
}

func scanInternship(row rowScanner) (*entity.Internship, error) {
	in := &entity.Internship{}
	if err := row.Scan(&in.ID, &in.Image, &in.CompanyID, &in.CategoryID, &in.Company.Name, &in.Category.Name,
		&in.Title, &in.Published, &in.Description, &in.FullDescription, &in.ApplyURL, &in.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	in.Company.ID = in.CompanyID
	in.Category.ID = in.CategoryID
	return in, nil
}

func (r *InternshipRepository) query(ctx context.Context, sql string, args ...any) ([]entity.Internship, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Internship{}
	for rows.Next() {
		in, err := scanInternship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

// List filters with case-insensitive substring matches; all given fields must match.
func (r *InternshipRepository) List(ctx context.Context, f entity.InternshipFilter) ([]entity.Internship, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v string) string {
		args = append(args, containsPattern(v))
		return "$" + strconv.Itoa(len(args))
	}
	if f.Query != "" {
		p := arg(f.Query)
		where = append(where, "(i.title ILIKE "+p+" OR i.description ILIKE "+p+")")
	}
	if f.Category != "" {
		where = append(where, "ca.name ILIKE "+arg(f.Category))
	}
	if f.Company != "" {
		where = append(where, "co.name ILIKE "+arg(f.Company))
	}

	sql := internshipSelect
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY i.created_at DESC, i.id DESC"
	return r.query(ctx, sql, args...)
}

// ListByIDs returns the rows that still exist, in the order of ids.
func (r *InternshipRepository) ListByIDs(ctx context.Context, ids []int64) ([]entity.Internship, error) {
	if len(ids) == 0 {
		return []entity.Internship{}, nil
	}
	found, err := r.query(ctx, internshipSelect+" WHERE i.id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]entity.Internship, len(found))
	for _, in := range found {
		byID[in.ID] = in
	}
	out := make([]entity.Internship, 0, len(found))
	for _, id := range ids {
		if in, ok := byID[id]; ok {
			out = append(out, in)
			delete(byID, id)
		}
	}
	return out, nil
}

func (r *InternshipRepository) GetByID(ctx context.Context, id int64) (*entity.Internship, error) {
	return scanInternship(r.pool.QueryRow(ctx, internshipSelect+" WHERE i.id = $1", id))
}

func (r *InternshipRepository) Create(ctx context.Context, in *entity.Internship) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO internships (image, company_id, category_id, title, published, description, full_description, apply_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, in.Image, in.CompanyID, in.CategoryID, in.Title, in.Published, in.Description, in.FullDescription, in.ApplyURL)

	return mapErr(row.Scan(&in.ID, &in.CreatedAt))
}

func (r *InternshipRepository) Update(ctx context.Context, in *entity.Internship) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE internships
		SET image = $1, company_id = $2, category_id = $3, title = $4, published = $5,
		    description = $6, full_description = $7, apply_url = $8
		WHERE id = $9
	`, in.Image, in.CompanyID, in.CategoryID, in.Title, in.Published, in.Description, in.FullDescription, in.ApplyURL, in.ID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *InternshipRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM internships WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *InternshipRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM internships`).Scan(&n)
	return n, err
}

var (
	_ repository.CategoryRepository   = (*CategoryRepository)(nil)
	_ repository.CompanyRepository    = (*CompanyRepository)(nil)
	_ repository.InternshipRepository = (*InternshipRepository)(nil)
)
