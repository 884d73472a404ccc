package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	repo "github.com/oksasatya/internship-portal/internal/domain/repository"
)

const (
	categoryNameMax    = 20
	companyNameMax     = 50
	internshipTitleMax = 255
)

// CatalogService manages categories, companies and internships. When Index is
// set, internship writes are mirrored into it and filtered listings use it.
type CatalogService struct {
	Categories  repo.CategoryRepository
	Companies   repo.CompanyRepository
	Internships repo.InternshipRepository
	Index       InternshipIndex
	Files       FileStore
	Logger      *logrus.Logger
}

func NewCatalogService(categories repo.CategoryRepository, companies repo.CompanyRepository, internships repo.InternshipRepository, index InternshipIndex, files FileStore, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		Categories:  categories,
		Companies:   companies,
		Internships: internships,
		Index:       index,
		Files:       files,
		Logger:      logger,
	}
}

func checkName(field, name string, max int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid(field, "is required")
	}
	if utf8.RuneCountInString(name) > max {
		return "", invalid(field, "ensure this field has no more than "+strconv.Itoa(max)+" characters")
	}
	return name, nil
}

func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// ---- categories ----

func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.Categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	c, err := s.Categories.GetByID(ctx, id)
	return c, notFound(err)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	name, err := checkName("name", name, categoryNameMax)
	if err != nil {
		return nil, err
	}
	c := &entity.Category{Name: name}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, name string) (*entity.Category, error) {
	name, err := checkName("name", name, categoryNameMax)
	if err != nil {
		return nil, err
	}
	c := &entity.Category{ID: id, Name: name}
	if err := s.Categories.Update(ctx, c); err != nil {
		return nil, notFound(err)
	}
	s.reindexWhere(ctx, func(in *entity.Internship) bool { return in.CategoryID == id })
	return c, nil
}

// DeleteCategory removes the category together with its internships and
// their applications.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	doomed := s.collect(ctx, func(in *entity.Internship) bool { return in.CategoryID == id })
	if err := s.Categories.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.unindex(ctx, doomed)
	return nil
}

// ---- companies ----

func (s *CatalogService) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	return s.Companies.List(ctx)
}

func (s *CatalogService) GetCompany(ctx context.Context, id int64) (*entity.Company, error) {
	c, err := s.Companies.GetByID(ctx, id)
	return c, notFound(err)
}

func (s *CatalogService) CreateCompany(ctx context.Context, name string) (*entity.Company, error) {
	name, err := checkName("name", name, companyNameMax)
	if err != nil {
		return nil, err
	}
	c := &entity.Company{Name: name}
	if err := s.Companies.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCompany(ctx context.Context, id int64, name string) (*entity.Company, error) {
	name, err := checkName("name", name, companyNameMax)
	if err != nil {
		return nil, err
	}
	c := &entity.Company{ID: id, Name: name}
	if err := s.Companies.Update(ctx, c); err != nil {
		return nil, notFound(err)
	}
	s.reindexWhere(ctx, func(in *entity.Internship) bool { return in.CompanyID == id })
	return c, nil
}

func (s *CatalogService) DeleteCompany(ctx context.Context, id int64) error {
	doomed := s.collect(ctx, func(in *entity.Internship) bool { return in.CompanyID == id })
	if err := s.Companies.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.unindex(ctx, doomed)
	return nil
}

// ---- internships ----

// ListInternships returns internships matching every non-empty filter field.
// Filtered listings go to the search index when one is configured and fall
// back to the database if it fails.
func (s *CatalogService) ListInternships(ctx context.Context, f entity.InternshipFilter) ([]entity.Internship, error) {
	f = entity.InternshipFilter{
		Query:    strings.TrimSpace(f.Query),
		Category: strings.TrimSpace(f.Category),
		Company:  strings.TrimSpace(f.Company),
	}
	if s.Index != nil && !f.IsEmpty() {
		ids, err := s.Index.Search(ctx, f)
		if err == nil {
			return s.Internships.ListByIDs(ctx, ids)
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("search index failed, using database")
		}
	}
	return s.Internships.List(ctx, f)
}

func (s *CatalogService) GetInternship(ctx context.Context, id int64) (*entity.Internship, error) {
	in, err := s.Internships.GetByID(ctx, id)
	return in, notFound(err)
}

// InternshipInput carries the writable internship fields. Nil pointers are
// left unchanged on update; create requires title, company and category.
type InternshipInput struct {
	CompanyID       *int64
	CategoryID      *int64
	Title           *string
	Published       *time.Time
	ClearPublished  bool
	Description     *string
	FullDescription *string
	ApplyURL        *string
	Image           *Upload
}

func (s *CatalogService) CreateInternship(ctx context.Context, in InternshipInput) (*entity.Internship, error) {
	switch {
	case in.CompanyID == nil:
		return nil, invalid("company_id", "is required")
	case in.CategoryID == nil:
		return nil, invalid("category_id", "is required")
	case in.Title == nil:
		return nil, invalid("title", "is required")
	}
	it := &entity.Internship{}
	if err := s.apply(ctx, it, in); err != nil {
		return nil, err
	}
	if err := s.Internships.Create(ctx, it); err != nil {
		s.dropUpload(ctx, it.Image, in.Image)
		return nil, err
	}
	return s.reload(ctx, it.ID)
}

func (s *CatalogService) UpdateInternship(ctx context.Context, id int64, in InternshipInput) (*entity.Internship, error) {
	it, err := s.GetInternship(ctx, id)
	if err != nil {
		return nil, err
	}
	oldImage := it.Image
	if err := s.apply(ctx, it, in); err != nil {
		return nil, err
	}
	if err := s.Internships.Update(ctx, it); err != nil {
		s.dropUpload(ctx, it.Image, in.Image)
		return nil, notFound(err)
	}
	if in.Image != nil && oldImage != "" {
		deleteFile(ctx, s.Files, s.Logger, oldImage)
	}
	return s.reload(ctx, it.ID)
}

func (s *CatalogService) DeleteInternship(ctx context.Context, id int64) error {
	it, err := s.GetInternship(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Internships.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.unindex(ctx, []int64{id})
	deleteFile(ctx, s.Files, s.Logger, it.Image)
	return nil
}

func (s *CatalogService) CountInternships(ctx context.Context) (int64, error) {
	return s.Internships.Count(ctx)
}

// FileURL resolves a stored image reference for API output.
func (s *CatalogService) FileURL(ref string) string {
	return fileURL(s.Files, ref)
}

// apply validates in and copies it onto it, uploading the image last so a
// validation failure never leaves an orphaned file.
func (s *CatalogService) apply(ctx context.Context, it *entity.Internship, in InternshipInput) error {
	if in.CompanyID != nil {
		if _, err := s.Companies.GetByID(ctx, *in.CompanyID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return invalid("company_id", "company does not exist")
			}
			return err
		}
		it.CompanyID = *in.CompanyID
	}
	if in.CategoryID != nil {
		if _, err := s.Categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return invalid("category_id", "category does not exist")
			}
			return err
		}
		it.CategoryID = *in.CategoryID
	}
	if in.Title != nil {
		title, err := checkName("title", *in.Title, internshipTitleMax)
		if err != nil {
			return err
		}
		it.Title = title
	}
	if in.ClearPublished {
		it.Published = nil
	} else if in.Published != nil {
		p := *in.Published
		it.Published = &p
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	if in.FullDescription != nil {
		it.FullDescription = *in.FullDescription
	}
	if in.ApplyURL != nil {
		it.ApplyURL = strings.TrimSpace(*in.ApplyURL)
	}
	if in.Image != nil {
		ref, err := s.Files.Upload(ctx, objectPath("images", "internships", in.Image.Filename), in.Image.ContentType, in.Image.Reader)
		if err != nil {
			return err
		}
		it.Image = ref
	}
	return nil
}

func (s *CatalogService) dropUpload(ctx context.Context, ref string, up *Upload) {
	if up != nil {
		deleteFile(ctx, s.Files, s.Logger, ref)
	}
}

// reload reads the row back with its company and category and refreshes the index.
func (s *CatalogService) reload(ctx context.Context, id int64) (*entity.Internship, error) {
	it, err := s.GetInternship(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index(ctx, it)
	return it, nil
}

func (s *CatalogService) index(ctx context.Context, it *entity.Internship) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, it); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("internship_id", it.ID).Warn("index internship failed")
	}
}

func (s *CatalogService) unindex(ctx context.Context, ids []int64) {
	if s.Index == nil {
		return
	}
	for _, id := range ids {
		if err := s.Index.Remove(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("internship_id", id).Warn("remove internship from index failed")
		}
	}
}

// collect lists internship ids matching keep; only used to keep the index in step.
func (s *CatalogService) collect(ctx context.Context, keep func(*entity.Internship) bool) []int64 {
	if s.Index == nil {
		return nil
	}
	all, err := s.Internships.List(ctx, entity.InternshipFilter{})
	if err != nil {
		return nil
	}
	var ids []int64
	for i := range all {
		if keep(&all[i]) {
			ids = append(ids, all[i].ID)
		}
	}
	return ids
}

func (s *CatalogService) reindexWhere(ctx context.Context, keep func(*entity.Internship) bool) {
	if s.Index == nil {
		return
	}
	all, err := s.Internships.List(ctx, entity.InternshipFilter{})
	if err != nil {
		return
	}
	for i := range all {
		if keep(&all[i]) {
			s.index(ctx, &all[i])
		}
	}
}
