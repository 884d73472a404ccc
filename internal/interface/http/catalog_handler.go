package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/pkg/response"
)

type CatalogHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *application.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

type nameRequest struct {
	Name string `json:"name" form:"name" binding:"required"`
}

// internshipRequest binds JSON or multipart. Pointers distinguish absent
// fields from empty ones; an empty published clears the date.
type internshipRequest struct {
	CompanyID       *int64                `json:"company_id" form:"company_id"`
	CategoryID      *int64                `json:"category_id" form:"category_id"`
	Title           *string               `json:"title" form:"title" binding:"omitempty,max=255"`
	Published       *string               `json:"published" form:"published"`
	Description     *string               `json:"description" form:"description"`
	FullDescription *string               `json:"full_description" form:"full_description"`
	ApplyURL        *string               `json:"apply_url" form:"apply_url" binding:"omitempty,url"`
	Image           *multipart.FileHeader `json:"-" form:"image"`
}

func (r internshipRequest) input() (application.InternshipInput, map[string]string) {
	in := application.InternshipInput{
		CompanyID:       r.CompanyID,
		CategoryID:      r.CategoryID,
		Title:           r.Title,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		ApplyURL:        r.ApplyURL,
	}
	if r.Published != nil {
		s := strings.TrimSpace(*r.Published)
		if s == "" {
			in.ClearPublished = true
		} else {
			t, err := time.Parse(dateLayout, s)
			if err != nil {
				return in, map[string]string{"published": "date has wrong format, use YYYY-MM-DD"}
			}
			in.Published = &t
		}
	}
	return in, nil
}

func filterFromQuery(c *gin.Context) entity.InternshipFilter {
	q := c.Query("query")
	if q == "" {
		q = c.Query("q")
	}
	return entity.InternshipFilter{Query: q, Category: c.Query("category"), Company: c.Query("company")}
}

// ListInternships GET /api/internships and /api/internships/search
func (h *CatalogHandler) ListInternships(c *gin.Context) {
	list, err := h.Svc.ListInternships(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, presentInternships(list, h.Svc.FileURL), "internships", map[string]any{"count": len(list)})
}

// GetInternship GET /api/internships/:id
func (h *CatalogHandler) GetInternship(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, err := h.Svc.GetInternship(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, presentInternship(in, h.Svc.FileURL), "internship", nil)
}

func (h *CatalogHandler) bindInternship(c *gin.Context) (application.InternshipInput, func(), bool) {
	var req internshipRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return application.InternshipInput{}, nil, false
	}
	in, details := req.input()
	if details != nil {
		response.Fail(c, http.StatusBadRequest, "validation failed", details)
		return in, nil, false
	}
	img, release, err := openUpload(req.Image)
	if err != nil {
		bindError(c, err)
		return in, nil, false
	}
	in.Image = img
	return in, release, true
}

// CreateInternship POST /api/internships
func (h *CatalogHandler) CreateInternship(c *gin.Context) {
	in, release, ok := h.bindInternship(c)
	if !ok {
		return
	}
	defer release()
	created, err := h.Svc.CreateInternship(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, presentInternship(created, h.Svc.FileURL), "internship created", nil)
}

// ReplaceInternship PUT /api/internships/:id requires the same fields as create.
func (h *CatalogHandler) ReplaceInternship(c *gin.Context) {
	h.updateInternship(c, true)
}

// PatchInternship PATCH /api/internships/:id
func (h *CatalogHandler) PatchInternship(c *gin.Context) {
	h.updateInternship(c, false)
}

func (h *CatalogHandler) updateInternship(c *gin.Context, full bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, release, ok := h.bindInternship(c)
	if !ok {
		return
	}
	defer release()
	if full {
		missing := map[string]string{}
		if in.CompanyID == nil {
			missing["company_id"] = "this field is required"
		}
		if in.CategoryID == nil {
			missing["category_id"] = "this field is required"
		}
		if in.Title == nil {
			missing["title"] = "this field is required"
		}
		if len(missing) > 0 {
			response.Fail(c, http.StatusBadRequest, "validation failed", missing)
			return
		}
	}
	updated, err := h.Svc.UpdateInternship(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, presentInternship(updated, h.Svc.FileURL), "internship updated", nil)
}

// DeleteInternship DELETE /api/internships/:id
func (h *CatalogHandler) DeleteInternship(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteInternship(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- categories ----

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]namedView, 0, len(list))
	for _, v := range list {
		out = append(out, namedView{ID: v.ID, Name: v.Name})
	}
	response.OK(c, http.StatusOK, out, "categories", nil)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.Svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, namedView{ID: v.ID, Name: v.Name}, "category", nil)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	v, err := h.Svc.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, namedView{ID: v.ID, Name: v.Name}, "category created", nil)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	v, err := h.Svc.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, namedView{ID: v.ID, Name: v.Name}, "category updated", nil)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- companies ----

func (h *CatalogHandler) ListCompanies(c *gin.Context) {
	list, err := h.Svc.ListCompanies(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]namedView, 0, len(list))
	for _, v := range list {
		out = append(out, namedView{ID: v.ID, Name: v.Name})
	}
	response.OK(c, http.StatusOK, out, "companies", nil)
}

func (h *CatalogHandler) GetCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.Svc.GetCompany(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, namedView{ID: v.ID, Name: v.Name}, "company", nil)
}

func (h *CatalogHandler) CreateCompany(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	v, err := h.Svc.CreateCompany(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, namedView{ID: v.ID, Name: v.Name}, "company created", nil)
}

func (h *CatalogHandler) UpdateCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	v, err := h.Svc.UpdateCompany(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, namedView{ID: v.ID, Name: v.Name}, "company updated", nil)
}

func (h *CatalogHandler) DeleteCompany(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteCompany(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
