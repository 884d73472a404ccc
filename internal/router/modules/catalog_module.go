package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/internship-portal/internal/interface/http"
)

// CatalogModule serves internships, categories and companies. Reads are
// public, writes are admin-only.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
	Guards  Guards
}

func NewCatalogModule(h *handlers.CatalogHandler, g Guards) *CatalogModule {
	return &CatalogModule{Handler: h, Guards: g}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	h := m.Handler

	rg.GET("/internships", h.ListInternships)
	rg.GET("/internships/search", h.ListInternships)
	rg.GET("/internships/:id", h.GetInternship)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/categories/:id", h.GetCategory)
	rg.GET("/companies", h.ListCompanies)
	rg.GET("/companies/:id", h.GetCompany)

	admin := rg.Group("", m.Guards.admin()...)
	{
		admin.POST("/internships", h.CreateInternship)
		admin.PUT("/internships/:id", h.ReplaceInternship)
		admin.PATCH("/internships/:id", h.PatchInternship)
		admin.DELETE("/internships/:id", h.DeleteInternship)

		admin.POST("/categories", h.CreateCategory)
		admin.PUT("/categories/:id", h.UpdateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)

		admin.POST("/companies", h.CreateCompany)
		admin.PUT("/companies/:id", h.UpdateCompany)
		admin.DELETE("/companies/:id", h.DeleteCompany)
	}
}
