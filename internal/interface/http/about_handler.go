package handlers

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/pkg/helpers"
	"github.com/oksasatya/internship-portal/pkg/response"
)

const languageCookieTTL = 365 * 24 * time.Hour

type AboutHandler struct {
	Stats     *application.StatsService
	Languages []string
	Cookies   *helpers.Manager
	Logger    *logrus.Logger
}

func NewAboutHandler(stats *application.StatsService, languages []string, cookies *helpers.Manager, logger *logrus.Logger) *AboutHandler {
	return &AboutHandler{Stats: stats, Languages: languages, Cookies: cookies, Logger: logger}
}

// About GET /api/about and GET /api/admin/about
func (h *AboutHandler) About(c *gin.Context) {
	st, err := h.Stats.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, st, "about", nil)
}

type languageRequest struct {
	Language string `json:"language" form:"language" binding:"required"`
}

// ChangeLanguage POST /api/change-language
func (h *AboutHandler) ChangeLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	code, ok := h.match(req.Language)
	if !ok {
		response.Fail(c, http.StatusBadRequest, "invalid language",
			map[string]string{"language": "must be one of: " + strings.Join(h.Languages, ", ")})
		return
	}
	h.Cookies.SetLanguage(c, code, time.Now().Add(languageCookieTTL))
	response.OK(c, http.StatusOK, gin.H{"language": code}, "language changed", nil)
}

// match reduces a BCP 47 tag such as "en-US" to its base language and checks
// it against the supported list.
func (h *AboutHandler) match(raw string) (string, bool) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	code := base.String()
	return code, slices.Contains(h.Languages, code)
}
