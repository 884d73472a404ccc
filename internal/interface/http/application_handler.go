package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qri-io/jsonschema"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/internal/interface/middleware"
	"github.com/oksasatya/internship-portal/pkg/response"
)

type ApplicationHandler struct {
	Svc    *application.WorkflowService
	Logger *logrus.Logger
}

func NewApplicationHandler(svc *application.WorkflowService, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{Svc: svc, Logger: logger}
}

// applyRequest is multipart: additional_titles arrives as a JSON object
// encoded in a single form field. A status field, if sent, is ignored.
type applyRequest struct {
	Internship       int64                 `form:"internship"`
	AdditionalTitles string                `form:"additional_titles"`
	Description      string                `form:"description"`
	File             *multipart.FileHeader `form:"file"`
}

// additionalTitlesSchema checks the shape of additional_titles; size limits
// belong to the workflow service.
var additionalTitlesSchema = func() *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(`{"type":"object","additionalProperties":{"type":"string"}}`), rs); err != nil {
		panic(err)
	}
	return rs
}()

func parseTitles(ctx context.Context, raw string) (map[string]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}
	errs, err := additionalTitlesSchema.ValidateBytes(ctx, []byte(raw))
	if err != nil {
		return nil, "must be valid JSON"
	}
	if len(errs) > 0 {
		return nil, "must be a JSON object of strings"
	}
	var titles map[string]string
	if err := json.Unmarshal([]byte(raw), &titles); err != nil {
		return nil, "must be a JSON object of strings"
	}
	return titles, ""
}

// Apply POST /api/apply
func (h *ApplicationHandler) Apply(c *gin.Context) {
	if !isMultipart(c) {
		response.Fail(c, http.StatusUnsupportedMediaType, "expected multipart/form-data", nil)
		return
	}
	var req applyRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	titles, msg := parseTitles(c.Request.Context(), req.AdditionalTitles)
	if msg != "" {
		response.Fail(c, http.StatusBadRequest, "validation failed", map[string]string{"additional_titles": msg})
		return
	}

	file, release, err := openUpload(req.File)
	if err != nil {
		bindError(c, err)
		return
	}
	defer release()

	a, err := h.Svc.Submit(c.Request.Context(), middleware.CurrentUserID(c), application.SubmitInput{
		InternshipID:     req.Internship,
		File:             file,
		AdditionalTitles: titles,
		Description:      req.Description,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, presentApplication(a, h.Svc.FileURL), "application submitted", nil)
}

// MyApplications GET /api/my-applications
func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	list, err := h.Svc.ListOwn(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, presentApplications(list, h.Svc.FileURL), "applications", nil)
}

// Pending GET /api/applications/admin
func (h *ApplicationHandler) Pending(c *gin.Context) {
	list, err := h.Svc.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, presentApplications(list, h.Svc.FileURL), "pending applications", nil)
}

// Review POST /api/applications/admin/:id/:action
func (h *ApplicationHandler) Review(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.Svc.Transition(c.Request.Context(), id, c.Param("action"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Logger.WithFields(logrus.Fields{
		"application_id": a.ID,
		"status":         a.Status,
		"reviewer_id":    middleware.CurrentUserID(c),
	}).Info("application reviewed")
	response.OK(c, http.StatusOK, gin.H{"status": string(a.Status)}, "application "+string(a.Status), nil)
}

// Delete DELETE /api/applications/admin/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
