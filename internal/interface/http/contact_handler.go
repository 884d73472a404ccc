package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/pkg/response"
)

type ContactHandler struct {
	Svc    *application.ContactService
	Logger *logrus.Logger
}

func NewContactHandler(svc *application.ContactService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

type contactRequest struct {
	FirstName   *string `json:"first_name" form:"first_name" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name" form:"last_name" binding:"omitempty,max=100"`
	Email       *string `json:"email" form:"email" binding:"omitempty,email,max=254"`
	PhoneNumber *string `json:"phone_number" form:"phone_number" binding:"omitempty,phone"`
	Message     *string `json:"message" form:"message"`
}

func (r contactRequest) input() application.ContactInput {
	return application.ContactInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Message:     r.Message,
	}
}

// contactPK reads the message id from /contact/:id or ?pk=.
func contactPK(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("pk")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusNotFound, "not found", nil)
		return 0, false
	}
	return id, true
}

// Submit POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	m, err := h.Svc.Submit(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, presentContact(m), "message received", nil)
}

// List GET /api/contact; with ?pk= it returns that one message.
func (h *ContactHandler) List(c *gin.Context) {
	if c.Query("pk") != "" {
		h.Get(c)
		return
	}
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]contactView, 0, len(list))
	for i := range list {
		out = append(out, presentContact(&list[i]))
	}
	response.OK(c, http.StatusOK, out, "messages", nil)
}

func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := contactPK(c)
	if !ok {
		return
	}
	m, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, presentContact(m), "message", nil)
}

func (h *ContactHandler) Update(c *gin.Context) { h.write(c, true) }

func (h *ContactHandler) Patch(c *gin.Context) { h.write(c, false) }

func (h *ContactHandler) write(c *gin.Context, full bool) {
	id, ok := contactPK(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	save := h.Svc.Patch
	if full {
		save = h.Svc.Update
	}
	updated, err := save(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, presentContact(updated), "message updated", nil)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := contactPK(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
