package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/pkg/response"
	"github.com/oksasatya/internship-portal/pkg/validation"
)

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	if ve, ok := application.IsValidation(err); ok {
		var details any
		if len(ve.Fields) > 0 {
			details = ve.Fields
		}
		response.Fail(c, http.StatusBadRequest, ve.Message, details)
		return
	}

	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Fail(c, http.StatusUnauthorized, "token is invalid or expired", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Fail(c, http.StatusForbidden, "you do not have permission to perform this action", nil)
	case errors.Is(err, application.ErrConflict):
		response.Fail(c, http.StatusConflict, err.Error(), nil)
	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// bindError answers a request whose body could not be bound.
func bindError(c *gin.Context, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		response.Fail(c, http.StatusRequestEntityTooLarge, "request body too large",
			map[string]string{"payload": "must be at most " + strconv.FormatInt(tooBig.Limit, 10) + " bytes"})
		return
	}
	response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// pathID reads an integer path parameter; anything else is a 404.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusNotFound, "not found", nil)
		return 0, false
	}
	return id, true
}
