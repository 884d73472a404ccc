package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/internship-portal/internal/application"
)

// openUpload opens a multipart file for a service call; release closes it.
func openUpload(fh *multipart.FileHeader) (up *application.Upload, release func(), err error) {
	if fh == nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &application.Upload{Reader: f, Filename: fh.Filename, ContentType: ct}, func() { _ = f.Close() }, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// truthy accepts the loose booleans browsers and form posts send.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "on", "yes":
			return true
		}
	}
	return false
}
