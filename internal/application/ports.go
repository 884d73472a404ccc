package application

import (
	"context"
	"io"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
)

// FileStore persists uploaded files. Upload returns the stored reference that
// later goes to Delete and URL.
type FileStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
	URL(ref string) string
}

// Publisher puts a JSON job onto the notification queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// InternshipIndex is an optional full-text index kept next to the database.
// Search returns matching ids ordered by relevance.
type InternshipIndex interface {
	Index(ctx context.Context, in *entity.Internship) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, f entity.InternshipFilter) ([]int64, error)
}
