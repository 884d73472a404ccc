package filestore

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/internship-portal/pkg/helpers"
)

// GCSStore keeps uploads in a Cloud Storage bucket. References are object paths.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if _, err := helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, r); err != nil {
		return "", err
	}
	return objectPath, nil
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	return helpers.DeleteObject(ctx, s.client, s.bucket, ref)
}

func (s *GCSStore) URL(ref string) string {
	return helpers.PublicURL(s.bucket, ref)
}
