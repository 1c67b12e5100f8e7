package objectstore

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

// GCSCoverStore uploads post cover images into a single bucket.
type GCSCoverStore struct {
	client *storage.Client
	bucket string
}

func NewGCSCoverStore(client *storage.Client, bucket string) *GCSCoverStore {
	return &GCSCoverStore{client: client, bucket: bucket}
}

func (s *GCSCoverStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, r)
}
