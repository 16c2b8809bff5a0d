package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// EvidenceStore mints presigned upload URLs for report evidence. Only the
// URLs travel through the API; file bytes go straight to object storage.
type EvidenceStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewEvidenceStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*EvidenceStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &EvidenceStore{
		client: client,
		bucket: bucket,
		expiry: 15 * time.Minute,
	}, nil
}

// EnsureBucket creates the evidence bucket if it does not exist yet.
func (s *EvidenceStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// PresignUpload returns a presigned PUT URL and the public object URL the
// client should reference in the report's evidence list.
func (s *EvidenceStore) PresignUpload(ctx context.Context, filename string) (uploadURL, objectURL string, err error) {
	objectName := fmt.Sprintf("%s/%s%s",
		time.Now().UTC().Format("2006/01/02"),
		uuid.New().String(),
		path.Ext(filename),
	)

	u, err := s.client.PresignedPutObject(ctx, s.bucket, objectName, s.expiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}

	public := url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   path.Join("/", s.bucket, objectName),
	}
	return u.String(), public.String(), nil
}
