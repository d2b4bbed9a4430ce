package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

type MinIOUploader struct {
	client *minio.Client
	bucket string
}

// NewMinIOUploader connects to an S3-compatible endpoint and creates the
// bucket when it does not exist yet.
func NewMinIOUploader(ctx context.Context, o MinIOOptions) (*MinIOUploader, error) {
	c, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := c.BucketExists(ctx, o.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", o.Bucket, err)
	}
	if !exists {
		region := o.Region
		if region == "" {
			region = "us-east-1"
		}
		if err := c.MakeBucket(ctx, o.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", o.Bucket, err)
		}
	}
	return &MinIOUploader{client: c, bucket: o.Bucket}, nil
}

func (u *MinIOUploader) Close() error { return nil }

func (u *MinIOUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader, size int64) (string, error) {
	if size <= 0 {
		size = -1
	}
	_, err := u.client.PutObject(ctx, u.bucket, objectName, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", u.bucket, objectName), nil
}
