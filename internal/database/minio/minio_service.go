package minio

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"donation-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	CampaignImageBucket = "campaign-images"
	ReportReceiptBucket = "report-receipts"
)

type MinioService struct {
	Client      *minio.Client
	ResourceUrl string
}

func NewMinioService(cfg config.MinioConfig) (*MinioService, error) {
	client, err := minio.New(cfg.MinioUrl, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure == "true",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &MinioService{Client: client, ResourceUrl: cfg.MinioResourceUrl}

	for _, bucket := range []string{CampaignImageBucket, ReportReceiptBucket} {
		if err := s.ensureBucket(context.Background(), bucket, cfg.MinioLocation); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MinioService) ensureBucket(ctx context.Context, bucket, location string) error {
	exists, err := s.Client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := s.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		log.Printf("created bucket %s", bucket)
	}
	// Uploaded images and receipts are served directly on the public site.
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, bucket)
	if err := s.Client.SetBucketPolicy(ctx, bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy for %s: %w", bucket, err)
	}
	return nil
}

func (s *MinioService) UploadFile(ctx context.Context, bucket, objectName string, file multipart.File, size int64, contentType string) (string, error) {
	_, err := s.Client.PutObject(ctx, bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return s.BuildResourceURL(bucket, objectName), nil
}

func (s *MinioService) RemoveFile(ctx context.Context, bucket, objectName string) error {
	if err := s.Client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", objectName, err)
	}
	return nil
}

func (s *MinioService) BuildResourceURL(bucket, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", s.ResourceUrl, bucket, objectName)
}

// ObjectNameFromURL inverts BuildResourceURL. Externally hosted URLs return
// false and are left alone.
func (s *MinioService) ObjectNameFromURL(bucket, url string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", s.ResourceUrl, bucket)
	object := strings.TrimPrefix(url, prefix)
	if object == url || object == "" {
		return "", false
	}
	return object, true
}
