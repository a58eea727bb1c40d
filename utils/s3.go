package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	appcfg "github.com/Masood0319/Startups-platform/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const previewPrefix = "previews/"

// ObjectStore is the subset of the S3 API the preview archive uses.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Presigner signs GET URLs for archived objects.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedURL, error)
}

// PresignedURL wraps the signed request URL.
type PresignedURL struct {
	URL string
}

type r2Presigner struct {
	client *s3.PresignClient
}

func (p r2Presigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedURL, error) {
	req, err := p.client.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &PresignedURL{URL: req.URL}, nil
}

// PreviewArchive stores agreement preview text in Cloudflare R2 (S3-compatible)
// and hands back a presigned link.
type PreviewArchive struct {
	objects   ObjectStore
	presigner Presigner
	bucket    string
	expiry    time.Duration
	newID     func() string
}

// NewPreviewArchive returns nil when R2 is not configured.
func NewPreviewArchive(ctx context.Context, cfg appcfg.R2Config) (*PreviewArchive, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"), // required by the SDK, R2 ignores it
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load R2 config: %w", err)
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return NewPreviewArchiveWith(client, r2Presigner{client: s3.NewPresignClient(client)}, cfg.Bucket), nil
}

// NewPreviewArchiveWith builds an archive on explicit clients.
func NewPreviewArchiveWith(objects ObjectStore, presigner Presigner, bucket string) *PreviewArchive {
	return &PreviewArchive{
		objects:   objects,
		presigner: presigner,
		bucket:    bucket,
		expiry:    time.Hour,
		newID:     uuid.NewString,
	}
}

// Archive uploads text under previews/<uuid>.txt and returns the object key
// and a GET URL valid for one hour.
func (a *PreviewArchive) Archive(ctx context.Context, text string) (string, string, error) {
	key := previewPrefix + a.newID() + ".txt"
	_, err := a.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(text),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", "", fmt.Errorf("R2 upload failed: %w", err)
	}
	signed, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = a.expiry
	})
	if err != nil {
		return key, "", fmt.Errorf("presign R2 URL: %w", err)
	}
	return key, signed.URL, nil
}
