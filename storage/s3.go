package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3UploaderConfig настраивает S3-совместимое хранилище (Cloudflare R2,
// Supabase Storage S3, MinIO).
type S3UploaderConfig struct {
	Endpoint        string
	AccountID       string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	BucketPrefix    string
}

type s3Uploader struct {
	s3Client      *s3.Client
	publicBaseURL string
	bucketPrefix  string
}

func NewS3Uploader(cfg S3UploaderConfig) (FileUploader, error) {
	if (cfg.Endpoint == "" && cfg.AccountID == "") || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("invalid storage configuration: endpoint or account id and both keys are required")
	}
	if strings.TrimSpace(cfg.PublicBaseURL) == "" {
		return nil, errors.New("invalid storage configuration: public base URL is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, _ string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:           endpoint,
			SigningRegion: region,
		}, nil
	})

	sdkCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for storage: %w", err)
	}

	// MinIO и Supabase требуют path-style адресацию.
	s3Client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &s3Uploader{
		s3Client:      s3Client,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		bucketPrefix:  cfg.BucketPrefix,
	}, nil
}

func (u *s3Uploader) bucketName(bucket Bucket) string {
	return u.bucketPrefix + string(bucket)
}

func (u *s3Uploader) Upload(ctx context.Context, bucket Bucket, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	putObjectInput := &s3.PutObjectInput{
		Bucket:       aws.String(u.bucketName(bucket)),
		Key:          aws.String(key),
		Body:         reader,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
		IfNoneMatch:  aws.String("*"),
	}

	result, err := u.s3Client.PutObject(ctx, putObjectInput)
	if err != nil {
		if isPreconditionFailed(err) {
			return nil, fmt.Errorf("%w (bucket: %s, key: %s)", ErrObjectExists, bucket, key)
		}
		return nil, fmt.Errorf("failed to upload object (bucket: %s, key: %s): %w", bucket, key, err)
	}

	etag := ""
	if result.ETag != nil {
		// ETag от S3-совместимых API часто приходит в двойных кавычках, их нужно убрать.
		etag = strings.Trim(*result.ETag, "\"")
	}

	return &UploadResult{
		Bucket:   string(bucket),
		Key:      key,
		Location: u.GetPublicURL(bucket, key),
		ETag:     etag,
	}, nil
}

func (u *s3Uploader) Delete(ctx context.Context, bucket Bucket, key string) error {
	deleteObjectInput := &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucketName(bucket)),
		Key:    aws.String(key),
	}

	_, err := u.s3Client.DeleteObject(ctx, deleteObjectInput)
	if err != nil {
		return fmt.Errorf("failed to delete object (bucket: %s, key: %s): %w", bucket, key, err)
	}

	return nil
}

func (u *s3Uploader) GetPublicURL(bucket Bucket, key string) string {
	return PublicURL(u.publicBaseURL, u.bucketName(bucket), key)
}

// PublicURL joins base, bucket and key into an escaped object URL.
func PublicURL(base, bucket, key string) string {
	if base == "" || key == "" {
		return "" // Не можем сформировать URL без этих данных
	}
	baseURL, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
	if err != nil {
		return ""
	}
	ref := &url.URL{Path: bucket + "/" + strings.TrimPrefix(key, "/")}
	return baseURL.ResolveReference(ref).String()
}

// isPreconditionFailed распознаёт ответ 412 на IfNoneMatch: "*".
func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
