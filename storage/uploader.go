package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrObjectExists возвращается, когда объект с таким ключом уже есть в бакете.
	ErrObjectExists  = errors.New("object already exists")
	ErrNotConfigured = errors.New("storage is not configured")
)

type UploadResult struct {
	Bucket   string
	Key      string
	Location string
	ETag     string
}

// FileUploader stores objects in named buckets. Upload never overwrites an
// existing key.
type FileUploader interface {
	Upload(ctx context.Context, bucket Bucket, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, bucket Bucket, key string) error

	GetPublicURL(bucket Bucket, key string) string
}

// disabledUploader отвечает ErrNotConfigured на любые операции записи.
type disabledUploader struct{}

// NewDisabledUploader is used when no storage credentials are configured.
// Only uploads and deletes fail; the rest of the API keeps working.
func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, Bucket, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrNotConfigured
}

func (disabledUploader) Delete(context.Context, Bucket, string) error {
	return ErrNotConfigured
}

func (disabledUploader) GetPublicURL(Bucket, string) string {
	return ""
}
