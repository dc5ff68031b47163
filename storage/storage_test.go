package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBucket(t *testing.T) {
	b, err := ParseBucket("TEAM_LOGOS")
	require.NoError(t, err)
	assert.Equal(t, BucketTeamLogos, b)

	b, err = ParseBucket("match-screenshots")
	require.NoError(t, err)
	assert.Equal(t, BucketMatchScreenshots, b)

	_, err = ParseBucket("avatars")
	assert.ErrorIs(t, err, ErrUnknownBucket)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/team-logos/rrq.png", PublicURL("https://cdn.example.com/", "team-logos", "rrq.png"))
	assert.Equal(t,
		"https://xyz.supabase.co/storage/v1/object/public/hero-images/a%20b.png",
		PublicURL("https://xyz.supabase.co/storage/v1/object/public", "hero-images", "a b.png"))
	assert.Empty(t, PublicURL("", "team-logos", "rrq.png"))
}

func TestIsPreconditionFailed(t *testing.T) {
	err := fmt.Errorf("put: %w", &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"})
	assert.True(t, isPreconditionFailed(err))
	assert.False(t, isPreconditionFailed(errors.New("connection reset")))
}

func TestDisabledUploader(t *testing.T) {
	u := NewDisabledUploader()
	_, err := u.Upload(context.Background(), BucketTeamLogos, "x.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, u.Delete(context.Background(), BucketTeamLogos, "x.png"), ErrNotConfigured)
}

func TestNewS3UploaderRequiresCredentials(t *testing.T) {
	_, err := NewS3Uploader(S3UploaderConfig{AccountID: "acc"})
	assert.Error(t, err)

	// без публичного адреса некуда вести ссылки на загруженные файлы
	_, err = NewS3Uploader(S3UploaderConfig{AccountID: "acc", AccessKeyID: "key", SecretAccessKey: "secret"})
	assert.Error(t, err)

	up, err := NewS3Uploader(S3UploaderConfig{
		AccountID:       "acc",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		PublicBaseURL:   "https://cdn.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/team-logos/1/x.png", up.GetPublicURL(BucketTeamLogos, "1/x.png"))
}
