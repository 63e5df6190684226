package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dkovalev/accountd/internal/common"
	"github.com/dkovalev/accountd/internal/server/config"
	"github.com/dkovalev/accountd/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func stubPresign(t *testing.T, putURL, getURL string, presignErr error) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: putURL}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: getURL}, nil
	}
}

func newAvatarFixture(t *testing.T) (*AccountService, *AvatarService) {
	t.Helper()
	cfg := &config.Config{BcryptCost: bcrypt.MinCost, S3Bucket: "avatars"}
	repos := repomanager.NewInMemoryRepositoryManager()
	return NewAccountService(repos, cfg), NewAvatarService(repos, cfg)
}

func TestPresignUpload(t *testing.T) {
	stubPresign(t, "https://s3.test/put", "https://s3.test/get", nil)
	accounts, avatars := newAvatarFixture(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "test@example.com", "testpass123", "Test Name")
	require.NoError(t, err)

	key, url, err := avatars.PresignUpload(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/put", url)
	assert.NotEmpty(t, key)

	// key is persisted on the user
	refreshed, err := accounts.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, key, refreshed.AvatarKey)
}

func TestPresignUpload_KeysDiffer(t *testing.T) {
	stubPresign(t, "https://s3.test/put", "https://s3.test/get", nil)
	accounts, avatars := newAvatarFixture(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "test@example.com", "testpass123", "")
	require.NoError(t, err)

	key1, _, err := avatars.PresignUpload(ctx, user)
	require.NoError(t, err)
	key2, _, err := avatars.PresignUpload(ctx, user)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2, "re-upload must pick a fresh key")
}

func TestDownloadURL(t *testing.T) {
	stubPresign(t, "https://s3.test/put", "https://s3.test/get", nil)
	accounts, avatars := newAvatarFixture(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "test@example.com", "testpass123", "")
	require.NoError(t, err)

	// no avatar yet
	_, err = avatars.DownloadURL(ctx, user)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, _, err = avatars.PresignUpload(ctx, user)
	require.NoError(t, err)

	url, err := avatars.DownloadURL(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/get", url)
}

func TestPresignUpload_Error(t *testing.T) {
	stubPresign(t, "", "", errors.New("presign failed"))
	accounts, avatars := newAvatarFixture(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "test@example.com", "testpass123", "")
	require.NoError(t, err)

	_, _, err = avatars.PresignUpload(ctx, user)
	assert.Error(t, err)
}
