package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dkovalev/accountd/internal/common"
	sc "github.com/dkovalev/accountd/internal/server/config"
	"github.com/dkovalev/accountd/internal/server/models"
	"github.com/dkovalev/accountd/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Test seams for the AWS client plumbing.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignValidity = 15 * time.Minute

// AvatarService hands out presigned S3 URLs for profile avatars. Clients
// upload directly to object storage; only the storage key goes through the
// database.
type AvatarService struct {
	repos  repomanager.RepositoryManager
	config *sc.Config
}

func NewAvatarService(repos repomanager.RepositoryManager, config *sc.Config) *AvatarService {
	return &AvatarService{
		repos:  repos,
		config: config,
	}
}

func avatarStorageKey(userID int64) string {
	return fmt.Sprintf("avatars/%d/%v", userID, uuid.New())
}

func (s *AvatarService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// PresignUpload picks a fresh storage key for the user's avatar, records it
// on the user row, and returns the key with a presigned PUT URL.
func (s *AvatarService) PresignUpload(ctx context.Context, user *models.User) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := avatarStorageKey(user.ID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", "", err
	}

	user.AvatarKey = key
	if err := s.repos.Users(s.repos.DB()).Update(ctx, user); err != nil {
		return "", "", fmt.Errorf("error saving avatar key: %w", err)
	}

	return key, req.URL, nil
}

// DownloadURL returns a presigned GET URL for the user's current avatar, or
// common.ErrorNotFound when none has been uploaded.
func (s *AvatarService) DownloadURL(ctx context.Context, user *models.User) (string, error) {
	if user.AvatarKey == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &user.AvatarKey,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
