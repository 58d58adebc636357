// Package objectstore uploads user files to S3-compatible object storage.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/config"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
)

// AvatarPrefix is the key prefix for uploaded avatars.
const AvatarPrefix = "avatars"

// ErrEmptyFilename is returned when an object key cannot be derived.
var ErrEmptyFilename = errors.New("filename cannot be empty")

// Uploader stores an object and returns its public URL. The body must be
// seekable and size must be its exact length in bytes: S3-compatible servers
// reached over plain HTTP need both to sign and checksum the payload.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements Uploader on an S3 bucket.
type S3Store struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	logger  *slog.Logger
}

var _ Uploader = (*S3Store)(nil)

// New creates an S3Store. Static credentials are used when both keys are
// set; otherwise the default AWS credential chain applies. A custom
// endpoint switches to path-style addressing for MinIO-like servers.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg, logger), nil
}

func newS3Store(client putObjectAPI, cfg config.StorageConfig, logger *slog.Logger) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
		logger:  logger.With(slog.String("component", "object_store")),
	}
}

func publicBaseURL(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Upload implements Uploader. Objects are written publicly readable.
func (s *S3Store) Upload(
	ctx context.Context,
	key string,
	body io.ReadSeeker,
	size int64,
	contentType string,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		log.Error("failed to upload object",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Info("object uploaded", slog.String("key", key), slog.Int64("size", size))
	return s.baseURL + "/" + key, nil
}

// AvatarKey builds a collision-free key for an uploaded avatar:
// avatars/<random hex>_<base filename>.
func AvatarKey(filename string) (string, error) {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		if r == ' ' {
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." || base == "/" {
		return "", ErrEmptyFilename
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s/%s_%s", AvatarPrefix, id, base), nil
}
