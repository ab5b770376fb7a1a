package adapter

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Key prefixes under which uploads are stored. KeyFromURL only accepts keys
// below one of them.
const (
	AvatarPrefix   = "avatars"
	DocumentPrefix = "vendor-files"
)

var managedPrefixes = []string{AvatarPrefix + "/", DocumentPrefix + "/"}

// s3API is the subset of *s3.Client used by the adapter.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type s3ObjectStorage struct {
	client    s3API
	bucket    string
	publicURL string
	timeout   time.Duration
	logger    *logger.Logger
}

// NewS3ObjectStorage constructs an [ObjectStorage] over an S3-compatible
// bucket. A non-empty cfg.Endpoint switches the client to path-style
// addressing against that endpoint, which is what MinIO expects.
func NewS3ObjectStorage(ctx context.Context, cfg config.Objects, logger *logger.Logger) (ObjectStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3ObjectStorage(client, cfg, logger), nil
}

func newS3ObjectStorage(client s3API, cfg config.Objects, logger *logger.Logger) *s3ObjectStorage {
	return &s3ObjectStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Upload implements [ObjectStorage]. The key is prefix, a fresh UUID and the
// extension of the original file name.
func (s *s3ObjectStorage) Upload(ctx context.Context, prefix string, file models.Upload) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := objectKey(prefix, file.Filename)

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file.Body,
	}
	if file.ContentType != "" {
		in.ContentType = aws.String(file.ContentType)
	}
	if file.Size > 0 {
		in.ContentLength = aws.Int64(file.Size)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUploadFailed, key, err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "s3ObjectStorage.Upload").
		Str("key", key).
		Msg("object uploaded")

	return s.publicURL + "/" + key, nil
}

// DeleteObjects implements [ObjectStorage].
func (s *s3ObjectStorage) DeleteObjects(ctx context.Context, urls []string) error {
	objects := make([]types.ObjectIdentifier, 0, len(urls))
	for _, u := range urls {
		if key, ok := s.KeyFromURL(u); ok {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}
	}
	if len(objects) == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	if out != nil && len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("%w: %d of %d objects: %s: %s", ErrDeleteFailed,
			len(out.Errors), len(objects), aws.ToString(first.Key), aws.ToString(first.Message))
	}

	return nil
}

// KeyFromURL implements [ObjectStorage].
func (s *s3ObjectStorage) KeyFromURL(url string) (string, bool) {
	key, found := strings.CutPrefix(url, s.publicURL+"/")
	if !found || key == "" {
		return "", false
	}
	for _, prefix := range managedPrefixes {
		if strings.HasPrefix(key, prefix) {
			return key, true
		}
	}
	return "", false
}

func (s *s3ObjectStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func objectKey(prefix, filename string) string {
	return strings.TrimRight(prefix, "/") + "/" + utils.NewID() + strings.ToLower(path.Ext(filename))
}
