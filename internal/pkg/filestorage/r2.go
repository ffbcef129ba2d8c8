package filestorage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/logger"
)

// R2Region is the region name Cloudflare R2 expects from S3 clients
const R2Region = "auto"

// ObjectAPI is the subset of the S3 client used by R2Storage
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// PresignAPI is the subset of the S3 presign client used by R2Storage
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// R2Config holds the connection settings for an R2 bucket
type R2Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// PublicURL is returned by URL. Empty means keys are served through the API file proxy.
	PublicURL string
}

// R2Storage stores files in a Cloudflare R2 bucket through the S3 API.
type R2Storage struct {
	bucket    string
	publicURL string
	objects   ObjectAPI
	presigner PresignAPI
}

// NewR2Storage builds an S3 client pointed at the R2 endpoint.
func NewR2Storage(ctx context.Context, cfg R2Config) (*R2Storage, error) {
	if cfg.Bucket == "" || cfg.Endpoint == "" {
		return nil, errors.New("r2 bucket and endpoint are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(R2Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load r2 client config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	logger.Info().Str("bucket", cfg.Bucket).Str("endpoint", cfg.Endpoint).Msg("R2 storage configured")
	return NewR2StorageWithClients(cfg.Bucket, cfg.PublicURL, client, s3.NewPresignClient(client)), nil
}

// NewR2StorageWithClients wires R2Storage to existing clients.
func NewR2StorageWithClients(bucket, publicURL string, objects ObjectAPI, presigner PresignAPI) *R2Storage {
	return &R2Storage{
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		objects:   objects,
		presigner: presigner,
	}
}

// Save uploads the file to the bucket under prefix
func (rs *R2Storage) Save(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, apperrors.ErrFileRequired
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	contentType := DetectContentType(fileHeader, file)
	key := NewKey(prefix, fileHeader.Filename)

	_, err = rs.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(rs.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(fileHeader.Size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to upload object to R2")
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Int64("size", fileHeader.Size).Msg("Object uploaded")
	return &StoredFile{
		Key:         key,
		URL:         rs.URL(key),
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: contentType,
	}, nil
}

// Delete removes the object. S3 delete is idempotent.
func (rs *R2Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	key, err := NormalizeKey(key, rs.publicURL)
	if err != nil {
		return err
	}

	if _, err := rs.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(rs.bucket),
		Key:    aws.String(key),
	}); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to delete object from R2")
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PresignGet checks the object exists and returns a presigned GET URL valid for ttl
func (rs *R2Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	_, err := rs.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(rs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noKey) {
			return "", apperrors.ErrFileNotFound
		}
		return "", fmt.Errorf("failed to head object: %w", err)
	}

	req, err := rs.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(rs.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}
	return req.URL, nil
}

// URL returns the public bucket URL when one is configured, else the API proxy path
func (rs *R2Storage) URL(key string) string {
	if rs.publicURL == "" {
		return "/api/v1/files/" + key
	}
	return rs.publicURL + "/" + key
}
