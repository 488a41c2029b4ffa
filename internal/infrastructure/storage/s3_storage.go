// Package storage keeps generated report files in S3, falling back to a
// local directory when S3 is disabled or an upload fails.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	infraconfig "github.com/fieldops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SpreadsheetContentType is the MIME type of .xlsx files
const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// s3API is the subset of the S3 client used here
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// presignAPI is the subset of the presign client used here
type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Storage stores objects under a folder of one bucket
type S3Storage struct {
	client            s3API
	presigner         presignAPI
	bucket            string
	folder            string
	baseURL           string
	presignExpiration time.Duration
}

// NewS3Storage creates an S3Storage from configuration. Static credentials
// are used when both keys are set; otherwise the default AWS chain applies.
func NewS3Storage(ctx context.Context, cfg *infraconfig.StorageConfig) (*S3Storage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	if cfg.Endpoint != "" {
		if _, err := url.Parse(cfg.Endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Storage{
		client:            client,
		presigner:         s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		folder:            cfg.Folder,
		baseURL:           objectBaseURL(cfg),
		presignExpiration: 15 * time.Minute,
	}, nil
}

// objectBaseURL is the public prefix objects of the bucket are reachable at
func objectBaseURL(cfg *infraconfig.StorageConfig) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Key returns the object key a file name is stored under
func (s *S3Storage) Key(name string) string {
	if s.folder == "" {
		return name
	}
	return path.Join(s.folder, name)
}

// Put uploads data and returns the object's URL
func (s *S3Storage) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if name == "" {
		return "", errors.New("object name is required")
	}
	key := s.Key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// Owns reports whether location is an object URL of this bucket
func (s *S3Storage) Owns(location string) bool {
	return strings.HasPrefix(location, s.baseURL+"/")
}

func (s *S3Storage) keyOf(location string) string {
	return strings.TrimPrefix(location, s.baseURL+"/")
}

// Link returns a time-limited download URL for an object URL of this bucket
func (s *S3Storage) Link(ctx context.Context, location string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.keyOf(location)),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return req.URL, nil
}

// Delete removes the object behind location
func (s *S3Storage) Delete(ctx context.Context, location string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.keyOf(location)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ReportStore puts report files in S3 when available and on local disk otherwise
type ReportStore struct {
	remote *S3Storage
	local  *LocalStorage
	logger *zap.Logger
}

// NewReportStore creates a ReportStore. remote may be nil.
func NewReportStore(remote *S3Storage, local *LocalStorage, logger *zap.Logger) *ReportStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportStore{remote: remote, local: local, logger: logger}
}

// Put stores a file and returns where it can be fetched from
func (s *ReportStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if s.remote != nil {
		location, err := s.remote.Put(ctx, name, data, SpreadsheetContentType)
		if err == nil {
			return location, nil
		}
		s.logger.Warn("S3 upload failed, storing report locally",
			zap.String("file", name),
			zap.Error(err),
		)
	}
	return s.local.Put(name, data)
}

// Link returns the URL a client is redirected to for an absolute location
func (s *ReportStore) Link(ctx context.Context, location string) (string, error) {
	if s.remote != nil && s.remote.Owns(location) {
		return s.remote.Link(ctx, location)
	}
	return location, nil
}

// Path resolves a local location to a file on disk
func (s *ReportStore) Path(location string) (string, error) {
	return s.local.Path(location)
}

// Delete removes a stored file. Unknown locations are ignored.
func (s *ReportStore) Delete(ctx context.Context, location string) error {
	switch {
	case s.remote != nil && s.remote.Owns(location):
		return s.remote.Delete(ctx, location)
	case s.local.Owns(location):
		return s.local.Delete(location)
	default:
		return nil
	}
}
