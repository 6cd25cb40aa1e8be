package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/afiliados/afiliados-go/internal/config"
)

// objectAPI is the subset of *s3.Client the store needs.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps photos in an S3-compatible bucket (AWS or MinIO).
type S3Store struct {
	client  objectAPI
	bucket  string
	prefix  string
	baseURL string
}

// NewS3Store builds an S3 client from static credentials. When cfg.Endpoint is
// set the client talks path-style to that endpoint, which is what MinIO expects.
func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		baseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return newS3Store(client, cfg.Bucket, cfg.Prefix, baseURL), nil
}

func newS3Store(client objectAPI, bucket, prefix, baseURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, baseURL: baseURL}
}

// Save uploads body under prefix+name, or under a suffixed variant when that
// key already exists. Existing objects are never replaced. It returns the name
// the photo was stored under.
func (s *S3Store) Save(ctx context.Context, name string, body io.Reader) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}

	rs, ok := body.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		rs = bytes.NewReader(b)
	}

	for _, candidate := range candidateNames(name) {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewind %s: %w", name, err)
		}
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.key(candidate)),
			Body:        rs,
			IfNoneMatch: aws.String("*"),
		})
		if err == nil {
			return candidate, nil
		}
		if !isKeyTaken(err) {
			return "", fmt.Errorf("put object %s: %w", candidate, err)
		}
	}
	return "", ErrNameTaken
}

// isKeyTaken reports whether a conditional put lost because the key exists.
func isKeyTaken(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}

// Delete removes prefix+name. S3 treats deleting a missing key as success.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", name, err)
	}
	return nil
}

// URL is the public object URL; the bucket must allow anonymous reads for it to load.
func (s *S3Store) URL(name string) string {
	return s.baseURL + "/" + s.prefix + url.PathEscape(name)
}

func (s *S3Store) key(name string) string {
	return s.prefix + name
}
