// Package s3blob implements remote.BlobStore on S3-compatible object
// storage (AWS S3, MinIO). Download URLs are either built from a public base
// URL or presigned GET URLs.
package s3blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the object storage settings.
//
// Fields:
//   - Bucket / Region / BaseEndpoint: where objects go. BaseEndpoint is
//     optional for AWS and required for MinIO-style deployments.
//   - AccessKey / SecretKey: static credentials; when empty the default AWS
//     credential chain is used.
//   - PublicBaseURL: when set, download URLs are PublicBaseURL/<path>
//     instead of presigned URLs.
//   - PresignExpiry: lifetime of presigned download URLs.
type Config struct {
	Bucket        string
	Region        string
	BaseEndpoint  string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	PresignExpiry time.Duration
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Store uploads and deletes objects in one bucket.
type Store struct {
	objects objectAPI
	presign presignAPI
	cfg     Config
}

// New builds an S3 client from cfg.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3blob: bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3blob: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newStore(client, s3.NewPresignClient(client), cfg), nil
}

func newStore(objects objectAPI, presign presignAPI, cfg Config) *Store {
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 7 * 24 * time.Hour
	}
	return &Store{objects: objects, presign: presign, cfg: cfg}
}

// ContentType guesses the MIME type from the object path extension.
func ContentType(p string) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Put uploads data to p and returns its download URL.
func (s *Store) Put(ctx context.Context, p string, data []byte) (string, error) {
	_, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(p),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(ContentType(p)),
	})
	if err != nil {
		return "", fmt.Errorf("s3blob: put %s: %w", p, err)
	}

	u, err := s.downloadURL(ctx, p)
	if err != nil {
		return "", err
	}
	return u, nil
}

// Delete removes the object at p.
func (s *Store) Delete(ctx context.Context, p string) error {
	_, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		return fmt.Errorf("s3blob: delete %s: %w", p, err)
	}
	return nil
}

func (s *Store) downloadURL(ctx context.Context, p string) (string, error) {
	if s.cfg.PublicBaseURL != "" {
		u, err := url.JoinPath(strings.TrimRight(s.cfg.PublicBaseURL, "/"), strings.Split(p, "/")...)
		if err != nil {
			return "", fmt.Errorf("s3blob: public url for %s: %w", p, err)
		}
		return u, nil
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(p),
	}, s3.WithPresignExpires(s.cfg.PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("s3blob: presign %s: %w", p, err)
	}
	return req.URL, nil
}
