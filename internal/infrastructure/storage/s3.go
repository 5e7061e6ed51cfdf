package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// objectAPI is the subset of *s3.Client the store calls.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options configures the bucket connection. Endpoint is optional and
// switches the client to path-style addressing (MinIO and friends).
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Store keeps image bytes in a bucket, keyed by a random object key.
type S3Store struct {
	client objectAPI
	bucket string
	now    func() time.Time
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, opts.Bucket), nil
}

func newS3Store(client objectAPI, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket, now: time.Now}
}

func (s *S3Store) objectKey(ext string) string {
	d := s.now().UTC()
	key := fmt.Sprintf("profiles/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.New())
	if ext != "" {
		key += "." + ext
	}
	return key
}

func (s *S3Store) Put(ctx context.Context, img *domain.ProfileImage, data []byte) error {
	key := s.objectKey(img.Extension)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(img.ContentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	img.ObjectKey = key
	img.Data = nil
	return nil
}

func (s *S3Store) Get(ctx context.Context, img *domain.ProfileImage) ([]byte, error) {
	if img.ObjectKey == "" {
		return nil, ErrNoImageData
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(img.ObjectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", img.ObjectKey, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", img.ObjectKey, err)
	}
	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, img *domain.ProfileImage) error {
	if img.ObjectKey == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(img.ObjectKey),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", img.ObjectKey, err)
	}
	return nil
}
