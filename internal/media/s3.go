package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
)

// ObjectPutter is the slice of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Options struct {
	Bucket          string
	Region          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL overrides the virtual-hosted bucket URL, e.g. a CDN.
	PublicBaseURL string
	MaxSize       int64
}

// S3Uploader stores files in a public S3 bucket.
type S3Uploader struct {
	client  ObjectPutter
	opts    S3Options
	baseURL string
}

func NewS3Uploader(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return NewS3UploaderWithClient(s3.NewFromConfig(cfg), opts), nil
}

func NewS3UploaderWithClient(client ObjectPutter, opts S3Options) *S3Uploader {
	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	}
	return &S3Uploader{
		client:  client,
		opts:    opts,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (u *S3Uploader) Upload(ctx context.Context, f File) (string, error) {
	if err := Sniff(&f, u.opts.MaxSize); err != nil {
		return "", err
	}

	key := path.Join(u.opts.Prefix, strings.ToLower(ulid.Make().String())+f.Ext())
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(f.Data),
		ContentType: aws.String(f.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object: %v", ErrUploadFailed, err)
	}

	url := u.baseURL + "/" + key
	slog.Info("uploaded image", "file", f.Name, "bucket", u.opts.Bucket, "url", url)
	return url, nil
}
