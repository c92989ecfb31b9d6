package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"modelreports/internal/config"
)

// S3Store - S3-compatible backend issuing presigned GET URLs.
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	httpClient    *http.Client
	bucket        string
	expiry        time.Duration
}

// NewS3Store creates an S3Store. Explicit keys in c take precedence over the
// default AWS credential chain; a custom endpoint switches to path-style addressing.
func NewS3Store(ctx context.Context, c *config.Config) (*S3Store, error) {
	optFns := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.S3Region),
	}
	if c.S3AccessKeyID != "" && c.S3SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(c.S3AccessKeyID, c.S3SecretKey, "")
		optFns = append(optFns, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if c.S3Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.S3Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	return &S3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		httpClient:    &http.Client{},
		bucket:        c.S3Bucket,
		expiry:        c.SASExpiry,
	}, nil
}

// SignedURL presigns a GetObject request for blobPath.
func (s *S3Store) SignedURL(ctx context.Context, blobPath string) (SignedURL, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobPath),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", blobPath, err)
	}
	return SignedURL(req.URL), nil
}

// Download performs a GET on the presigned URL.
func (s *S3Store) Download(ctx context.Context, u SignedURL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(u), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", u, redact(err, u))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", u, redact(err, u))
	}

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download %s: %w", u, ErrBlobNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %s", u, resp.Status)
	}
	return resp.Body, nil
}

// Ping checks that the bucket is reachable.
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
