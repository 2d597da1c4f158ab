package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store keeps report documents in an S3-compatible bucket. A custom
// endpoint URL supports non-AWS providers.
type S3Store struct {
	client *s3.Client
	bucket string
	urlFmt string
}

func NewS3Store(cfg config.StorageConfig) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3Key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3Key, cfg.S3Secret, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3URL != "" {
			o.BaseEndpoint = aws.String(cfg.S3URL)
			o.UsePathStyle = true
		}
	})

	urlFmt := "s3://" + cfg.S3Bucket + "/%s"
	if cfg.S3URL != "" {
		urlFmt = cfg.S3URL + "/" + cfg.S3Bucket + "/%s"
	}

	return &S3Store{client: client, bucket: cfg.S3Bucket, urlFmt: urlFmt}, nil
}

func (s *S3Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}

	return fmt.Sprintf(s.urlFmt, name), nil
}

// Load downloads a document by the URL Save returned, or by a bare object
// key.
func (s *S3Store) Load(ctx context.Context, path string) ([]byte, error) {
	key := strings.TrimPrefix(path, fmt.Sprintf(s.urlFmt, ""))

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}
