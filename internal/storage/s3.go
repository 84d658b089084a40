// Package storage provides the object-storage capability used by the upload
// path. Handlers depend on the ObjectStorage interface; the S3 client is the
// only production implementation.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStorage stores a blob under a key and returns a retrievable URL.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// putObjectAPI is the slice of the S3 client the store needs; tests inject a
// fake instead of a real client.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads objects to a single S3 bucket.
type S3Store struct {
	api    putObjectAPI
	bucket string
	region string
}

var _ ObjectStorage = (*S3Store)(nil)

// NewS3Store builds an S3-backed store from static credentials.
func NewS3Store(ctx context.Context, accessKey, secretKey, region, bucket string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{api: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

// NewS3StoreWithAPI allows injecting a mockable API (used in tests).
func NewS3StoreWithAPI(api putObjectAPI, region, bucket string) *S3Store {
	return &S3Store{api: api, bucket: bucket, region: region}
}

// Put uploads the object and returns its public URL.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
