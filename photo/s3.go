// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/danielhkuo/calon-vote/models"
)

// S3Store keeps photos in an S3 bucket
type S3Store struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
}

// NewS3 builds a client for region. ACCESS_KEY_ID and SECRET_ACCESS_KEY are
// used when both are set; otherwise the SDK default chain applies.
func NewS3(bucket, region string) (*S3Store, error) {
	config := aws.Config{Region: aws.String(region)}
	if id, secret := os.Getenv("ACCESS_KEY_ID"), os.Getenv("SECRET_ACCESS_KEY"); id != "" && secret != "" {
		config.Credentials = credentials.NewStaticCredentials(id, secret, "")
	}

	sess, err := session.NewSession(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &S3Store{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
	}, nil
}

func (s *S3Store) Name() string { return "s3" }

func (s *S3Store) Put(ctx context.Context, id models.CandidateID, data []byte, contentType string, maxSize int64) (Handle, error) {
	contentType, err := check(id, data, contentType, maxSize)
	if err != nil {
		return Handle{}, err
	}

	key := ObjectKey(id)
	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return Handle{}, fmt.Errorf("failed to send %s to bucket %s: %w", key, s.bucket, err)
	}

	return Handle{Key: key}, nil
}

func (s *S3Store) Open(ctx context.Context, id models.CandidateID) (io.ReadCloser, string, error) {
	if !id.Valid() {
		return nil, "", fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, string(id))
	}

	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(id)),
	})
	var aerr awserr.Error
	if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", ObjectKey(id), err)
	}

	contentType := aws.StringValue(out.ContentType)
	if contentType == "" {
		contentType = DefaultContentType
	}
	return out.Body, contentType, nil
}

// Delete relies on S3 treating a missing key as a successful delete
func (s *S3Store) Delete(ctx context.Context, id models.CandidateID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidIdentifier, string(id))
	}

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", ObjectKey(id), err)
	}
	return nil
}
