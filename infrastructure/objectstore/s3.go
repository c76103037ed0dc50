// Package objectstore provides the durable cold tier for share records,
// backed by S3-compatible object storage (AWS S3 or MinIO).
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"post-archiver/domain/model"
	"post-archiver/domain/repository"
	"post-archiver/infrastructure/configuration"
	"post-archiver/infrastructure/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3ShareStore persists share records as JSON objects under a key prefix.
type S3ShareStore struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ repository.IShareColdStore = &S3ShareStore{}

// NewS3ShareStore builds the cold-tier client from the ColdStore config
// section. Endpoint is optional and only set for S3-compatible stores.
func NewS3ShareStore(ctx context.Context, cs configuration.ColdStore) (*S3ShareStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cs.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cs.AccessKey,
			cs.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if cs.Endpoint != "" {
			o.BaseEndpoint = aws.String(cs.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ShareStore{client: client, bucket: cs.Bucket, prefix: cs.Prefix}, nil
}

func (s *S3ShareStore) key(id string) string {
	return path.Join(s.prefix, "shares", id+".json")
}

func (s *S3ShareStore) Put(ctx context.Context, rec *model.ShareRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := s.key(rec.ID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("cold store put %s: %w", key, err)
	}
	logger.GetLogger().WithField("key", key).Debug("Share persisted to cold tier")
	return nil
}

func (s *S3ShareStore) Get(ctx context.Context, id string) (*model.ShareRecord, error) {
	key := s.key(id)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, &model.NotFoundError{Resource: "share", ID: id}
		}
		return nil, fmt.Errorf("cold store get %s: %w", key, err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("cold store read %s: %w", key, err)
	}
	var rec model.ShareRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("cold store decode %s: %w", key, err)
	}
	return &rec, nil
}

func (s *S3ShareStore) Delete(ctx context.Context, id string) error {
	key := s.key(id)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("cold store delete %s: %w", key, err)
	}
	return nil
}
