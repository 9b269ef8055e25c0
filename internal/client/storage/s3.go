package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
)

// objectAPI is the part of *s3.Client the store uses.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newObjectAPI = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

func parseS3(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", err
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("%w: %s: missing bucket", ErrUnsupported, ref)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

func (s *Store) objectClient(ctx context.Context) (objectAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.objects != nil {
		return s.objects, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if s.s3cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.s3cfg.Region))
	}
	if s.s3cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.s3cfg.AccessKey, s.s3cfg.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	s.objects = newObjectAPI(cfg, func(o *s3.Options) {
		if s.s3cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.s3cfg.Endpoint)
		}
		o.UsePathStyle = s.s3cfg.UsePathStyle
	})
	return s.objects, nil
}

func (s *Store) readS3(ctx context.Context, ref string) (models.Source, error) {
	bucket, key, err := parseS3(ref)
	if err != nil {
		return models.Source{}, err
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return models.Source{}, fmt.Errorf("%w: %s: missing object key", ErrUnsupported, ref)
	}

	api, err := s.objectClient(ctx)
	if err != nil {
		return models.Source{}, err
	}

	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return models.Source{}, fmt.Errorf("get %s: %w", ref, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return models.Source{}, fmt.Errorf("read %s: %w", ref, err)
	}

	return models.Source{
		Name:      path.Base(key),
		MediaType: aws.ToString(out.ContentType),
		Data:      data,
	}, nil
}

func (s *Store) writeS3(ctx context.Context, ref string, a models.Artifact) (string, error) {
	bucket, key, err := parseS3(ref)
	if err != nil {
		return "", err
	}
	if key == "" || strings.HasSuffix(key, "/") {
		key += a.Name
	}

	api, err := s.objectClient(ctx)
	if err != nil {
		return "", err
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(a.Data),
	}
	if a.MediaType != "" {
		in.ContentType = aws.String(a.MediaType)
	}

	if _, err := api.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return "s3://" + bucket + "/" + key, nil
}
