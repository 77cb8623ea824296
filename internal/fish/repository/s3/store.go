package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	fisherrors "fishtank/internal/fish/errors"
	"fishtank/internal/fish/repository"
)

const (
	DescriptorName = "info"
	DefaultRegion  = "us-east-1"
	contentType    = "application/json"
)

// Config holds explicit construction parameters. Credentials come from the
// default AWS chain (env, shared config, instance role).
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. a MinIO URL
	Prefix    string
	PathStyle bool
}

// Store keeps each record as the object <prefix><id>/info in one bucket.
// Create relies on conditional writes (If-None-Match: *), so the target
// must support them.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ repository.FishRepository = (*Store)(nil)

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewWithClient(client *s3.Client, bucket, prefix string) *Store {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) Driver() repository.Driver { return repository.DriverS3 }

func (s *Store) key(id string) string {
	return s.prefix + id + "/" + DescriptorName
}

func (s *Store) Location(id string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key(id))
}

func (s *Store) Create(ctx context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		switch statusCode(err) {
		case http.StatusPreconditionFailed, http.StatusConflict:
			return fmt.Errorf("%w: %s", fisherrors.ErrAlreadyExists, id)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
		}
		return fmt.Errorf("failed to put fish object: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	return s.read(ctx, id)
}

func (s *Store) read(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get fish object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read fish object: %w", err)
	}
	return data, nil
}

func (s *Store) exists(ctx context.Context, id string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
		}
		return fmt.Errorf("failed to head fish object: %w", err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put fish object: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete fish object: %w", err)
	}
	return nil
}

// List pages through the prefix and fetches every <id>/info object. Objects
// at other depths or under hidden ids are ignored.
func (s *Store) List(ctx context.Context) ([]repository.Entry, error) {
	var ids []string
	pager := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
		}
		for _, obj := range page.Contents {
			id, file, ok := strings.Cut(strings.TrimPrefix(aws.ToString(obj.Key), s.prefix), "/")
			if !ok || file != DescriptorName || id == "" || strings.HasPrefix(id, ".") {
				continue
			}
			ids = append(ids, id)
		}
	}

	entries := make([]repository.Entry, 0, len(ids))
	for _, id := range ids {
		data, err := s.read(ctx, id)
		if errors.Is(err, fisherrors.ErrNotFound) {
			continue
		}
		entries = append(entries, repository.Entry{ID: id, Data: data, Err: err})
	}
	return entries, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

func statusCode(err error) int {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}
