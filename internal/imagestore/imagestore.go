// Package imagestore uploads profile, restaurant, and menu images to
// S3-compatible object storage. Clients submit images as base64 data URLs;
// the store returns a public URL to persist on the record.
package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	PublicURL string
}

type Store struct {
	cfg    Config
	client s3Client
}

func New(cfg Config) *Store {
	st := &Store{cfg: cfg}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		st.client = newS3Client(cfg)
	}
	return st
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Configured returns true if the store can accept uploads.
func (s *Store) Configured() bool {
	return s.client != nil
}

// IsDataURL reports whether the value is an inline base64 image rather
// than an already-uploaded URL.
func IsDataURL(v string) bool {
	return strings.HasPrefix(v, "data:image/")
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// decodeDataURL splits "data:image/png;base64,..." into content type and
// raw bytes.
func decodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	contentType, _, _ := strings.Cut(meta, ";")
	if _, known := extensions[contentType]; !known {
		return "", nil, fmt.Errorf("unsupported image type %q", contentType)
	}
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("data URL is not base64 encoded")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}
	return contentType, raw, nil
}

// Upload stores a data-URL image under the given prefix and returns its
// public URL.
func (s *Store) Upload(ctx context.Context, prefix, dataURL string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("image store not configured")
	}

	contentType, raw, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.%s", prefix, uuid.NewString(), extensions[contentType])
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put image: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.cfg.PublicURL, "/"), key), nil
}
