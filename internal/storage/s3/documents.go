package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"hotel/internal/domain"
	"hotel/internal/pkg/apperror"
)

const (
	pdfContentType     = "application/pdf"
	bucketCheckTimeout = 10 * time.Second
)

// DocumentStore keeps booking documents as objects under
// bookings/<booking id>/<document type> in a private bucket.
type DocumentStore struct {
	bucket string
	client *minio.Client
	logger *slog.Logger

	mu    sync.Mutex
	ready bool
}

func NewDocumentStore(endpoint string, useSSL bool, accessKey, secretKey, bucket string, logger *slog.Logger) (*DocumentStore, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	client, err := minio.New(parseEndpoint(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	return &DocumentStore{bucket: bucket, client: client, logger: logger}, nil
}

func (s *DocumentStore) Store(ctx context.Context, bookingID int64, docType domain.DocumentType, content []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	key := objectKey(bookingID, docType)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: pdfContentType,
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", key, err)
	}
	s.logger.Debug("document stored", "bucket", s.bucket, "key", key, "size", len(content))
	return nil
}

func (s *DocumentStore) Retrieve(ctx context.Context, bookingID int64, docType domain.DocumentType) ([]byte, error) {
	key := objectKey(bookingID, docType)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(key, err)
	}
	defer obj.Close()

	content, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError(key, err)
	}
	return content, nil
}

func (s *DocumentStore) Delete(ctx context.Context, bookingID int64, docType domain.DocumentType) error {
	key := objectKey(bookingID, docType)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return mapError(key, err)
	}
	return nil
}

// ensureBucket creates the bucket on first use. A failed check is retried by
// the next caller, and the check does not inherit the caller's cancellation.
func (s *DocumentStore) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bucketCheckTimeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("s3: check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("s3: create bucket: %w", err)
		}
		s.logger.Info("document bucket created", "bucket", s.bucket)
	}
	s.ready = true
	return nil
}

func objectKey(bookingID int64, docType domain.DocumentType) string {
	return fmt.Sprintf("bookings/%d/%s", bookingID, docType)
}

func mapError(key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("document %s: %w", key, apperror.ErrNotFound)
	}
	return fmt.Errorf("s3: %s: %w", key, err)
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}
