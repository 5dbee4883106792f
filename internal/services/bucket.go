package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/brightfold/content-backend/internal/pkg/logger"
	"github.com/brightfold/content-backend/internal/utils"
)

// BucketService is the object-storage collaborator: durable manifest and
// content documents plus time-limited download URLs. Signing mechanics
// stay behind this interface.
type BucketService interface {
	UploadJSON(ctx context.Context, key string, v any) (int64, error)
	DownloadJSON(ctx context.Context, key string, v any) error
	SignedURL(key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")
	bucket := utils.GetEnv("GCS_BUCKET_NAME", "", log)
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	saPath := utils.GetEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "", log)

	ctx := context.Background()
	var stClient *storage.Client
	var err error
	if saPath != "" {
		stClient, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadWrite))
	} else {
		stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    bucket,
	}, nil
}

func (bs *bucketService) UploadJSON(ctx context.Context, key string, v any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	raw, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("marshal object for %q: %w", key, err)
	}

	w := bs.storageClient.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("write %q to bucket: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close bucket writer for %q: %w", key, err)
	}
	return int64(len(raw)), nil
}

func (bs *bucketService) DownloadJSON(ctx context.Context, key string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Minute)
	defer cancel()

	r, err := bs.storageClient.Bucket(bs.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("open %q from bucket: %w", key, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %q from bucket: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) SignedURL(key string, ttl time.Duration) (string, error) {
	url, err := bs.storageClient.Bucket(bs.bucketName).SignedURL(key, &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("sign url for %q: %w", key, err)
	}
	return url, nil
}

func (bs *bucketService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(bs.bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete bucket object %q: %w", key, err)
	}
	return nil
}
