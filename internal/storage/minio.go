package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrMissingCredentials is returned when the storage client cannot be built
// because endpoint or credentials are not configured.
var ErrMissingCredentials = errors.New("missing storage credentials in environment variables")

// ClientOptions describes how to reach the object store.
type ClientOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

var (
	sharedMu     sync.Mutex
	sharedClient *minio.Client
)

// SharedClient returns the process-wide storage client, constructing it on
// first use. Later calls return the same instance and ignore opts. A failed
// construction is not cached.
func SharedClient(opts ClientOptions) (*minio.Client, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedClient != nil {
		return sharedClient, nil
	}

	client, err := NewClient(opts)
	if err != nil {
		return nil, err
	}
	sharedClient = client
	return sharedClient, nil
}

// NewClient builds an unshared storage client. No network calls are made;
// with Region set, presigning never needs a bucket-location lookup.
func NewClient(opts ClientOptions) (*minio.Client, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, ErrMissingCredentials
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return client, nil
}

// MinioStorage implements Presigner on top of a minio client for one bucket.
type MinioStorage struct {
	client func() (*minio.Client, error)
	bucket string
}

// NewMinioStorage returns a MinioStorage backed by the shared client. The
// client is not built until the first URL is requested.
func NewMinioStorage(opts ClientOptions, bucket string) *MinioStorage {
	return &MinioStorage{
		client: func() (*minio.Client, error) { return SharedClient(opts) },
		bucket: bucket,
	}
}

// NewMinioStorageWithClient wraps an existing client.
func NewMinioStorageWithClient(client *minio.Client, bucket string) *MinioStorage {
	return &MinioStorage{
		client: func() (*minio.Client, error) { return client, nil },
		bucket: bucket,
	}
}

// PresignPut signs a PUT for key. Content-Type is part of the signature, so
// the upload must send the same value.
func (s *MinioStorage) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	client, err := s.client()
	if err != nil {
		return "", err
	}

	headers := make(http.Header)
	headers.Set("Content-Type", contentType)

	u, err := client.PresignHeader(ctx, http.MethodPut, s.bucket, key, expiry, nil, headers)
	if err != nil {
		return "", fmt.Errorf("presign put %q: %w", key, err)
	}
	return u.String(), nil
}
