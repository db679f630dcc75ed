// Package storage issues write URLs against S3-compatible object storage.
// The MinIO client works with any S3-compatible provider (Cloudflare R2, MinIO, AWS S3);
// switching providers is a matter of endpoint and credentials.
package storage

import (
	"context"
	"time"
)

// Presigner creates time-limited write URLs for single objects.
type Presigner interface {
	// PresignPut returns a URL that authorizes one PUT of key with the given
	// Content-Type until expiry elapses.
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
}
