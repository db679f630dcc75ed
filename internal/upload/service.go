// Package upload issues presigned write URLs to guests holding the event code.
package upload

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/guestdrop/service/internal/apperr"
	"github.com/guestdrop/service/internal/config"
	"github.com/guestdrop/service/internal/logger"
	"github.com/guestdrop/service/internal/storage"
)

// URLExpiry is how long an issued write URL stays valid.
const URLExpiry = 60 * time.Second

// Request is the body of POST /api/upload-url.
type Request struct {
	FileName    string `json:"fileName"    validate:"required" example:"IMG_0042.jpg"`
	ContentType string `json:"contentType" validate:"required" example:"image/jpeg"`
	EventCode   string `json:"eventCode"   validate:"required" example:"party2026"`
}

// SignedURL is a write-only URL bound to exactly one object key.
type SignedURL struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"-"`
}

// Service validates upload requests and mints write URLs.
type Service struct {
	presigner storage.Presigner
	cfg       *config.Config
	log       *logger.Logger
	validate  *validator.Validate

	now   func() time.Time
	newID func() string
}

// NewService creates a new upload Service.
func NewService(presigner storage.Presigner, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		presigner: presigner,
		cfg:       cfg,
		log:       log,
		validate:  validator.New(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// IssueURL checks req against the configured event code and returns a write
// URL for a freshly namespaced key.
func (s *Service) IssueURL(ctx context.Context, req Request) (*SignedURL, error) {
	log := s.log.WithContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Validation("Missing required fields: fileName, contentType, eventCode")
	}

	if s.cfg.UploadSecret == "" {
		log.Error("UPLOAD_SECRET not configured")
		return nil, apperr.Config("Server configuration error: UPLOAD_SECRET not set")
	}
	if s.cfg.StorageBucket == "" {
		log.Error("R2_BUCKET not configured")
		return nil, apperr.Config("Server configuration error")
	}

	if !IsAllowedContentType(req.ContentType) {
		return nil, apperr.Validation("Only image and video files are allowed")
	}

	if !codesMatch(req.EventCode, s.cfg.UploadSecret) {
		log.Warn("invalid event code attempt", slog.String("file_name", req.FileName))
		return nil, apperr.Auth("Invalid event code")
	}

	now := s.now()
	key := ObjectKey(s.cfg.UploadNamespace, now, s.newID(), req.FileName)

	url, err := s.presigner.PresignPut(ctx, key, req.ContentType, URLExpiry)
	if err != nil {
		log.Error("failed to generate signed url", slog.String("key", key), slog.String("error", err.Error()))
		return nil, apperr.Upstream("Failed to generate upload URL. Check storage credentials.", err)
	}
	if url == "" {
		log.Error("generated url is empty", slog.String("key", key))
		return nil, apperr.Upstream("Failed to generate valid upload URL", nil)
	}

	log.Info("generated presigned url", slog.String("key", key))
	return &SignedURL{URL: url, Key: key, ExpiresAt: now.Add(URLExpiry)}, nil
}

// IsAllowedContentType reports whether contentType is an image or video type.
func IsAllowedContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

func codesMatch(supplied, secret string) bool {
	a := []byte(strings.TrimSpace(supplied))
	b := []byte(strings.TrimSpace(secret))
	return subtle.ConstantTimeCompare(a, b) == 1
}
