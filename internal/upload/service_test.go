package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestdrop/service/internal/apperr"
	"github.com/guestdrop/service/internal/config"
	"github.com/guestdrop/service/internal/logger"
)

type fakePresigner struct {
	url   string
	err   error
	calls int

	key         string
	contentType string
	expiry      time.Duration
}

func (f *fakePresigner) PresignPut(_ context.Context, key, contentType string, expiry time.Duration) (string, error) {
	f.calls++
	f.key, f.contentType, f.expiry = key, contentType, expiry
	return f.url, f.err
}

func newTestService(p *fakePresigner, mutate func(*config.Config)) *Service {
	cfg := &config.Config{
		UploadSecret:    "party2026",
		UploadNamespace: "tess60",
		StorageBucket:   "photos",
	}
	if mutate != nil {
		mutate(cfg)
	}
	svc := NewService(p, cfg, logger.Discard())
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "3f1c2a9e-8b7d-4c6e-9f00-1234567890ab" }
	return svc
}

func validRequest() Request {
	return Request{FileName: "my photo.jpg", ContentType: "image/jpeg", EventCode: "party2026"}
}

func TestIssueURL_Success(t *testing.T) {
	p := &fakePresigner{url: "https://storage.example/signed"}
	svc := newTestService(p, nil)

	got, err := svc.IssueURL(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "https://storage.example/signed", got.URL)
	assert.Equal(t, "tess60/2026-10-19/3f1c2a9e-8b7d-4c6e-9f00-1234567890ab-my_photo.jpg", got.Key)
	assert.Equal(t, got.Key, p.key)
	assert.Equal(t, "image/jpeg", p.contentType)
	assert.Equal(t, 60*time.Second, p.expiry)
}

func TestIssueURL_TrimsEventCode(t *testing.T) {
	p := &fakePresigner{url: "https://storage.example/signed"}
	svc := newTestService(p, func(c *config.Config) { c.UploadSecret = " party2026\n" })

	req := validRequest()
	req.EventCode = "  party2026 "

	_, err := svc.IssueURL(context.Background(), req)
	assert.NoError(t, err)
}

func TestIssueURL_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		req      func(*Request)
		presign  *fakePresigner
		wantKind apperr.Kind
		wantMsg  string
	}{
		{
			name:     "missing file name",
			req:      func(r *Request) { r.FileName = "" },
			wantKind: apperr.KindValidation,
			wantMsg:  "Missing required fields: fileName, contentType, eventCode",
		},
		{
			name:     "missing event code",
			req:      func(r *Request) { r.EventCode = "" },
			wantKind: apperr.KindValidation,
			wantMsg:  "Missing required fields: fileName, contentType, eventCode",
		},
		{
			name:     "secret not configured",
			mutate:   func(c *config.Config) { c.UploadSecret = "" },
			wantKind: apperr.KindConfig,
			wantMsg:  "Server configuration error: UPLOAD_SECRET not set",
		},
		{
			name:     "bucket not configured",
			mutate:   func(c *config.Config) { c.StorageBucket = "" },
			wantKind: apperr.KindConfig,
			wantMsg:  "Server configuration error",
		},
		{
			name:     "wrong event code",
			req:      func(r *Request) { r.EventCode = "party2025" },
			wantKind: apperr.KindAuth,
			wantMsg:  "Invalid event code",
		},
		{
			name:     "whitespace event code",
			req:      func(r *Request) { r.EventCode = "   " },
			wantKind: apperr.KindAuth,
			wantMsg:  "Invalid event code",
		},
		{
			name:     "document content type with valid code",
			req:      func(r *Request) { r.ContentType = "application/pdf" },
			wantKind: apperr.KindValidation,
			wantMsg:  "Only image and video files are allowed",
		},
		{
			name:     "document content type with wrong code",
			req:      func(r *Request) { r.ContentType = "text/plain"; r.EventCode = "nope" },
			wantKind: apperr.KindValidation,
			wantMsg:  "Only image and video files are allowed",
		},
		{
			name:     "presign fails",
			presign:  &fakePresigner{err: errors.New("signature mismatch")},
			wantKind: apperr.KindUpstream,
			wantMsg:  "Failed to generate upload URL. Check storage credentials.",
		},
		{
			name:     "presign returns empty url",
			presign:  &fakePresigner{},
			wantKind: apperr.KindUpstream,
			wantMsg:  "Failed to generate valid upload URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.presign
			if p == nil {
				p = &fakePresigner{url: "https://storage.example/signed"}
			}
			svc := newTestService(p, tt.mutate)

			req := validRequest()
			if tt.req != nil {
				tt.req(&req)
			}

			got, err := svc.IssueURL(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, got)

			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.Equal(t, tt.wantMsg, e.Message)

			if tt.wantKind != apperr.KindUpstream {
				assert.Zero(t, p.calls, "no url may be signed on rejection")
			}
		})
	}
}

func TestIsAllowedContentType(t *testing.T) {
	assert.True(t, IsAllowedContentType("image/heic"))
	assert.True(t, IsAllowedContentType("video/quicktime"))
	assert.False(t, IsAllowedContentType("application/octet-stream"))
	assert.False(t, IsAllowedContentType("Image/png"))
	assert.False(t, IsAllowedContentType(""))
}
