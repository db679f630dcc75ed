package upload

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/upload-url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.IssueURL(rec, req)
	return rec
}

func TestHandler_IssueURL(t *testing.T) {
	h := NewHandler(newTestService(&fakePresigner{url: "https://storage.example/signed"}, nil))

	rec := serve(t, h, "{\"fileName\":\"a b.png\",\"contentType\":\"image/png\",\"eventCode\":\"party2026\"}\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2, "body is exactly {url, key}")
	assert.Equal(t, "https://storage.example/signed", got["url"])
	assert.Equal(t, "tess60/2026-10-19/3f1c2a9e-8b7d-4c6e-9f00-1234567890ab-a_b.png", got["key"])
}

func TestHandler_IssueURL_Errors(t *testing.T) {
	h := NewHandler(newTestService(&fakePresigner{url: "https://storage.example/signed"}, nil))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"not json", `fileName=a.png`, http.StatusBadRequest, "Invalid JSON in request body"},
		{"trailing garbage", `{"fileName":"a.png","contentType":"image/png","eventCode":"party2026"} not-json`, http.StatusBadRequest, "Invalid JSON in request body"},
		{"two objects", `{"fileName":"a.png","contentType":"image/png","eventCode":"party2026"}{}`, http.StatusBadRequest, "Invalid JSON in request body"},
		{"too large", `{"fileName":"` + strings.Repeat("a", maxRequestBody) + `","contentType":"image/png","eventCode":"party2026"}`, http.StatusBadRequest, "Request body too large"},
		{"empty object", `{}`, http.StatusBadRequest, "Missing required fields: fileName, contentType, eventCode"},
		{"wrong code", `{"fileName":"a.png","contentType":"image/png","eventCode":"x"}`, http.StatusUnauthorized, "Invalid event code"},
		{"not media", `{"fileName":"a.zip","contentType":"application/zip","eventCode":"party2026"}`, http.StatusBadRequest, "Only image and video files are allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var got map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, map[string]string{"error": tt.wantError}, got)
		})
	}
}
