package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrInvalidEventCode is returned when the issuer rejects the event code.
// It halts the whole batch.
var ErrInvalidEventCode = errors.New("Invalid event code")

// maxErrorBody caps how much of a storage error body ends up in a status.
const maxErrorBody = 512

// URLRequest is the body sent to the issuer for one file.
type URLRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	EventCode   string `json:"eventCode"`
}

// Issuer hands out one write URL per file.
type Issuer interface {
	RequestURL(ctx context.Context, req URLRequest) (string, error)
}

// Writer stores a file's bytes at a write URL.
type Writer interface {
	Put(ctx context.Context, url string, f File) error
}

// HTTPClient talks to the issuer endpoint and writes directly to storage.
// It implements both Issuer and Writer.
type HTTPClient struct {
	endpoint string
	issuer   *http.Client
	storage  *http.Client
}

// NewHTTPClient returns a client for the issuer at baseURL. timeout bounds
// each issuer round-trip; for storage writes it only bounds the wait for
// response headers once the body is sent, so slow uploads are never cut off.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &HTTPClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/upload-url",
		issuer:   &http.Client{Timeout: timeout},
		storage:  &http.Client{Transport: transport},
	}
}

type urlResponse struct {
	URL   string `json:"url"`
	Key   string `json:"key"`
	Error string `json:"error"`
}

// RequestURL asks the issuer for a write URL.
func (c *HTTPClient) RequestURL(ctx context.Context, req URLRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.issuer.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request upload url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrInvalidEventCode
	}

	var out urlResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr != nil {
			return "", errors.New("Server error")
		}
		if out.Error != "" {
			return "", errors.New(out.Error)
		}
		return "", fmt.Errorf("Server error: %d", resp.StatusCode)
	}

	if decodeErr != nil {
		return "", fmt.Errorf("invalid response from server: %w", decodeErr)
	}
	if out.URL == "" {
		return "", errors.New("No upload URL received from server")
	}
	return out.URL, nil
}

// Put uploads f to url with f's content type.
func (c *HTTPClient) Put(ctx context.Context, url string, f File) error {
	body, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %q: %w", f.Name, err)
	}
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = f.Size
	req.Header.Set("Content-Type", f.ContentType)

	resp, err := c.storage.Do(req)
	if err != nil {
		return fmt.Errorf("Upload to storage failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := strings.TrimSpace(string(text))
		if detail == "" {
			detail = "Network error"
		}
		return fmt.Errorf("Upload to storage failed (%d): %s", resp.StatusCode, detail)
	}
	return nil
}
