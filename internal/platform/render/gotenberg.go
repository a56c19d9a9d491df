// Package render converts invoice HTML into PDF documents via a Gotenberg
// service.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	portssvc "github.com/safinah-app/clearance_billing_app/internal/core/ports/services"
)

// GotenbergClient wraps interactions with the Gotenberg API.
type GotenbergClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGotenbergClient constructs a new client.
func NewGotenbergClient(baseURL string) *GotenbergClient {
	return &GotenbergClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ensure GotenbergClient implements portssvc.DocumentRenderer
var _ portssvc.DocumentRenderer = (*GotenbergClient)(nil)

// Ping checks if the remote Gotenberg service is available.
func (c *GotenbergClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// RenderHTML converts raw HTML into a PDF document using Gotenberg. The
// chromium route requires the main document to be named index.html.
func (c *GotenbergClient) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("gotenberg base URL is not configured")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, bytes.NewBufferString(html)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/forms/chromium/convert/html", c.baseURL), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("render failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
