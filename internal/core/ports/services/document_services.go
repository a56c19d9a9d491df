package services

import "context"

// DocumentRenderer converts rendered HTML into a PDF document. Implemented
// by the Gotenberg client in internal/platform/render.
type DocumentRenderer interface {
	// RenderHTML converts a self-contained HTML document to PDF bytes.
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}
