package domain

import (
	"context"
	"io"
)

// HighlightsAPI is the remote highlights service as seen by the client side.
// Implementations map each call to exactly one HTTP request and never retry.
type HighlightsAPI interface {
	UploadHighlights(ctx context.Context, filename string, content io.Reader) (*UploadResponse, error)
	SearchHighlights(ctx context.Context, req SearchRequest) ([]Highlight, error)
	GetAllHighlights(ctx context.Context, skip, limit int) (*HighlightsPage, error)
	GetHighlightsCount(ctx context.Context) (int, error)
	ClearHighlights(ctx context.Context) (string, error)
	RAGChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
