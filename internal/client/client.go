package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"highlights/internal/domain"
	"highlights/internal/logger"
)

const module = "client"

// Config configures the highlights API client.
type Config struct {
	BaseURL string
	// Timeout of zero leaves the transport default in place.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a minimal REST client for the highlights backend.
// Each method issues one request; nothing is retried or cached.
type Client struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

var _ domain.HighlightsAPI = (*Client)(nil)

func New(cfg Config, log logger.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  hc,
		log:     log,
	}
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// UploadHighlights posts a CSV file as multipart form field "file".
func (c *Client) UploadHighlights(ctx context.Context, filename string, content io.Reader) (*domain.UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	var out domain.UploadResponse
	if err := c.do(ctx, http.MethodPost, "/highlights", mw.FormDataContentType(), &buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadFile opens path and uploads it.
func (c *Client) UploadFile(ctx context.Context, path string) (*domain.UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.UploadHighlights(ctx, path, f)
}

// SearchHighlights runs a semantic search. Ordering is whatever the server returns.
func (c *Client) SearchHighlights(ctx context.Context, req domain.SearchRequest) ([]domain.Highlight, error) {
	var out []domain.Highlight
	if err := c.postJSON(ctx, "/search", req, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Highlight{}
	}
	return out, nil
}

func (c *Client) GetAllHighlights(ctx context.Context, skip, limit int) (*domain.HighlightsPage, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	var out domain.HighlightsPage
	if err := c.do(ctx, http.MethodGet, "/highlights?"+q.Encode(), "", nil, &out); err != nil {
		return nil, err
	}
	if out.Highlights == nil {
		out.Highlights = []domain.Highlight{}
	}
	return &out, nil
}

func (c *Client) GetHighlightsCount(ctx context.Context) (int, error) {
	var out domain.CountResponse
	if err := c.do(ctx, http.MethodGet, "/highlights/count", "", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ClearHighlights deletes every stored highlight and returns the server's confirmation.
func (c *Client) ClearHighlights(ctx context.Context) (string, error) {
	var out domain.MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/highlights/clear", "", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) RAGChat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	var out domain.ChatResponse
	if err := c.postJSON(ctx, "/rag/chat", req, &out); err != nil {
		return nil, err
	}
	if out.Sources == nil {
		out.Sources = []domain.Highlight{}
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn(module, "request failed", map[string]interface{}{
			"method": method, "path": path, "error": err.Error(),
		})
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug(module, "request done", map[string]interface{}{
		"method": method, "path": path, "status": resp.StatusCode, "duration_ms": time.Since(start).Milliseconds(),
	})

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return newAPIError(method, path, resp, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
