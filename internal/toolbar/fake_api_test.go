package toolbar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"highlights/internal/client"
	"highlights/internal/domain"
)

type pageCall struct{ skip, limit int }

// fakeAPI records every call and answers from canned responses.
type fakeAPI struct {
	mu sync.Mutex

	pageCalls   []pageCall
	searchCalls []domain.SearchRequest
	chatCalls   []domain.ChatRequest
	uploads     []string
	uploadBody  []string
	clearCalls  int
	countCalls  int

	total     int
	pageErr   error
	results   []domain.Highlight
	searchErr error
	reply     *domain.ChatResponse
	chatErr   error
	clearErr  error
	uploadErr error
}

func (f *fakeAPI) UploadHighlights(_ context.Context, filename string, content io.Reader) (*domain.UploadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, _ := io.ReadAll(content)
	f.uploads = append(f.uploads, filename)
	f.uploadBody = append(f.uploadBody, string(data))
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &domain.UploadResponse{Message: "stored", Count: 3}, nil
}

func (f *fakeAPI) SearchHighlights(_ context.Context, req domain.SearchRequest) ([]domain.Highlight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, req)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeAPI) GetAllHighlights(_ context.Context, skip, limit int) (*domain.HighlightsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls = append(f.pageCalls, pageCall{skip, limit})
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	n := limit
	if remaining := f.total - skip; remaining < n {
		n = remaining
	}
	if n < 0 {
		n = 0
	}
	return &domain.HighlightsPage{Highlights: makeHighlights(n), Total: f.total, Skip: skip, Limit: limit}, nil
}

func (f *fakeAPI) GetHighlightsCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	return f.total, nil
}

func (f *fakeAPI) ClearHighlights(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	if f.clearErr != nil {
		return "", f.clearErr
	}
	f.total = 0
	return "All highlights cleared successfully", nil
}

func (f *fakeAPI) RAGChat(_ context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls = append(f.chatCalls, req)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	if f.reply != nil {
		return f.reply, nil
	}
	return &domain.ChatResponse{Response: "answer to " + req.Prompt, Sources: makeHighlights(1)}, nil
}

func makeHighlights(n int) []domain.Highlight {
	out := make([]domain.Highlight, n)
	for i := range out {
		out[i] = domain.Highlight{
			Content:    fmt.Sprintf("highlight %d", i),
			BookTitle:  "Meditations",
			BookAuthor: "Marcus Aurelius",
			Tags:       []string{"philosophy"},
			Score:      1,
		}
	}
	return out
}

func detailErr(detail string) error {
	return &client.APIError{Method: "POST", Path: "/x", StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Detail: detail}
}

// run executes cmd and every follow-up command, feeding results back through Update.
func run(c *Controller, cmd tea.Cmd) {
	for cmd != nil {
		cmd = c.Update(cmd())
	}
}
