package domain

import "strings"

// Highlight is a stored excerpt with its book metadata.
// Score is only meaningful for search results; listings report 1.0.
type Highlight struct {
	Content    string   `json:"content"`
	BookTitle  string   `json:"book_title"`
	BookAuthor string   `json:"book_author"`
	Tags       []string `json:"tags"`
	Score      float64  `json:"score"`
}

// SearchRequest is the body of a semantic search.
type SearchRequest struct {
	Prompt string   `json:"prompt"`
	Tags   []string `json:"tags,omitempty"`
	Limit  *int     `json:"limit,omitempty"`
}

// HighlightsPage is one server-side page of the full corpus.
type HighlightsPage struct {
	Highlights []Highlight `json:"highlights"`
	Total      int         `json:"total"`
	Skip       int         `json:"skip"`
	Limit      int         `json:"limit"`
}

// UploadResponse reports how many highlights were ingested from a CSV file.
type UploadResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ChatRequest asks the RAG assistant a question, optionally restricted to tags.
type ChatRequest struct {
	Prompt string   `json:"prompt"`
	Tags   []string `json:"tags,omitempty"`
}

// ChatResponse carries the generated answer and the highlights used as evidence.
type ChatResponse struct {
	Response string      `json:"response"`
	Sources  []Highlight `json:"sources"`
}

// ParseTags splits a comma-separated tag string into trimmed, non-empty tags.
// It returns nil when no tag survives.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
