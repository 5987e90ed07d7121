package toolbar

import (
	"github.com/google/uuid"

	"highlights/internal/domain"
)

// Result messages: one per request, applied by Controller.Update.

type highlightsLoadedMsg struct {
	seq  int
	page *domain.HighlightsPage
	err  error
}

type searchDoneMsg struct {
	seq     int
	results []domain.Highlight
	err     error
}

type chatDoneMsg struct {
	userMessageID uuid.UUID
	resp          *domain.ChatResponse
	err           error
}

// overwriteClearedMsg completes the clear step of an overwriting upload.
// path is the file validated when the upload was submitted.
type overwriteClearedMsg struct {
	path string
	err  error
}

type uploadDoneMsg struct {
	resp *domain.UploadResponse
	err  error
}

type nukeDoneMsg struct {
	message string
	err     error
}
