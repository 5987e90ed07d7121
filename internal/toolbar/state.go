package toolbar

import "highlights/internal/domain"

// Mode is the single active presentation mode. Exactly one is active at a time.
type Mode int

const (
	// ModeBrowse shows one server page of the full corpus.
	ModeBrowse Mode = iota
	// ModeSearch shows a search result set held in full on the client.
	ModeSearch
	// ModeChat shows the RAG transcript.
	ModeChat
)

func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeSearch:
		return "search"
	case ModeChat:
		return "chat"
	default:
		return "unknown"
	}
}

// UploadDraft exists only while the upload dialog is open.
type UploadDraft struct {
	Path      string
	Overwrite bool
}

// NoticeKind selects how a Notice is styled.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a transient toast shown until dismissed.
type Notice struct {
	Kind    NoticeKind
	Summary string
	Detail  string
}

// State is everything the view renders. It is owned by a Controller and
// only changes through Controller methods.
type State struct {
	Mode Mode

	// Visible highlight list: a server page in browse mode, the full result set in search mode.
	Highlights   []domain.Highlight
	TotalRecords int
	First        int
	Rows         int

	Prompt        string
	Tags          string
	SearchResults []domain.Highlight
	SearchError   string

	Transcript Transcript
	ChatError  string

	Upload      *UploadDraft
	UploadError string

	ConfirmingClear bool
	Notice          *Notice

	IsLoadingHighlights  bool
	IsSearching          bool
	IsUploading          bool
	IsGeneratingResponse bool
	IsClearing           bool
}

// RAGEnabled reports whether submissions go to the chat endpoint.
func (s State) RAGEnabled() bool { return s.Mode == ModeChat }

// Busy reports whether any request is in flight.
func (s State) Busy() bool {
	return s.IsLoadingHighlights || s.IsSearching || s.IsUploading || s.IsGeneratingResponse || s.IsClearing
}
