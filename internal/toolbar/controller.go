package toolbar

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"highlights/internal/client"
	"highlights/internal/domain"
	"highlights/internal/logger"
)

const module = "toolbar"

const (
	msgEmptySearch   = "Please enter a search query"
	msgEmptyQuestion = "Please enter a question"
	msgSelectCSV     = "Please select a CSV file"
	msgSearchFailed  = "Error performing search. Please try again."
	msgChatFailed    = "Error generating response. Please try again."
	msgClearFailed   = "Error clearing existing highlights. Please try again."
	msgUploadFailed  = "Error uploading file. Please try again."
	msgNukeFailed    = "Failed to clear highlights. Please try again."
	msgNukeSucceeded = "All highlights cleared successfully"

	msgUploadCancelled = "Existing highlights were cleared, but the upload was cancelled."
)

// Options tunes a Controller.
type Options struct {
	// PageSize is the default row count; search results reset to it.
	PageSize int
	// SearchLimit caps search results when positive.
	SearchLimit int
	// Now stamps transcript messages; defaults to time.Now.
	Now func() time.Time
}

// Controller is the toolbar interaction state machine. Every action mutates
// state synchronously and returns at most one tea.Cmd issuing one request; the
// resulting message must be fed back through Update on the same goroutine.
type Controller struct {
	ctx  context.Context
	api  domain.HighlightsAPI
	log  logger.Logger
	opts Options

	state State
	// mode to return to when RAG is switched off
	resume Mode
	// only the most recent browse load is applied
	loadSeq int
	// only the most recent search is applied
	searchSeq int
	// user message awaiting a reply; uuid.Nil when none
	pendingChat uuid.UUID
}

// New returns a controller in browse mode; call Init to load the first page.
func New(ctx context.Context, api domain.HighlightsAPI, log logger.Logger, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Controller{
		ctx:   ctx,
		api:   api,
		log:   log,
		opts:  opts,
		state: State{Mode: ModeBrowse, Rows: opts.PageSize},
	}
}

// State returns a snapshot for rendering.
func (c *Controller) State() State { return c.state }

// Init loads the first browse page.
func (c *Controller) Init() tea.Cmd {
	return c.loadHighlights()
}

// Update applies the result of a command issued earlier. Unknown messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case highlightsLoadedMsg:
		return c.onHighlightsLoaded(msg)
	case searchDoneMsg:
		return c.onSearchDone(msg)
	case chatDoneMsg:
		return c.onChatDone(msg)
	case overwriteClearedMsg:
		return c.onOverwriteCleared(msg)
	case uploadDoneMsg:
		return c.onUploadDone(msg)
	case nukeDoneMsg:
		return c.onNukeDone(msg)
	}
	return nil
}

// PageChange moves the browse window. It is a no-op outside browse mode.
func (c *Controller) PageChange(first, rows int) tea.Cmd {
	if c.state.Mode != ModeBrowse {
		return nil
	}
	if first < 0 {
		first = 0
	}
	if rows <= 0 {
		rows = c.opts.PageSize
	}
	c.state.First = first
	c.state.Rows = rows
	return c.loadHighlights()
}

func (c *Controller) SetPrompt(s string) { c.state.Prompt = s }

func (c *Controller) SetTags(s string) { c.state.Tags = s }

// Submit runs a search, or a chat turn when RAG is enabled.
func (c *Controller) Submit() tea.Cmd {
	if c.state.Mode == ModeChat {
		return c.submitChat()
	}
	return c.submitSearch()
}

// ToggleRAG switches chat mode on or off. Switching off always discards the transcript.
func (c *Controller) ToggleRAG() tea.Cmd {
	c.state.SearchError = ""
	c.state.ChatError = ""
	c.state.First = 0
	if c.state.Mode != ModeChat {
		c.resume = c.state.Mode
		c.state.Mode = ModeChat
		return nil
	}
	c.dropChat()
	c.state.Mode = c.resume
	if c.state.Mode == ModeBrowse {
		return c.loadHighlights()
	}
	return nil
}

// ClearSearch resets the query inputs and results. With RAG on it clears the
// transcript; otherwise it returns to browse mode and reloads page one.
func (c *Controller) ClearSearch() tea.Cmd {
	c.resetSearch()
	c.state.First = 0
	if c.state.Mode == ModeChat {
		c.dropChat()
		c.state.ChatError = ""
		c.resume = ModeBrowse
		return nil
	}
	c.state.Mode = ModeBrowse
	return c.loadHighlights()
}

// OpenUpload shows the upload dialog with a fresh draft.
func (c *Controller) OpenUpload() {
	c.state.Upload = &UploadDraft{}
	c.state.UploadError = ""
}

// SelectFile records the chosen file. The extension is checked on submit.
func (c *Controller) SelectFile(path string) {
	if c.state.Upload == nil || c.state.IsUploading {
		return
	}
	c.state.Upload.Path = strings.TrimSpace(path)
	c.state.UploadError = ""
}

func (c *Controller) SetOverwrite(overwrite bool) {
	if c.state.Upload == nil || c.state.IsUploading {
		return
	}
	c.state.Upload.Overwrite = overwrite
}

// CloseUpload discards the draft.
func (c *Controller) CloseUpload() {
	c.state.Upload = nil
	c.state.UploadError = ""
}

// SubmitUpload validates the draft and starts the upload, clearing the
// collection first when overwrite is set.
func (c *Controller) SubmitUpload() tea.Cmd {
	draft := c.state.Upload
	if draft == nil || c.state.IsUploading {
		return nil
	}
	if draft.Path == "" || !strings.HasSuffix(draft.Path, ".csv") {
		c.state.UploadError = msgSelectCSV
		return nil
	}
	c.state.IsUploading = true
	c.state.UploadError = ""
	if draft.Overwrite {
		api, ctx, path := c.api, c.ctx, draft.Path
		return func() tea.Msg {
			_, err := api.ClearHighlights(ctx)
			return overwriteClearedMsg{path: path, err: err}
		}
	}
	return c.performUpload(draft.Path)
}

// RequestClear asks for confirmation before wiping the collection.
func (c *Controller) RequestClear() {
	if c.state.IsClearing {
		return
	}
	c.state.ConfirmingClear = true
}

// ConfirmClear resolves the confirmation step.
func (c *Controller) ConfirmClear(accept bool) tea.Cmd {
	if !c.state.ConfirmingClear {
		return nil
	}
	c.state.ConfirmingClear = false
	if !accept || c.state.IsClearing {
		return nil
	}
	c.state.IsClearing = true
	api, ctx := c.api, c.ctx
	return func() tea.Msg {
		msg, err := api.ClearHighlights(ctx)
		return nukeDoneMsg{message: msg, err: err}
	}
}

func (c *Controller) DismissNotice() { c.state.Notice = nil }

func (c *Controller) loadHighlights() tea.Cmd {
	c.loadSeq++
	c.state.IsLoadingHighlights = true
	seq, first, rows := c.loadSeq, c.state.First, c.state.Rows
	api, ctx := c.api, c.ctx
	return func() tea.Msg {
		page, err := api.GetAllHighlights(ctx, first, rows)
		return highlightsLoadedMsg{seq: seq, page: page, err: err}
	}
}

func (c *Controller) onHighlightsLoaded(msg highlightsLoadedMsg) tea.Cmd {
	if msg.seq != c.loadSeq {
		return nil
	}
	c.state.IsLoadingHighlights = false
	if msg.err != nil {
		c.log.Error(module, "load highlights failed", map[string]interface{}{"error": msg.err})
		c.state.Highlights = []domain.Highlight{}
		c.state.TotalRecords = 0
		return nil
	}
	c.state.Highlights = msg.page.Highlights
	c.state.TotalRecords = msg.page.Total
	return nil
}

func (c *Controller) submitSearch() tea.Cmd {
	prompt := strings.TrimSpace(c.state.Prompt)
	if prompt == "" {
		c.state.SearchError = msgEmptySearch
		return nil
	}
	if c.state.IsSearching {
		return nil
	}
	c.searchSeq++
	c.state.IsSearching = true
	c.state.SearchError = ""
	c.state.SearchResults = nil

	req := domain.SearchRequest{Prompt: prompt, Tags: domain.ParseTags(c.state.Tags)}
	if c.opts.SearchLimit > 0 {
		limit := c.opts.SearchLimit
		req.Limit = &limit
	}
	api, ctx, seq := c.api, c.ctx, c.searchSeq
	return func() tea.Msg {
		results, err := api.SearchHighlights(ctx, req)
		return searchDoneMsg{seq: seq, results: results, err: err}
	}
}

func (c *Controller) onSearchDone(msg searchDoneMsg) tea.Cmd {
	if msg.seq != c.searchSeq {
		return nil
	}
	c.state.IsSearching = false
	if msg.err != nil {
		c.log.Error(module, "search failed", map[string]interface{}{"error": msg.err})
		c.state.SearchError = errorMessage(msg.err, msgSearchFailed)
		return nil
	}
	// any browse load still in flight would overwrite the result set
	c.loadSeq++
	c.state.IsLoadingHighlights = false

	c.state.SearchResults = msg.results
	c.state.Highlights = msg.results
	c.state.TotalRecords = len(msg.results)
	c.state.First = 0
	c.state.Rows = c.opts.PageSize
	if c.state.Mode == ModeChat {
		c.resume = ModeSearch
	} else {
		c.state.Mode = ModeSearch
	}
	return nil
}

func (c *Controller) submitChat() tea.Cmd {
	prompt := strings.TrimSpace(c.state.Prompt)
	if prompt == "" {
		c.state.ChatError = msgEmptyQuestion
		return nil
	}
	if c.state.IsGeneratingResponse {
		return nil
	}
	user := c.state.Transcript.Append(RoleUser, prompt, nil, c.opts.Now())
	c.pendingChat = user.ID
	c.state.IsGeneratingResponse = true
	c.state.ChatError = ""

	req := domain.ChatRequest{Prompt: prompt, Tags: domain.ParseTags(c.state.Tags)}
	api, ctx := c.api, c.ctx
	return func() tea.Msg {
		resp, err := api.RAGChat(ctx, req)
		return chatDoneMsg{userMessageID: user.ID, resp: resp, err: err}
	}
}

func (c *Controller) onChatDone(msg chatDoneMsg) tea.Cmd {
	if msg.userMessageID != c.pendingChat {
		// the transcript this reply belongs to has been discarded
		return nil
	}
	c.pendingChat = uuid.Nil
	c.state.IsGeneratingResponse = false
	if msg.err != nil {
		c.log.Error(module, "rag chat failed", map[string]interface{}{"error": msg.err})
		c.state.ChatError = errorMessage(msg.err, msgChatFailed)
		c.state.Transcript.Retract(msg.userMessageID)
		return nil
	}
	c.state.Transcript.Append(RoleAssistant, msg.resp.Response, msg.resp.Sources, c.opts.Now())
	c.state.Prompt = ""
	return nil
}

func (c *Controller) performUpload(path string) tea.Cmd {
	api, ctx := c.api, c.ctx
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{err: err}
		}
		defer f.Close()
		resp, err := api.UploadHighlights(ctx, path, f)
		return uploadDoneMsg{resp: resp, err: err}
	}
}

func (c *Controller) onOverwriteCleared(msg overwriteClearedMsg) tea.Cmd {
	if msg.err != nil {
		c.log.Error(module, "clear before upload failed", map[string]interface{}{"error": msg.err})
		c.state.IsUploading = false
		c.failUpload(errorMessage(msg.err, msgClearFailed))
		return nil
	}
	if c.state.Upload == nil {
		// dialog closed in the meantime: nothing is uploaded, but the
		// collection is already empty
		c.state.IsUploading = false
		c.state.Notice = &Notice{Kind: NoticeError, Summary: "Upload cancelled", Detail: msgUploadCancelled}
		c.state.First = 0
		c.enterBrowse()
		return c.loadHighlights()
	}
	return c.performUpload(msg.path)
}

func (c *Controller) onUploadDone(msg uploadDoneMsg) tea.Cmd {
	c.state.IsUploading = false
	if msg.err != nil {
		c.log.Error(module, "upload failed", map[string]interface{}{"error": msg.err})
		c.failUpload(errorMessage(msg.err, msgUploadFailed))
		return nil
	}
	c.log.Info(module, "upload done", map[string]interface{}{"count": msg.resp.Count})
	c.CloseUpload()
	c.state.First = 0
	c.enterBrowse()
	return c.loadHighlights()
}

// failUpload reports an upload error in the dialog, or as a notice if the
// dialog has been closed since.
func (c *Controller) failUpload(message string) {
	if c.state.Upload != nil {
		c.state.UploadError = message
		return
	}
	c.state.Notice = &Notice{Kind: NoticeError, Summary: "Upload failed", Detail: message}
}

func (c *Controller) onNukeDone(msg nukeDoneMsg) tea.Cmd {
	c.state.IsClearing = false
	if msg.err != nil {
		c.log.Error(module, "clear highlights failed", map[string]interface{}{"error": msg.err})
		c.state.Notice = &Notice{Kind: NoticeError, Summary: "Error", Detail: errorMessage(msg.err, msgNukeFailed)}
		return nil
	}
	detail := msg.message
	if detail == "" {
		detail = msgNukeSucceeded
	}
	c.state.Notice = &Notice{Kind: NoticeSuccess, Summary: "Success", Detail: detail}
	c.resetSearch()
	c.state.First = 0
	c.enterBrowse()
	return c.loadHighlights()
}

// dropChat discards the transcript and orphans any reply still in flight.
func (c *Controller) dropChat() {
	c.state.Transcript.Clear()
	c.state.IsGeneratingResponse = false
	c.pendingChat = uuid.Nil
}

// enterBrowse makes the reloaded corpus the list's identity. In chat mode the
// list stays underneath and browse becomes the mode to return to.
func (c *Controller) enterBrowse() {
	if c.state.Mode == ModeChat {
		c.resume = ModeBrowse
		return
	}
	c.state.Mode = ModeBrowse
}

// resetSearch also orphans any search still in flight.
func (c *Controller) resetSearch() {
	c.searchSeq++
	c.state.IsSearching = false
	c.state.Prompt = ""
	c.state.Tags = ""
	c.state.SearchResults = nil
	c.state.SearchError = ""
}

// errorMessage prefers the server-supplied detail over the fallback.
func errorMessage(err error, fallback string) string {
	if d := client.Detail(err); d != "" {
		return d
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return "Cannot read " + pathErr.Path + ": " + pathErr.Err.Error()
	}
	return fallback
}
