package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"highlights/internal/domain"
	"highlights/internal/toolbar"
)

// ToolbarPort is the TUI-facing surface of the toolbar controller.
type ToolbarPort interface {
	State() toolbar.State
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	PageChange(first, rows int) tea.Cmd
	SetPrompt(s string)
	SetTags(s string)
	Submit() tea.Cmd
	ToggleRAG() tea.Cmd
	ClearSearch() tea.Cmd
	OpenUpload()
	SelectFile(path string)
	SetOverwrite(overwrite bool)
	CloseUpload()
	SubmitUpload() tea.Cmd
	RequestClear()
	ConfirmClear(accept bool) tea.Cmd
	DismissNotice()
}

type focus int

const (
	focusTable focus = iota
	focusPrompt
	focusTags
)

// Model is the Bubble Tea model for the highlights toolbar.
type Model struct {
	ctrl   ToolbarPort
	apiURL string

	prompt textinput.Model
	tags   textinput.Model
	path   textinput.Model
	table  table.Model
	chat   viewport.Model
	pager  paginator.Model

	focus focus
	// page of a search result set; search results are paged client-side
	viewPage int

	width  int
	height int
	ready  bool
}

// New creates a new TUI model instance.
func New(ctrl ToolbarPort, apiURL string) Model {
	prompt := textinput.New()
	prompt.Prompt = "search> "
	prompt.Placeholder = "What are you looking for?"
	prompt.CharLimit = 0

	tags := textinput.New()
	tags.Prompt = "tags> "
	tags.Placeholder = "philosophy, classics"
	tags.CharLimit = 0

	path := textinput.New()
	path.Prompt = "file> "
	path.Placeholder = "/path/to/highlights.csv"
	path.CharLimit = 0

	tbl := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	pager := paginator.New()
	pager.Type = paginator.Arabic

	return Model{
		ctrl:   ctrl,
		apiURL: apiURL,
		prompt: prompt,
		tags:   tags,
		path:   path,
		table:  tbl,
		chat:   viewport.New(0, 0),
		pager:  pager,
	}
}

// Init starts the first browse load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.ctrl.Init())
}

// Update routes keys to the focused widget and everything else to the controller.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.sync()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	cmd := m.ctrl.Update(msg)
	m.sync()

	var cmds []tea.Cmd
	cmds = append(cmds, cmd)
	var c tea.Cmd
	m.prompt, c = m.prompt.Update(msg)
	cmds = append(cmds, c)
	m.tags, c = m.tags.Update(msg)
	cmds = append(cmds, c)
	m.path, c = m.path.Update(msg)
	cmds = append(cmds, c)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	st := m.ctrl.State()
	if st.Notice != nil {
		m.ctrl.DismissNotice()
	}
	if st.ConfirmingClear {
		return m.handleConfirmKey(msg)
	}
	if st.Upload != nil {
		return m.handleUploadKey(msg)
	}

	switch msg.String() {
	case "ctrl+r":
		cmd := m.ctrl.ToggleRAG()
		m.sync()
		return m, cmd
	case "ctrl+u":
		m.ctrl.OpenUpload()
		m.path.Reset()
		m.setFocus(focusTable)
		cmd := m.path.Focus()
		return m, cmd
	case "ctrl+x":
		m.ctrl.RequestClear()
		return m, nil
	case "tab":
		cmd := m.setFocus((m.focus + 1) % 3)
		return m, cmd
	}

	if m.focus == focusTable {
		return m.handleTableKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.ctrl.SetPrompt(m.prompt.Value())
		m.ctrl.SetTags(m.tags.Value())
		cmd := m.ctrl.Submit()
		m.viewPage = 0
		m.sync()
		return m, cmd
	case "esc":
		cmd := m.setFocus(focusTable)
		return m, cmd
	}
	var cmd tea.Cmd
	if m.focus == focusPrompt {
		m.prompt, cmd = m.prompt.Update(msg)
		m.ctrl.SetPrompt(m.prompt.Value())
	} else {
		m.tags, cmd = m.tags.Update(msg)
		m.ctrl.SetTags(m.tags.Value())
	}
	return m, cmd
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		cmd := m.setFocus(focusPrompt)
		return m, cmd
	case "#":
		cmd := m.setFocus(focusTags)
		return m, cmd
	case "esc":
		cmd := m.ctrl.ClearSearch()
		m.viewPage = 0
		m.sync()
		return m, cmd
	case "left", "pgup", "h":
		return m.turnPage(-1)
	case "right", "pgdown", "l":
		return m.turnPage(1)
	}
	var cmd tea.Cmd
	if m.ctrl.State().Mode == toolbar.ModeChat {
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl.State().IsUploading && msg.String() != "esc" {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.ctrl.CloseUpload()
		m.path.Blur()
		return m, nil
	case "ctrl+o":
		m.ctrl.SetOverwrite(!m.ctrl.State().Upload.Overwrite)
		return m, nil
	case "enter":
		m.ctrl.SelectFile(m.path.Value())
		cmd := m.ctrl.SubmitUpload()
		m.sync()
		return m, cmd
	}
	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	m.ctrl.SelectFile(m.path.Value())
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return m, m.ctrl.ConfirmClear(true)
	case "n", "N", "esc":
		return m, m.ctrl.ConfirmClear(false)
	}
	return m, nil
}

// turnPage asks the server for another page in browse mode and moves the
// local window in search mode.
func (m Model) turnPage(delta int) (tea.Model, tea.Cmd) {
	st := m.ctrl.State()
	switch st.Mode {
	case toolbar.ModeBrowse:
		first := st.First + delta*st.Rows
		if first < 0 || first >= st.TotalRecords {
			return m, nil
		}
		return m, m.ctrl.PageChange(first, st.Rows)
	case toolbar.ModeSearch:
		p := m.viewPage + delta
		if p < 0 || p >= pageCount(len(st.Highlights), st.Rows) {
			return m, nil
		}
		m.viewPage = p
		m.sync()
	}
	return m, nil
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.prompt.Blur()
	m.tags.Blur()
	switch f {
	case focusPrompt:
		m.table.Blur()
		return m.prompt.Focus()
	case focusTags:
		m.table.Blur()
		return m.tags.Focus()
	}
	m.table.Focus()
	return nil
}

func (m *Model) layout() {
	w := max(40, m.width)
	m.prompt.Width = w/2 - 12
	m.tags.Width = w/2 - 10
	m.path.Width = w - 20
	m.table.SetColumns(columns(w - 4))
	m.table.SetWidth(w - 2)
	// header, inputs, pager, detail, status, help
	m.table.SetHeight(max(3, m.height-16))
	m.chat.Width = w - 4
	m.chat.Height = max(3, m.height-10)
}

// sync pulls controller state into the widgets.
func (m *Model) sync() {
	st := m.ctrl.State()
	if m.prompt.Value() != st.Prompt {
		m.prompt.SetValue(st.Prompt)
	}
	if m.tags.Value() != st.Tags {
		m.tags.SetValue(st.Tags)
	}
	if st.Upload == nil && m.path.Focused() {
		m.path.Blur()
	}

	rows := max(1, st.Rows)
	m.pager.PerPage = rows
	switch st.Mode {
	case toolbar.ModeSearch:
		if pages := pageCount(len(st.Highlights), rows); m.viewPage >= pages {
			m.viewPage = max(0, pages-1)
		}
		m.pager.SetTotalPages(len(st.Highlights))
		m.pager.Page = m.viewPage
	default:
		m.viewPage = 0
		m.pager.SetTotalPages(st.TotalRecords)
		m.pager.Page = st.First / rows
	}

	m.table.SetRows(toRows(m.visible(st)))
	if n := len(m.table.Rows()); m.table.Cursor() >= n {
		m.table.SetCursor(max(0, n-1))
	}

	m.chat.SetContent(renderTranscript(st))
	m.chat.GotoBottom()
}

// visible returns the rows on screen: the whole server page in browse mode,
// one local page of the result set in search mode.
func (m Model) visible(st toolbar.State) []domain.Highlight {
	if st.Mode != toolbar.ModeSearch {
		return st.Highlights
	}
	rows := max(1, st.Rows)
	start := m.viewPage * rows
	if start >= len(st.Highlights) {
		return nil
	}
	end := min(len(st.Highlights), start+rows)
	return st.Highlights[start:end]
}

func (m Model) selected(st toolbar.State) (domain.Highlight, bool) {
	rows := m.visible(st)
	i := m.table.Cursor()
	if i < 0 || i >= len(rows) {
		return domain.Highlight{}, false
	}
	return rows[i], true
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	st := m.ctrl.State()
	sections := []string{m.renderHeader(st), m.renderInputs()}

	switch {
	case st.ConfirmingClear:
		sections = append(sections, m.renderConfirm())
	case st.Upload != nil:
		sections = append(sections, m.renderUpload(st))
	case st.Mode == toolbar.ModeChat:
		sections = append(sections, BoxStyle.Render(m.chat.View()))
	default:
		sections = append(sections, BoxStyle.Render(m.table.View()), m.renderPager(st), m.renderDetail(st))
	}

	sections = append(sections, m.renderStatus(st), m.renderHelp(st))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(st toolbar.State) string {
	badge := ModeStyle.Render(st.Mode.String())
	if st.RAGEnabled() {
		badge = ChatModeStyle.Render("rag chat")
	}
	return TitleStyle.Render("Highlights") + " " + badge + " " + HelpStyle.Render(m.apiURL)
}

func (m Model) renderInputs() string {
	ps, ts := InputStyle, InputStyle
	switch m.focus {
	case focusPrompt:
		ps = InputFocusedStyle
	case focusTags:
		ts = InputFocusedStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, ps.Render(m.prompt.View()), ts.Render(m.tags.View()))
}

func (m Model) renderPager(st toolbar.State) string {
	if len(st.Highlights) == 0 {
		return HelpStyle.Render("No highlights.")
	}
	return HelpStyle.Render(fmt.Sprintf("page %s  ·  %d highlights", m.pager.View(), st.TotalRecords))
}

func (m Model) renderDetail(st toolbar.State) string {
	h, ok := m.selected(st)
	if !ok {
		return ""
	}
	body := strings.TrimSpace(h.Content)
	if st.Mode == toolbar.ModeSearch {
		body = highlightBestSentence(h.Content, st.Prompt)
	}
	head := TitleStyle.Render(h.BookTitle) + HelpStyle.Render(" by "+h.BookAuthor)
	if len(h.Tags) > 0 {
		head += HelpStyle.Render("  [" + strings.Join(h.Tags, ", ") + "]")
	}
	return lipgloss.NewStyle().Width(max(20, m.width-2)).Render(head + "\n" + body)
}

func (m Model) renderUpload(st toolbar.State) string {
	check := "[ ]"
	if st.Upload.Overwrite {
		check = "[x]"
	}
	lines := []string{
		DialogTitleStyle.Render("Upload highlights CSV"),
		m.path.View(),
		"",
		check + " overwrite existing highlights",
	}
	if st.UploadError != "" {
		lines = append(lines, "", ErrorStyle.Render(st.UploadError))
	}
	if st.IsUploading {
		lines = append(lines, "", BusyStyle.Render("Uploading..."))
	}
	lines = append(lines, "", HelpStyle.Render("enter: upload | ctrl+o: toggle overwrite | esc: cancel"))
	return DialogStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderConfirm() string {
	return DialogStyle.Render(
		DialogTitleStyle.Render("Delete ALL highlights?") + "\n" +
			"This cannot be undone.\n\n" +
			HelpStyle.Render("y: delete | n: cancel"),
	)
}

func (m Model) renderStatus(st toolbar.State) string {
	var parts []string
	switch {
	case st.IsClearing:
		parts = append(parts, BusyStyle.Render("Clearing highlights..."))
	case st.IsUploading:
		parts = append(parts, BusyStyle.Render("Uploading..."))
	case st.IsSearching:
		parts = append(parts, BusyStyle.Render("Searching..."))
	case st.IsGeneratingResponse:
		parts = append(parts, BusyStyle.Render("Generating response..."))
	case st.IsLoadingHighlights:
		parts = append(parts, BusyStyle.Render("Loading highlights..."))
	}
	if st.SearchError != "" {
		parts = append(parts, ErrorStyle.Render(st.SearchError))
	}
	if st.ChatError != "" {
		parts = append(parts, ErrorStyle.Render(st.ChatError))
	}
	if n := st.Notice; n != nil {
		style := SuccessStyle
		if n.Kind == toolbar.NoticeError {
			style = ErrorStyle
		}
		parts = append(parts, style.Render(n.Summary+": "+n.Detail))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderHelp(st toolbar.State) string {
	switch {
	case st.ConfirmingClear, st.Upload != nil:
		return ""
	case m.focus != focusTable:
		return HelpStyle.Render("enter: submit | tab: next field | esc: back to list | ctrl+c: quit")
	case st.RAGEnabled():
		return HelpStyle.Render("/: ask | ↑/↓: scroll | esc: clear chat | ctrl+r: rag off | ctrl+u: upload | ctrl+x: clear all | q: quit")
	}
	return HelpStyle.Render("/: search | #: tags | ←/→: page | esc: clear search | ctrl+r: rag | ctrl+u: upload | ctrl+x: clear all | q: quit")
}

func renderTranscript(st toolbar.State) string {
	var b strings.Builder
	for _, msg := range st.Transcript.Messages() {
		stamp := HelpStyle.Render(msg.Timestamp.Format("15:04"))
		switch msg.Role {
		case toolbar.RoleUser:
			b.WriteString(UserMessageStyle.Render("You") + " " + stamp + "\n")
		case toolbar.RoleAssistant:
			b.WriteString(AssistantMessageStyle.Render("Assistant") + " " + stamp + "\n")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n")
		for _, src := range msg.Sources {
			b.WriteString(SourceStyle.Render("  · " + src.BookTitle + " (" + src.BookAuthor + ")"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if st.IsGeneratingResponse {
		b.WriteString(BusyStyle.Render("Assistant is thinking..."))
	}
	if b.Len() == 0 {
		return HelpStyle.Render("No messages yet.\nPress / and ask a question about your highlights.")
	}
	return b.String()
}

func columns(width int) []table.Column {
	title, author, tags, score := 24, 18, 16, 6
	excerpt := max(10, width-title-author-tags-score-10)
	return []table.Column{
		{Title: "Book", Width: title},
		{Title: "Author", Width: author},
		{Title: "Tags", Width: tags},
		{Title: "Score", Width: score},
		{Title: "Highlight", Width: excerpt},
	}
}

func toRows(hs []domain.Highlight) []table.Row {
	rows := make([]table.Row, 0, len(hs))
	for _, h := range hs {
		rows = append(rows, table.Row{
			h.BookTitle,
			h.BookAuthor,
			strings.Join(h.Tags, ", "),
			fmt.Sprintf("%.2f", h.Score),
			strings.Join(strings.Fields(h.Content), " "),
		})
	}
	return rows
}

func pageCount(items, perPage int) int {
	if items <= 0 || perPage <= 0 {
		return 0
	}
	return (items + perPage - 1) / perPage
}
