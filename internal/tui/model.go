// Package tui renders the chat UI: a bubbletea model with a session
// sidebar, transcript viewport and composer, plus a plain REPL fallback
// for non-terminal use. All state changes go through the session manager.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tutorctl/tutorctl/internal/session"
	"github.com/tutorctl/tutorctl/internal/topic"
)

// ---------- messages ----------

// completionDoneMsg is sent when a Send/Regenerate settles.
type completionDoneMsg struct{ err error }

// ---------- input modes ----------

type uiMode int

const (
	modeCompose uiMode = iota
	modeRename         // textinput holds the new title
	modeTopic          // digit picks a topic, c clears
	modeSuggest        // digit sends a suggestion
)

// ---------- styles ----------

var (
	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			PaddingRight(1)

	sidebarActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	sidebarEntryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250"))

	sidebarTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Bold(true)

	topicBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	suggestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

const (
	sidebarWidth  = 30
	headerHeight  = 1
	suggestHeight = 1
	statusHeight  = 1
	inputHeight   = 1
)

// renderKey tracks what the cached transcript was rendered from.
type renderKey struct {
	sessionID string
	msgCount  int
	width     int
}

// Model is the bubbletea model for the chat UI.
type Model struct {
	mgr *session.Manager

	viewport  viewport.Model
	textinput textinput.Model
	spinner   spinner.Model

	width  int
	height int

	mode        uiMode
	loading     bool
	status      string
	showSidebar bool
	quitting    bool

	rendered    string
	renderedFor renderKey
}

// NewModel creates the initial model around an already hydrated manager.
func NewModel(mgr *session.Manager) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your message…"
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		mgr:         mgr,
		viewport:    viewport.New(80, 24),
		textinput:   ti,
		spinner:     sp,
		showSidebar: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewport()
		m.renderedFor = renderKey{}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case completionDoneMsg:
		m.loading = false
		switch {
		case msg.err == nil:
		case errors.Is(msg.err, session.ErrBusy):
			m.status = "a reply is still being generated"
		case errors.Is(msg.err, session.ErrEmptyMessage):
		default:
			m.status = msg.err.Error()
		}

	case tea.KeyMsg:
		// Keys go to the composer and bindings only; the viewport would
		// otherwise scroll on letters typed into the input.
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		if m.quitting {
			return m, tea.Quit
		}
		m.refreshViewport()
		return m, cmd
	}

	m.refreshViewport()

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, nil
	}

	switch m.mode {
	case modeRename:
		switch key {
		case "enter":
			title := strings.TrimSpace(m.textinput.Value())
			if title != "" {
				m.mgr.RenameSession(m.mgr.Active().ID, title)
			}
			m.exitMode()
			return m, nil
		case "esc":
			m.exitMode()
			return m, nil
		}

	case modeTopic:
		switch key {
		case "esc":
			m.exitMode()
			return m, nil
		case "c":
			m.mgr.ClearTopic(m.mgr.Active().ID)
			m.status = "topic cleared"
			m.exitMode()
			return m, nil
		default:
			topics := topic.All()
			if n := digit(key); n >= 1 && n <= len(topics) {
				t := topics[n-1]
				m.mgr.SetTopic(m.mgr.Active().ID, t.Prompt)
				m.exitMode()
				return m.dispatchSend(topic.Kickoff(t.Label))
			}
		}
		return m, nil

	case modeSuggest:
		switch key {
		case "esc":
			m.exitMode()
			return m, nil
		default:
			prompts := topic.Suggestions(m.mgr.Active().Topic)
			if n := digit(key); n >= 1 && n <= len(prompts) {
				p := prompts[n-1]
				m.exitMode()
				return m.dispatchSend(p)
			}
		}
		return m, nil

	default: // modeCompose
		switch key {
		case "enter":
			content := strings.TrimSpace(m.textinput.Value())
			if content == "" {
				return m, nil
			}
			m.textinput.SetValue("")
			return m.dispatchSend(content)
		case "ctrl+n":
			m.mgr.CreateSession()
			m.status = ""
			return m, nil
		case "ctrl+x":
			m.mgr.DeleteSession(m.mgr.Active().ID)
			m.status = "chat deleted"
			return m, nil
		case "ctrl+r":
			m.mode = modeRename
			m.textinput.SetValue(m.mgr.Active().Title)
			m.textinput.Prompt = "rename: "
			return m, nil
		case "ctrl+t":
			m.mode = modeTopic
			return m, nil
		case "ctrl+p":
			m.mode = modeSuggest
			return m, nil
		case "ctrl+g":
			return m.dispatchRegenerate()
		case "ctrl+e":
			m.exportActive()
			return m, nil
		case "ctrl+b":
			m.showSidebar = !m.showSidebar
			m.layoutViewport()
			m.renderedFor = renderKey{}
			return m, nil
		case "tab":
			m.cycleSession(1)
			return m, nil
		case "shift+tab":
			m.cycleSession(-1)
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

// ---------- actions ----------

// dispatchSend runs the blocking send off the UI loop; the transcript
// shows the user message on the next spinner tick and the reply when the
// request settles.
func (m Model) dispatchSend(content string) (Model, tea.Cmd) {
	if m.loading {
		m.status = "a reply is still being generated"
		return m, nil
	}
	m.loading = true
	m.status = ""
	mgr := m.mgr
	return m, func() tea.Msg {
		return completionDoneMsg{err: mgr.Send(context.Background(), content)}
	}
}

func (m Model) dispatchRegenerate() (Model, tea.Cmd) {
	if m.loading {
		m.status = "a reply is still being generated"
		return m, nil
	}
	m.loading = true
	m.status = ""
	mgr := m.mgr
	return m, func() tea.Msg {
		return completionDoneMsg{err: mgr.Regenerate(context.Background())}
	}
}

func (m *Model) cycleSession(step int) {
	sessions := m.mgr.Sessions()
	active := m.mgr.Active()
	for i, s := range sessions {
		if s.ID == active.ID {
			next := (i + step + len(sessions)) % len(sessions)
			m.mgr.SetActive(sessions[next].ID)
			return
		}
	}
}

func (m *Model) exportActive() {
	s := m.mgr.Active()
	name := session.ExportFilename(s)
	if err := os.WriteFile(name, []byte(session.ExportText(s)), 0644); err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	m.status = "exported to " + name
}

func (m *Model) exitMode() {
	m.mode = modeCompose
	m.textinput.SetValue("")
	m.textinput.Prompt = "> "
}

// ---------- rendering ----------

func (m *Model) layoutViewport() {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth
	}
	h := m.height - headerHeight - suggestHeight - statusHeight - inputHeight
	if w < 20 {
		w = 20
	}
	if h < 1 {
		h = 1
	}
	m.viewport.Width = w
	m.viewport.Height = h
	m.textinput.Width = w - 4
}

// refreshViewport rebuilds the transcript when the active session's
// content changed, and re-applies the spinner line while loading.
func (m *Model) refreshViewport() {
	active := m.mgr.Active()
	key := renderKey{sessionID: active.ID, msgCount: len(active.Messages), width: m.viewport.Width}
	changed := key != m.renderedFor
	if changed {
		m.rendered = m.renderTranscript(active)
		m.renderedFor = key
	}

	content := m.rendered
	if m.loading {
		content += "\n" + m.spinner.View() + " Thinking…"
	}
	m.viewport.SetContent(content)
	// Follow the tail on new content, but leave manual scrolling alone.
	if changed || m.loading {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderTranscript(s *session.Session) string {
	var sb strings.Builder
	for _, msg := range s.Messages {
		if msg.Role == session.RoleUser {
			sb.WriteString(userStyle.Render("You: " + msg.Content))
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(m.renderMarkdown(msg.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderMarkdown renders assistant text with glamour, falling back to
// the raw text when rendering fails.
func (m *Model) renderMarkdown(text string) string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	main := m.renderHeader() + "\n" +
		m.viewport.View() + "\n" +
		m.renderSuggestRow() + "\n" +
		m.renderStatusBar() + "\n" +
		m.renderInputLine()

	if !m.showSidebar {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}

func (m Model) renderHeader() string {
	active := m.mgr.Active()
	header := headerStyle.Render(active.Title)
	if active.Topic != "" {
		label := topic.LabelFor(active.Topic)
		if label == "" {
			label = "custom"
		}
		header += " " + topicBadgeStyle.Render("• topic: "+label)
	}
	return header
}

func (m Model) renderSidebar() string {
	height := m.height - 1
	if height < 1 {
		height = 1
	}

	active := m.mgr.Active()
	var lines []string
	lines = append(lines, headerStyle.Render("Chats"))
	for _, s := range m.mgr.Sessions() {
		title := truncate(s.Title, sidebarWidth-4)
		when := sidebarTimeStyle.Render(s.UpdatedAt.Format("Jan 2 15:04"))
		if s.ID == active.ID {
			lines = append(lines, sidebarActiveStyle.Render("▌ "+title))
		} else {
			lines = append(lines, sidebarEntryStyle.Render("  "+title))
		}
		lines = append(lines, "  "+when)
	}

	body := strings.Join(lines, "\n")
	return sidebarStyle.Width(sidebarWidth - 1).Height(height).Render(body)
}

func (m Model) renderSuggestRow() string {
	switch m.mode {
	case modeTopic:
		var parts []string
		for i, t := range topic.All() {
			parts = append(parts, fmt.Sprintf("[%d] %s", i+1, t.Label))
		}
		parts = append(parts, "[c] clear", "[esc] cancel")
		return suggestStyle.Render("Topic: " + strings.Join(parts, "  "))
	case modeSuggest:
		var parts []string
		for i, p := range topic.Suggestions(m.mgr.Active().Topic) {
			parts = append(parts, fmt.Sprintf("[%d] %s", i+1, truncate(p, 40)))
		}
		return suggestStyle.Render(strings.Join(parts, "  "))
	default:
		return suggestStyle.Render("ctrl+n new  ctrl+t topic  ctrl+p suggest  ctrl+g regen  ctrl+r rename  ctrl+x delete  ctrl+e export  tab switch")
	}
}

func (m Model) renderStatusBar() string {
	status := fmt.Sprintf(" %d chats", len(m.mgr.Sessions()))
	if m.loading {
		status += " | thinking…"
	}
	if m.status != "" {
		status += " | " + errorStyle.Render(m.status)
	}
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	return statusBarStyle.Width(width).Render(status)
}

func (m Model) renderInputLine() string {
	return m.textinput.View()
}

// ---------- helpers ----------

func digit(key string) int {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return int(key[0] - '0')
	}
	return 0
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	return s[:maxLen-1] + "…"
}
