package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	// ErrBusy is returned while a completion request is in flight.
	ErrBusy = errors.New("a reply is already being generated")

	// ErrEmptyMessage is returned for empty or whitespace-only input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoCompleter is returned when no completion gateway is configured.
	ErrNoCompleter = errors.New("no completion gateway configured")
)

// Completer issues exactly one completion request for the given ordered
// message list and returns the reply text. Implementations live in
// internal/gateway.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, messages []Message) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// Manager is the single source of truth for the session set and the
// active-session pointer. Every mutation is followed by a full-store
// persistence write. At most one completion request is in flight per
// manager; the loading gate rejects sends while one is pending, and a
// generation counter discards a reply that a newer request superseded.
//
// Manager methods are safe for concurrent use; the UI runs Send and
// Regenerate off its event loop.
type Manager struct {
	mu        sync.Mutex
	store     Store
	completer Completer

	sessions []*Session
	activeID string

	loading bool
	gen     uint64

	warnf func(format string, args ...any)
}

// NewManager creates a manager with injected persistence and network
// dependencies. completer may be nil for offline use (the sessions CLI);
// Hydrate must be called before any other operation.
func NewManager(store Store, completer Completer) *Manager {
	return &Manager{
		store:     store,
		completer: completer,
		warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// SetWarnf replaces the destination for persistence-failure warnings.
// The TUI routes them into its status line instead of stderr.
func (m *Manager) SetWarnf(fn func(format string, args ...any)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fn != nil {
		m.warnf = fn
	}
}

// Hydrate reads persisted state into the manager. It fails soft: a read
// error or corrupt payload degrades to a single fresh default session.
// The first session of the loaded sequence becomes active.
func (m *Manager) Hydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, err := m.store.Load()
	if err != nil {
		m.warnf("warning: could not read saved sessions, starting fresh: %v", err)
		sessions = nil
	}
	if len(sessions) == 0 {
		sessions = []*Session{New()}
	}
	m.sessions = sessions
	m.activeID = sessions[0].ID
	m.persistLocked()
}

// Sessions returns the ordered session sequence, most recent first.
func (m *Manager) Sessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Active returns the currently active session.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked()
}

// SetActive switches the active session. Unknown IDs are ignored.
func (m *Manager) SetActive(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findLocked(id) != nil {
		m.activeID = id
	}
}

// Loading reports whether a completion request is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// CreateSession builds a fresh default session, inserts it at the front
// of the sequence and makes it active.
func (m *Manager) CreateSession() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := New()
	m.sessions = append([]*Session{s}, m.sessions...)
	m.activeID = s.ID
	m.persistLocked()
	return s
}

// DeleteSession removes the session with the given ID. Deleting the last
// session immediately creates a fresh default one; deleting the active
// session reassigns the pointer to the first remaining session.
func (m *Manager) DeleteSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.sessions[:0]
	for _, s := range m.sessions {
		if s.ID != id {
			next = append(next, s)
		}
	}
	if len(next) == len(m.sessions) {
		return
	}
	if len(next) == 0 {
		next = append(next, New())
	}
	m.sessions = next
	if m.activeID == id {
		m.activeID = next[0].ID
	}
	m.persistLocked()
}

// RenameSession sets the session title. Empty titles are a no-op.
func (m *Manager) RenameSession(id, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.findLocked(id)
	if s == nil {
		return
	}
	s.Title = title
	s.UpdatedAt = time.Now()
	m.persistLocked()
}

// SetTopic sets the session's topic instruction.
func (m *Manager) SetTopic(id, topic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.findLocked(id)
	if s == nil {
		return
	}
	s.Topic = topic
	s.UpdatedAt = time.Now()
	m.persistLocked()
}

// ClearTopic removes the session's topic instruction.
func (m *Manager) ClearTopic(id string) {
	m.SetTopic(id, "")
}

// AppendUserMessage appends a user message to the session, applying the
// auto-title rule. It reports false without mutating anything when the
// content is empty/whitespace-only or a completion request is in flight.
func (m *Manager) AppendUserMessage(id, content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loading {
		return false
	}
	s := m.findLocked(id)
	if s == nil {
		return false
	}
	m.appendUserLocked(s, content)
	return true
}

// AppendAssistantMessage appends an assistant reply to the session.
func (m *Manager) AppendAssistantMessage(id, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.findLocked(id)
	if s == nil {
		return
	}
	m.appendLocked(s, Message{Role: RoleAssistant, Content: content})
}

// AppendErrorMessage appends a failure as a visibly marked assistant
// message; errors are displayed in the transcript, never raised.
func (m *Manager) AppendErrorMessage(id, text string) {
	m.AppendAssistantMessage(id, errorContent(text))
}

// TruncateLastAssistantReply removes the session's trailing assistant
// message if there is one, and returns the resulting history for use as
// the next request context.
func (m *Manager) TruncateLastAssistantReply(id string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.findLocked(id)
	if s == nil {
		return nil
	}
	m.truncateLocked(s)
	return append([]Message(nil), s.Messages...)
}

// Send appends content as a user message to the active session and
// requests one completion for it, blocking until the reply (or the error
// substitute message) has been appended and persisted. While the request
// is in flight the loading gate rejects further sends with ErrBusy.
func (m *Manager) Send(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyMessage
	}
	if m.completer == nil {
		return ErrNoCompleter
	}

	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return ErrBusy
	}
	s := m.activeLocked()
	m.appendUserLocked(s, content)
	id, gen, payload := m.beginRequestLocked(s)
	m.mu.Unlock()

	m.settle(ctx, id, gen, payload)
	return nil
}

// Regenerate removes the active session's trailing assistant reply and
// replays the last user turn without duplicating it. A session with
// fewer than two messages, or one whose last message is not yet
// answered, is replayed as-is.
func (m *Manager) Regenerate(ctx context.Context) error {
	if m.completer == nil {
		return ErrNoCompleter
	}

	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return ErrBusy
	}
	s := m.activeLocked()
	if len(s.Messages) < 2 {
		m.mu.Unlock()
		return nil
	}
	m.truncateLocked(s)
	id, gen, payload := m.beginRequestLocked(s)
	m.mu.Unlock()

	m.settle(ctx, id, gen, payload)
	return nil
}

// ---------- internal ----------

// beginRequestLocked sets the loading gate, bumps the generation counter
// and snapshots the outbound context for session s.
func (m *Manager) beginRequestLocked(s *Session) (id string, gen uint64, payload []Message) {
	m.loading = true
	m.gen++
	return s.ID, m.gen, BuildContext(s)
}

// settle issues the request and applies its outcome. The gate is cleared
// unconditionally once the request settles; the reply is dropped when a
// newer request superseded this one or the session no longer exists.
func (m *Manager) settle(ctx context.Context, id string, gen uint64, payload []Message) {
	reply, err := m.completer.Complete(ctx, payload)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false

	if gen != m.gen {
		return
	}
	s := m.findLocked(id)
	if s == nil {
		return
	}
	if err != nil {
		m.appendLocked(s, Message{Role: RoleAssistant, Content: errorContent(err.Error())})
		return
	}
	m.appendLocked(s, Message{Role: RoleAssistant, Content: reply})
}

func (m *Manager) appendUserLocked(s *Session, content string) {
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: content})
	s.maybeAutoTitle(content)
	s.UpdatedAt = time.Now()
	m.persistLocked()
}

func (m *Manager) appendLocked(s *Session, msg Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
	m.persistLocked()
}

func (m *Manager) truncateLocked(s *Session) {
	n := len(s.Messages)
	if n == 0 || s.Messages[n-1].Role != RoleAssistant {
		return
	}
	s.Messages = s.Messages[:n-1]
	s.UpdatedAt = time.Now()
	m.persistLocked()
}

func (m *Manager) activeLocked() *Session {
	if s := m.findLocked(m.activeID); s != nil {
		return s
	}
	// The pointer always references a present session; fall back to the
	// first one if it was never set.
	return m.sessions[0]
}

func (m *Manager) findLocked(id string) *Session {
	for _, s := range m.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (m *Manager) persistLocked() {
	if err := m.store.Save(m.sessions); err != nil {
		m.warnf("warning: could not save sessions: %v", err)
	}
}

func errorContent(text string) string {
	return "❌ " + text
}
