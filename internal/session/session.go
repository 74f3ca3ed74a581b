// Package session implements the local chat session store: the session
// and message types, the persistence backends, and the manager that owns
// the session set, the active-session pointer and the send/regenerate
// flows against a completion gateway.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in a session's history. Role and content are
// immutable once appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

const (
	// DefaultTitle is the title of a freshly created session until the
	// first user message auto-titles it or the user renames it.
	DefaultTitle = "New chat"

	// Greeting seeds every new session so the history is never empty.
	Greeting = "Hi there 👋\nPick a topic or ask me anything."

	// maxAutoTitle caps the auto-set title taken from the first user message.
	maxAutoTitle = 28
)

// Session is one conversation thread. Mutate it only through the Manager.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a session with a fresh ID, the default title, no topic and
// the seeded assistant greeting.
func New() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Messages:  []Message{{Role: RoleAssistant, Content: Greeting}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ShortID returns the first 8 characters of the session ID for display.
func (s *Session) ShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// userMessageCount counts the user-authored messages in the history.
func (s *Session) userMessageCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// maybeAutoTitle sets the title to a prefix of content the first time
// exactly one user message exists. Once the title has been auto-set or
// renamed it is never overwritten automatically again.
func (s *Session) maybeAutoTitle(content string) {
	if s.Title != DefaultTitle || s.userMessageCount() != 1 {
		return
	}
	r := []rune(content)
	if len(r) > maxAutoTitle {
		r = r[:maxAutoTitle]
	}
	s.Title = string(r)
}

// ExportText renders a session as plain text, one "ROLE: content"
// paragraph per message.
func ExportText(s *Session) string {
	lines := make([]string, 0, len(s.Messages))
	for _, m := range s.Messages {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(string(m.Role)), m.Content))
	}
	return strings.Join(lines, "\n\n")
}

// ExportFilename returns the suggested file name for an exported session.
func ExportFilename(s *Session) string {
	name := strings.ReplaceAll(s.Title, " ", "_")
	if name == "" {
		name = "chat"
	}
	return name + ".txt"
}
