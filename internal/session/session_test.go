package session

import (
	"strings"
	"testing"
)

func TestNewSessionDefaults(t *testing.T) {
	s := New()
	if s.ID == "" {
		t.Error("expected a generated ID")
	}
	if s.Title != DefaultTitle {
		t.Errorf("title = %q, want %q", s.Title, DefaultTitle)
	}
	if s.Topic != "" {
		t.Errorf("topic = %q, want empty", s.Topic)
	}
	if len(s.Messages) != 1 || s.Messages[0].Content != Greeting {
		t.Errorf("expected the seeded greeting, got %+v", s.Messages)
	}
	if New().ID == s.ID {
		t.Error("IDs must be unique")
	}
}

func TestShortID(t *testing.T) {
	s := &Session{ID: "0123456789abcdef"}
	if got := s.ShortID(); got != "01234567" {
		t.Errorf("ShortID = %q", got)
	}
	s.ID = "abc"
	if got := s.ShortID(); got != "abc" {
		t.Errorf("ShortID of short ID = %q", got)
	}
}

func TestExportText(t *testing.T) {
	s := &Session{
		Title: "Algebra help",
		Messages: []Message{
			{Role: RoleAssistant, Content: "Hi!"},
			{Role: RoleUser, Content: "solve x+1=2"},
		},
	}
	got := ExportText(s)
	want := "ASSISTANT: Hi!\n\nUSER: solve x+1=2"
	if got != want {
		t.Errorf("ExportText = %q, want %q", got, want)
	}
}

func TestExportFilename(t *testing.T) {
	s := &Session{Title: "My study plan"}
	if got := ExportFilename(s); got != "My_study_plan.txt" {
		t.Errorf("filename = %q", got)
	}
	s.Title = ""
	if got := ExportFilename(s); got != "chat.txt" {
		t.Errorf("filename for empty title = %q", got)
	}
}

func TestMaybeAutoTitleMultibyte(t *testing.T) {
	s := New()
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: strings.Repeat("日", 50)})
	s.maybeAutoTitle(strings.Repeat("日", 50))
	if got := len([]rune(s.Title)); got != 28 {
		t.Errorf("auto title = %d runes, want 28", got)
	}
	if !strings.HasPrefix(s.Title, "日") {
		t.Errorf("title %q lost its content", s.Title)
	}
}
