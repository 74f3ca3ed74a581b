package session

import (
	"fmt"
	"testing"
)

func sessionWithMessages(n int) *Session {
	s := New()
	s.Messages = nil
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		s.Messages = append(s.Messages, Message{Role: role, Content: fmt.Sprintf("m%d", i)})
	}
	return s
}

func TestBuildContextTruncatesToWindow(t *testing.T) {
	s := sessionWithMessages(20)

	got := BuildContext(s)
	if len(got) != MaxContextMessages {
		t.Fatalf("context size = %d, want %d", len(got), MaxContextMessages)
	}
	// The window is the most recent entries in their original order.
	if got[0].Content != "m8" || got[len(got)-1].Content != "m19" {
		t.Errorf("window = %q .. %q, want m8 .. m19", got[0].Content, got[len(got)-1].Content)
	}
}

func TestBuildContextShortHistoryPassesThrough(t *testing.T) {
	s := sessionWithMessages(3)
	got := BuildContext(s)
	if len(got) != 3 {
		t.Fatalf("context size = %d, want 3", len(got))
	}
	for i, m := range got {
		if m.Content != fmt.Sprintf("m%d", i) {
			t.Errorf("message %d = %q", i, m.Content)
		}
	}
}

func TestBuildContextInjectsTopicSystemMessage(t *testing.T) {
	s := sessionWithMessages(2)
	s.Topic = "Teach SQL with practice questions and corrections."

	got := BuildContext(s)
	if len(got) != 3 {
		t.Fatalf("context size = %d, want system + 2", len(got))
	}
	if got[0].Role != RoleSystem || got[0].Content != s.Topic {
		t.Errorf("first entry = %+v, want the topic as a system message", got[0])
	}

	// The synthetic system message never enters the persisted history.
	if len(s.Messages) != 2 {
		t.Error("BuildContext must not mutate the session history")
	}
	for _, m := range s.Messages {
		if m.Role == RoleSystem {
			t.Error("system message leaked into the history")
		}
	}
}

func TestBuildContextTopicRidesOutsideTheWindow(t *testing.T) {
	s := sessionWithMessages(20)
	s.Topic = "some topic"

	got := BuildContext(s)
	if len(got) != MaxContextMessages+1 {
		t.Fatalf("context size = %d, want window + system", len(got))
	}
	if got[0].Role != RoleSystem {
		t.Error("system message must precede the window")
	}
	if got[1].Content != "m8" {
		t.Errorf("window start = %q, want m8", got[1].Content)
	}
}
