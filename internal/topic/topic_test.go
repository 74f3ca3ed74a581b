package topic

import (
	"strings"
	"testing"
)

func TestAllIsFixedAndOrdered(t *testing.T) {
	topics := All()
	if len(topics) != 5 {
		t.Fatalf("expected 5 topics, got %d", len(topics))
	}
	labels := []string{"Interview Prep", "DSA", "Full-Stack", "AI/ML", "SQL/DB"}
	for i, want := range labels {
		if topics[i].Label != want {
			t.Errorf("topic %d = %q, want %q", i, topics[i].Label, want)
		}
		if topics[i].Prompt == "" {
			t.Errorf("topic %q has no instruction", topics[i].Label)
		}
	}
}

func TestSuggestionsGeneric(t *testing.T) {
	got := Suggestions("")
	if len(got) != 4 {
		t.Fatalf("expected 4 generic suggestions, got %d", len(got))
	}
	for _, s := range got {
		if s == "" {
			t.Error("empty suggestion")
		}
	}
}

func TestSuggestionsParameterizedByTopic(t *testing.T) {
	topic := All()[1].Prompt
	got := Suggestions(topic)
	if len(got) != 4 {
		t.Fatalf("expected 4 topic suggestions, got %d", len(got))
	}
	for i, s := range got {
		if !strings.Contains(s, topic) {
			t.Errorf("suggestion %d does not reference the topic: %q", i, s)
		}
	}
}

func TestKickoff(t *testing.T) {
	got := Kickoff("DSA")
	if got != "My topic: DSA. Start by asking me 3 questions to know my level." {
		t.Errorf("kickoff = %q", got)
	}
}

func TestLabelForRoundTrip(t *testing.T) {
	for _, tp := range All() {
		if got := LabelFor(tp.Prompt); got != tp.Label {
			t.Errorf("LabelFor(%q prompt) = %q, want %q", tp.Label, got, tp.Label)
		}
	}
	if got := LabelFor("never seen this"); got != "" {
		t.Errorf("unknown instruction mapped to %q", got)
	}
}
