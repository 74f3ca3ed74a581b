// Package topic is the pure topic and prompt-suggestion policy. It has
// no side effects; choosing a topic and sending its kickoff message is
// the caller's job, through the normal send path.
package topic

import "fmt"

// Topic pairs a display label with the instruction text injected as a
// system message while the topic is active.
type Topic struct {
	Label  string
	Prompt string
}

// All returns the fixed topic set, in display order.
func All() []Topic {
	return []Topic{
		{Label: "Interview Prep", Prompt: "You are my interview coach. Ask clarifying questions and give structured advice."},
		{Label: "DSA", Prompt: "Teach me DSA step-by-step with simple examples and practice questions."},
		{Label: "Full-Stack", Prompt: "Act as a senior full-stack mentor. Give practical steps and code tips."},
		{Label: "AI/ML", Prompt: "Explain ML from scratch in very simple terms with examples."},
		{Label: "SQL/DB", Prompt: "Teach SQL with practice questions and corrections."},
	}
}

// Suggestions returns four candidate prompts: a generic set when no
// topic is active, else a set parameterized by the topic instruction.
func Suggestions(topic string) []string {
	if topic == "" {
		return []string{
			"Create a 2-week plan to improve my coding skills.",
			"Explain React state & props with examples.",
			"Help me debug my FastAPI + Postgres project.",
			"Give me 10 SQL practice questions with answers.",
		}
	}
	return []string{
		fmt.Sprintf("Give me a beginner roadmap for %s.", topic),
		fmt.Sprintf("Ask me 5 questions to assess my level in %s.", topic),
		fmt.Sprintf("Give me one mini-project idea for %s and steps.", topic),
		fmt.Sprintf("Explain the top 5 concepts in %s with examples.", topic),
	}
}

// Kickoff returns the user message sent when a topic is chosen.
func Kickoff(label string) string {
	return fmt.Sprintf("My topic: %s. Start by asking me 3 questions to know my level.", label)
}

// LabelFor maps an active topic instruction back to its display label.
// Unknown instructions (never produced by this policy) yield "".
func LabelFor(prompt string) string {
	for _, t := range All() {
		if t.Prompt == prompt {
			return t.Label
		}
	}
	return ""
}
