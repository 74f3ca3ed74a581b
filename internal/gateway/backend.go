// Package gateway provides the transports behind the completion port:
// the remote service's /chat endpoint and, for running without it,
// direct OpenAI-compatible and Anthropic completions.
package gateway

import (
	"context"

	"github.com/tutorctl/tutorctl/internal/api"
	"github.com/tutorctl/tutorctl/internal/session"
)

// Backend forwards the context window to the remote service's /chat
// endpoint. This is the normal mode: the service holds the model keys.
type Backend struct {
	client *api.Client
}

func NewBackend(client *api.Client) *Backend {
	return &Backend{client: client}
}

func (b *Backend) Complete(ctx context.Context, messages []session.Message) (string, error) {
	wire := make([]api.ChatMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, api.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return b.client.Chat(ctx, wire)
}
