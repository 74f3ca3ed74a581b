package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/tutorctl/tutorctl/internal/session"
)

// OpenAI completes directly against an OpenAI-compatible API,
// non-streaming. Used when no backend service is configured.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (p *OpenAI) Complete(ctx context.Context, messages []session.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: buildOpenAIMessages(messages),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildOpenAIMessages(messages []session.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case session.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case session.RoleUser:
			params = append(params, openai.UserMessage(m.Content))
		case session.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		}
	}
	return params
}
