package app

import (
	"context"
	"log/slog"
	"strings"

	"skillbridge/internal/common"
	"skillbridge/internal/integration/assistant"
)

type AssistantService struct {
	client assistant.Client
	logger *slog.Logger
}

func NewAssistantService(client assistant.Client, logger *slog.Logger) *AssistantService {
	return &AssistantService{client: client, logger: logger}
}

type AssistantReply struct {
	Text     string `json:"reply"`
	Fallback bool   `json:"fallback,omitempty"`
}

// Chat forwards the prompt to the model endpoint. Upstream failure surfaces
// the fallback message exactly once instead of an error page.
func (s *AssistantService) Chat(ctx context.Context, prompt string) (*AssistantReply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, common.NewValidationError("empty prompt", map[string]string{"prompt": "prompt is required"})
	}
	reply, err := s.client.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("assistant request failed", slog.String("error", err.Error()))
		return &AssistantReply{Text: assistant.FallbackMessage, Fallback: true}, nil
	}
	return &AssistantReply{Text: reply}, nil
}
