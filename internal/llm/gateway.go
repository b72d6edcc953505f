// Package llm talks to the external text-generation service.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Gateway is the external generation collaborator: it accepts an assembled
// payload and returns reply text or fails. Failures never touch stored state.
type Gateway interface {
	Generate(ctx context.Context, msgs []llms.MessageContent) (string, error)
}

// GatewayError wraps any failure to obtain a reply: network errors,
// non-success responses, malformed replies. Callers recover locally with a
// persona fallback instead of surfacing it.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("gateway: %v", e.Err) }

func (e *GatewayError) Unwrap() error { return e.Err }

// Service calls an OpenAI-compatible chat endpoint. Each call is a single
// blocking request bounded by the configured timeout; no retries.
type Service struct {
	llm     *openai.LLM
	timeout time.Duration
}

var _ Gateway = (*Service)(nil)

func New(baseURL, token, model string, timeout time.Duration) (*Service, error) {
	client, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &Service{llm: client, timeout: timeout}, nil
}

func (s *Service) Generate(ctx context.Context, msgs []llms.MessageContent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.llm.GenerateContent(ctx, msgs)
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", &GatewayError{Err: fmt.Errorf("empty completion")}
	}
	return resp.Choices[0].Content, nil
}
