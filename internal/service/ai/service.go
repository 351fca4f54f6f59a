package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ErrModelUnavailable reports that the model did not produce a reply within
// the retry budget. The request fails; nothing above this layer retries.
var ErrModelUnavailable = errors.New("model unavailable")

// ErrEmptyMessage reports a user message that is empty after trimming.
var ErrEmptyMessage = errors.New("message is empty")

// Config holds the fixed per-call behavior of the model client.
type Config struct {
	// Directive is the behavioral script, rendered once at process start and
	// sent verbatim on every call. Never mutated afterwards.
	Directive string
	// Timeout bounds one model call. It suspends only the calling request.
	Timeout time.Duration
	// RetryDelay is the pause before the single retry.
	RetryDelay time.Duration
	// ModelName is recorded on assistant rows.
	ModelName string
}

// Service produces assistant replies under the fixed directive. It holds no
// per-session state; every call carries exactly the directive and the new
// user message.
type Service struct {
	cfg   Config
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the prompt chain over the supplied chat model. The
// model is injected so tests can stub it.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Service, error) {
	if cfg.Directive == "" {
		return nil, fmt.Errorf("directive is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{cfg: cfg, chain: runnable}, nil
}

// ModelName returns the configured model identifier.
func (s *Service) ModelName() string {
	return s.cfg.ModelName
}

// Generate produces the assistant reply for one user message. On timeout or
// transport error it retries exactly once after a short fixed delay, then
// fails with ErrModelUnavailable.
func (s *Service) Generate(ctx context.Context, userMessage string) (string, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return "", ErrEmptyMessage
	}

	reply, err := s.invoke(ctx, userMessage)
	if err != nil && ctx.Err() == nil {
		log.Printf("[ai] model call failed, retrying once: %v", err)
		select {
		case <-time.After(s.cfg.RetryDelay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrModelUnavailable, ctx.Err())
		}
		reply, err = s.invoke(ctx, userMessage)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", ErrModelUnavailable)
	}
	return reply, nil
}

func (s *Service) invoke(ctx context.Context, userMessage string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	response, err := s.chain.Invoke(callCtx, map[string]any{
		"system": s.cfg.Directive,
		"query":  userMessage,
	})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}
