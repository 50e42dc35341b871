// Package chat is the conversational fallback: utterances the router
// classified as "no tool" become a plain LLM reply through the same
// OpenAI-compatible endpoint, with a primary-then-fallback model chain.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
)

// Config tunes the conversational call. Unlike classification this wants
// some sampling freedom and a real output budget.
type Config struct {
	Model         string
	FallbackModel string
	SystemPrompt  string
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
}

// Client wraps the text-generation collaborator.
type Client struct {
	api openai.Client
	cfg Config
}

// New returns a chat client on an already-configured API client.
func New(api openai.Client, cfg Config) *Client {
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{api: api, cfg: cfg}
}

// Reply generates a spoken answer for userText. The primary model is tried
// first, then the fallback; if both fail the caller gets a canned,
// speech-safe message and no error, because a collaborator outage must not
// crash the audio loop.
func (c *Client) Reply(ctx context.Context, userText string) string {
	if strings.TrimSpace(userText) == "" {
		return "I didn't catch that. Could you repeat?"
	}

	out, err := c.complete(ctx, c.cfg.Model, userText)
	if err == nil && out != "" {
		return out
	}
	if err != nil {
		slog.Warn("primary chat model failed", "model", c.cfg.Model, "err", err)
	}

	if c.cfg.FallbackModel != "" {
		out, err = c.complete(ctx, c.cfg.FallbackModel, userText)
		if err == nil && out != "" {
			return out
		}
		if err != nil {
			slog.Error("fallback chat model failed", "model", c.cfg.FallbackModel, "err", err)
		}
	}

	return "I'm having trouble thinking right now. Please try again."
}

func (c *Client) complete(ctx context.Context, model, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.cfg.SystemPrompt),
			openai.UserMessage(userText),
		},
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(int64(c.cfg.MaxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return CleanReply(resp.Choices[0].Message.Content), nil
}

// poisonMarkers cut a reply short: everything from the first marker on is
// model self-narration or markdown that reads terribly out loud.
var poisonMarkers = []string{"---", "###", "```", "Note:", "Disclaimer:", "As an AI language"}

// CleanReply strips artifacts small local models leave in their output so
// the result is safe to hand to the speech synthesizer.
func CleanReply(raw string) string {
	raw = strings.TrimSpace(raw)

	for _, marker := range poisonMarkers {
		if idx := strings.Index(raw, marker); idx >= 0 {
			raw = strings.TrimSpace(raw[:idx])
		}
	}

	for _, q := range []string{`"`, "'"} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) > 1 {
			raw = raw[1 : len(raw)-1]
		}
	}

	return strings.TrimSpace(raw)
}
