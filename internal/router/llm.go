package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go/v3"
)

// classifierPrompt instructs the model to emit exactly one JSON object.
// Worked examples cover each tool's action vocabulary; models follow the
// shape of the examples far more reliably than the prose.
const classifierPrompt = `You are a command classifier for a voice assistant called Aria.
Given the user's spoken input, determine if they want to use a TOOL or just CHAT.

Available tools:
- system_info: time, date, day, battery level
- app_control: open/close apps, volume up/down/mute, brightness up/down
- reminder: set timer, set reminder, countdown, list timers, cancel timers
- web_search: search the internet, look up information, weather, news, prices, scores
- whatsapp: send a WhatsApp message to someone

Respond with ONLY a JSON object, nothing else. No markdown, no explanation.

IMPORTANT RULES:
- "Open [any app name]" is ALWAYS app_control with action open_app, never another tool.
- Only use the whatsapp tool when the user wants to SEND a message.
- Any question about weather, news, prices, scores, or current real-world information is ALWAYS web_search.

If it's a tool command:
{"tool": "tool_name", "action": "specific_action", "params": {"key": "value"}}

If it's just conversation:
{"tool": "none"}

Examples:
User: "What time is it?" -> {"tool": "system_info", "action": "time"}
User: "What's the current date?" -> {"tool": "system_info", "action": "date"}
User: "How much battery is left?" -> {"tool": "system_info", "action": "battery"}
User: "Open Firefox" -> {"tool": "app_control", "action": "open_app", "params": {"app": "Firefox"}}
User: "Set volume to 50 percent" -> {"tool": "app_control", "action": "volume_set", "params": {"level": 50}}
User: "Set a timer for 5 minutes" -> {"tool": "reminder", "action": "timer", "params": {"minutes": 5}}
User: "Remind me in 10 minutes to call Mom" -> {"tool": "reminder", "action": "reminder", "params": {"minutes": 10, "message": "call Mom"}}
User: "What's the weather in Lisbon?" -> {"tool": "web_search", "action": "search", "params": {"query": "weather in Lisbon now"}}
User: "Send a WhatsApp message to Mom saying I'll be late" -> {"tool": "whatsapp", "action": "send", "params": {"contact": "Mom", "message": "I'll be late"}}
User: "How are you doing?" -> {"tool": "none"}
User: "Tell me a joke" -> {"tool": "none"}`

// LLMClassifierConfig tunes the stage-2 call. Classification wants
// deterministic-leaning sampling and a short output budget.
type LLMClassifierConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// LLMClassifier implements Classifier on an OpenAI-compatible endpoint.
// Transport-level retry is bounded and configured on the client itself.
type LLMClassifier struct {
	api openai.Client
	cfg LLMClassifierConfig
}

// NewLLMClassifier wraps an already-configured API client.
func NewLLMClassifier(api openai.Client, cfg LLMClassifierConfig) *LLMClassifier {
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 100
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &LLMClassifier{api: api, cfg: cfg}
}

// Classify implements Classifier. Malformed model output is downgraded to
// {tool:"none"}; only transport failures surface as errors.
func (c *LLMClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classifierPrompt),
			openai.UserMessage(text),
		},
		Model:       openai.ChatModel(c.cfg.Model),
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(int64(c.cfg.MaxTokens)),
	})
	if err != nil {
		return Classification{}, fmt.Errorf("classifier completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Classification{Tool: "none"}, nil
	}

	raw := resp.Choices[0].Message.Content
	cls, ok := ExtractObject(raw)
	if !ok {
		slog.Warn("unparseable classifier output, falling back to chat", "raw", truncate(raw, 120))
	}
	return cls, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
