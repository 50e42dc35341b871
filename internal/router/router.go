// Package router turns transcribed utterance text into a structured action.
// Stage 1 is a deterministic keyword classifier; stage 2 asks an LLM for a
// JSON classification only when stage 1 is inconclusive. Dispatch never
// lets a handler fault escape into the audio loop.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"aria/internal/tools"
)

// Classification is the router's output for one utterance. Tool "none" is
// a confirmed chat decision, distinct from stage 1 finding nothing.
type Classification struct {
	Tool   string         `json:"tool"`
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// ErrNoTool tells the caller to fall back to plain conversation.
var ErrNoTool = errors.New("no tool")

// Classifier is the stage-2 collaborator: text in, classification out.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// Router owns the handler table and the two classification stages.
type Router struct {
	classifier Classifier
	handlers   map[string]tools.Handler
}

// New returns a router with an empty handler table. classifier may be nil,
// in which case everything stage 1 misses becomes conversation.
func New(classifier Classifier) *Router {
	return &Router{
		classifier: classifier,
		handlers:   make(map[string]tools.Handler),
	}
}

// Register installs a handler under a tool name. Called once at startup.
func (r *Router) Register(name string, h tools.Handler) {
	r.handlers[name] = h
	slog.Info("tool registered", "tool", name)
}

// Route classifies text and executes the matching handler. It returns
// ErrNoTool when the utterance is conversation, in which case the caller
// hands the text to the chat fallback.
func (r *Router) Route(ctx context.Context, text string) (string, error) {
	cls, ok := classifyKeywords(text)
	if ok {
		slog.Info("stage-1 classification",
			"tool", cls.Tool, "action", cls.Action, "params", cls.Params)
		return r.dispatch(cls)
	}

	if r.classifier == nil {
		return "", ErrNoTool
	}

	cls, err := r.classifier.Classify(ctx, text)
	if err != nil {
		// Collaborator failure degrades to conversation, never crashes
		// the loop.
		slog.Warn("stage-2 classification failed", "err", err)
		return "", ErrNoTool
	}

	if cls.Tool != "none" {
		slog.Info("stage-2 classification",
			"tool", cls.Tool, "action", cls.Action, "params", cls.Params)
	}

	return r.dispatch(cls)
}

// dispatch executes one classification. Handler panics and errors are
// contained here.
func (r *Router) dispatch(cls Classification) (result string, err error) {
	if cls.Tool == "" || cls.Tool == "none" {
		return "", ErrNoTool
	}

	handler, ok := r.handlers[cls.Tool]
	if !ok {
		slog.Warn("unknown tool requested", "tool", cls.Tool)
		return fmt.Sprintf("I don't have the %s tool available yet.", cls.Tool), nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("tool handler panicked", "tool", cls.Tool, "panic", rec)
			result = "Sorry, something went wrong while running that command."
			err = nil
		}
	}()

	out, err := handler.Execute(cls.Action, cls.Params)
	if err != nil {
		slog.Error("tool execution failed", "tool", cls.Tool, "action", cls.Action, "err", err)
		return "Sorry, something went wrong while running that command.", nil
	}
	return out, nil
}
