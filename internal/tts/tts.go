// Package tts speaks text through an external synthesizer process. The
// call blocks until speech output is complete on purpose: the capture
// pipeline must not start a new cycle while the assistant is talking, and
// the caller flushes the capture queue right after to drop self-heard
// audio.
package tts

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"time"
)

// speakTimeout keeps a wedged synthesizer from hanging the loop forever.
const speakTimeout = 30 * time.Second

// Engine shells out to a speech synthesizer ("espeak-ng" or macOS "say").
type Engine struct {
	Command string
	Voice   string
	Rate    int
}

// NewEngine configures a synthesizer invocation.
func NewEngine(command, voice string, rate int) *Engine {
	if command == "" {
		command = "espeak-ng"
	}
	return &Engine{Command: command, Voice: voice, Rate: rate}
}

// Speak synthesizes text and blocks until playback finishes. Empty text is
// a no-op. Synthesizer failures are reported but expected to be survivable.
func (e *Engine) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, speakTimeout)
	defer cancel()

	slog.Info("speaking", "text", text)

	cmd := exec.CommandContext(ctx, e.Command, e.args(text)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tts %s: %w", e.Command, err)
	}
	return nil
}

// args builds the argv for the configured synthesizer. "say" and
// "espeak-ng" spell their voice and rate flags differently.
func (e *Engine) args(text string) []string {
	var args []string
	switch e.Command {
	case "say":
		if e.Voice != "" {
			args = append(args, "-v", e.Voice)
		}
		if e.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(e.Rate))
		}
	default:
		if e.Voice != "" {
			args = append(args, "-v", e.Voice)
		}
		if e.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(e.Rate))
		}
	}
	return append(args, text)
}
