package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	log "log/slog"

	"aria/internal/audio"
	"aria/internal/chat"
	"aria/internal/config"
	"aria/internal/events"
	"aria/internal/notify"
	"aria/internal/router"
	"aria/internal/tts"
	"aria/internal/wake"
	"aria/pkg/audioconv"
	"aria/pkg/stt"
)

// assistant runs the wake → record → transcribe → route → speak cycle.
type assistant struct {
	cfg      *config.Config
	capture  *audio.Capture
	wake     *wake.Listener
	recorder *audio.Recorder
	stt      *stt.Transcriber
	router   *router.Router
	chat     *chat.Client
	tts      *tts.Engine
	hub      *events.Hub

	// force bypasses wake detection for one cycle, driven by aria-ctl.
	force chan struct{}
}

// ForceTrigger queues one wake-free cycle. Repeated triggers while one is
// already pending collapse into a single cycle.
func (a *assistant) ForceTrigger() {
	select {
	case a.force <- struct{}{}:
	default:
	}
}

// Run loops detection cycles until ctx is cancelled. A failed cycle never
// ends the loop; the assistant just starts listening again.
func (a *assistant) Run(ctx context.Context) {
	log.Info("Listening for wake phrase", "phrases", a.cfg.Wake.TriggerPhrases)

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.force:
			log.Info("Manual trigger received")
			a.handleTrigger(ctx, "manual")
			continue
		default:
		}

		phrase, ok := a.wake.Listen(ctx)
		if !ok {
			continue
		}
		a.handleTrigger(ctx, phrase)
	}
}

// handleTrigger runs one full assistant cycle after a wake trigger.
func (a *assistant) handleTrigger(ctx context.Context, phrase string) {
	a.hub.Publish("wake", phrase, nil)

	if err := notify.Tone(); err != nil {
		log.Warn("Failed to play ack tone", "err", err)
	}
	a.speak(ctx, "Yes?")

	utt, err := a.recorder.Record()
	switch {
	case errors.Is(err, audio.ErrNoSpeech), errors.Is(err, audio.ErrNoAudio):
		a.speak(ctx, "I didn't hear anything. Try again.")
		return
	case err != nil:
		log.Error("Recording failed", "err", err)
		return
	}

	if dir := a.cfg.Debug.DumpWAVDir; dir != "" {
		path := filepath.Join(dir, fmt.Sprintf("utterance-%d.wav", time.Now().Unix()))
		if err := audio.DumpWAV(path, utt.Samples, a.cfg.Audio.SampleRate); err != nil {
			log.Warn("Failed to dump utterance", "path", path, "err", err)
		}
	}

	preset := stt.UtterancePreset(a.cfg.STT.Language)
	preset.Threads = a.cfg.STT.Threads

	res, err := a.stt.Transcribe(ctx, audioconv.Int16ToFloat32(utt.Samples), preset)
	if err != nil {
		log.Error("Transcription failed", "err", err)
		a.speak(ctx, "I couldn't understand that. Could you repeat?")
		return
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		a.speak(ctx, "I couldn't understand that. Could you repeat?")
		return
	}

	log.Info("Heard", "text", text, "duration", utt.Duration.Round(time.Millisecond))
	a.hub.Publish("transcript", text, map[string]any{
		"duration_ms": utt.Duration.Milliseconds(),
	})

	reply := a.respond(ctx, text)
	a.hub.Publish("reply", reply, nil)
	a.speak(ctx, reply)
}

// respond routes text to a tool, falling back to conversation when no tool
// claims it.
func (a *assistant) respond(ctx context.Context, text string) string {
	result, err := a.router.Route(ctx, text)
	if err == nil {
		a.hub.Publish("tool", result, nil)
		return result
	}
	if !errors.Is(err, router.ErrNoTool) {
		log.Error("Routing failed", "err", err)
	}

	return a.chat.Reply(ctx, text)
}

// speak says text and flushes the capture queue afterwards so the next
// cycle does not hear the assistant's own voice.
func (a *assistant) speak(ctx context.Context, text string) {
	if err := a.tts.Speak(ctx, text); err != nil {
		log.Error("Speech failed", "err", err)
	}
	a.capture.Flush()
}
