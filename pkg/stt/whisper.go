// Package stt wraps the whisper.cpp Go bindings behind a small transcriber
// with per-call-site presets. Every call builds a fresh whisper context, so
// no transcription is ever conditioned on a previous window's output — that
// cross-call conditioning is the classic source of phantom "Thank you"
// style hallucinations on near-silent audio.
package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Preset bundles the decoding knobs for one call site. Wake detection and
// full utterance transcription deliberately use different thresholds:
// at wake time speech is not yet confirmed, so rejection is stricter.
type Preset struct {
	Language string

	// Threads <= 0 means NumCPU.
	Threads int

	// EntropyThold rejects suspiciously repetitive decodes, whisper's
	// signal for a hallucinated loop: a decode is discarded when its
	// segment entropy falls below this value, so higher is stricter.
	EntropyThold float32

	// MaxTokens caps tokens per segment; wake windows are short.
	MaxTokens uint

	// BeamSize > 0 enables beam search; 0 keeps greedy decoding.
	BeamSize int

	Temperature float32
}

// WakePreset is the strict profile used on unconfirmed audio windows: the
// higher entropy floor discards more borderline decodes before the phrase
// match ever sees them.
func WakePreset(language string) Preset {
	return Preset{
		Language:     language,
		EntropyThold: 2.8,
		MaxTokens:    32,
	}
}

// UtterancePreset is the looser profile used once the wake word has
// already confirmed that real speech is present.
func UtterancePreset(language string) Preset {
	return Preset{
		Language:     language,
		EntropyThold: 2.4,
	}
}

// Result is one transcription outcome.
type Result struct {
	Text     string
	Language string
}

// Transcriber owns a loaded whisper model. Contexts are per call.
type Transcriber struct {
	model whisper.Model
}

// NewTranscriber loads the model file. Model load failure is fatal to the
// pipeline and reported upward.
func NewTranscriber(modelPath string) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model: %w", err)
	}
	return &Transcriber{model: m}, nil
}

// Close releases the model.
func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe runs one transcription over mono 16 kHz float32 PCM in [-1, 1].
func (t *Transcriber) Transcribe(ctx context.Context, pcm []float32, p Preset) (Result, error) {
	if t.model == nil {
		return Result{}, errors.New("nil model")
	}
	if len(pcm) == 0 {
		return Result{}, errors.New("no audio samples provided")
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("new whisper context: %w", err)
	}

	lang := p.Language
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return Result{}, fmt.Errorf("set language: %w", err)
	}

	threads := p.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))

	if p.EntropyThold != 0 {
		wctx.SetEntropyThold(p.EntropyThold)
	}
	if p.MaxTokens > 0 {
		wctx.SetMaxTokensPerSegment(p.MaxTokens)
	}
	if p.BeamSize > 0 {
		wctx.SetBeamSize(p.BeamSize)
	}
	if p.Temperature != 0 {
		wctx.SetTemperature(p.Temperature)
	}
	// An empty initial prompt keeps each window unconditioned.
	wctx.SetInitialPrompt("")

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("whisper process: %w", err)
	}

	var parts []string
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("next segment: %w", err)
		}
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}

	detected := wctx.DetectedLanguage()
	if detected == "" {
		detected = wctx.Language()
	}

	return Result{
		Text:     strings.Join(parts, " "),
		Language: detected,
	}, nil
}
