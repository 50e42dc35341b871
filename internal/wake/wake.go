// Package wake implements energy-gated wake-phrase detection on top of the
// filtered capture stream. The transcriber is only consulted when the
// cheap RMS gates pass, so near-silence and steady hum never cost a model
// call.
package wake

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"aria/internal/audio"
	"aria/pkg/audioconv"
	"aria/pkg/stt"
)

// Transcriber is the slice of the speech-to-text collaborator the listener
// needs. Satisfied by *stt.Transcriber; faked in tests.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32, p stt.Preset) (stt.Result, error)
}

// Config holds the wake-detection settings.
type Config struct {
	SampleRate     int
	ChunkDuration  time.Duration
	ListenDuration time.Duration

	// TriggerPhrases are matched as substrings of the normalized
	// transcription.
	TriggerPhrases []string

	// MinRMS gates on average window energy, PeakRMS on the loudest
	// chunk. Both must pass before the transcriber is invoked.
	MinRMS  float64
	PeakRMS float64

	Language string

	// Threads is passed through to the transcriber preset; 0 means all
	// cores.
	Threads     int
	PollTimeout time.Duration
}

// Listener runs one detection attempt per Listen call. Each attempt uses a
// fresh window; nothing is retained between calls.
type Listener struct {
	src audio.Source
	stt Transcriber
	cfg Config
}

// New returns a wake listener reading chunks from src.
func New(src audio.Source, transcriber Transcriber, cfg Config) *Listener {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = time.Second
	}
	return &Listener{src: src, stt: transcriber, cfg: cfg}
}

// windowChunks is how many chunks make one listening window.
func (l *Listener) windowChunks() int {
	n := int(l.cfg.ListenDuration / l.cfg.ChunkDuration)
	if n < 1 {
		n = 1
	}
	return n
}

// Listen collects one window and reports whether a trigger phrase was
// heard, along with the phrase that matched. Collaborator failures are
// logged and reported as "no trigger" — the caller just loops.
func (l *Listener) Listen(ctx context.Context) (string, bool) {
	chunks := make([][]int16, 0, l.windowChunks())
	for len(chunks) < l.windowChunks() {
		select {
		case <-ctx.Done():
			// Shutdown while the producer is stalled; abandon the window.
			return "", false
		default:
		}

		chunk, ok := l.src.Next(l.cfg.PollTimeout)
		if !ok {
			continue
		}
		chunks = append(chunks, chunk)
	}

	avg, peak := audio.WindowStats(chunks)

	// Gate 1: average energy. Gate 2: peak — speech has spikes, hum does
	// not. Either failing means the transcriber is never invoked.
	if avg < l.cfg.MinRMS || peak < l.cfg.PeakRMS {
		return "", false
	}

	pcm := audioconv.Int16ToFloat32(audioconv.Concat(chunks))

	preset := stt.WakePreset(l.cfg.Language)
	preset.Threads = l.cfg.Threads

	res, err := l.stt.Transcribe(ctx, pcm, preset)
	if err != nil {
		slog.Error("wake transcription failed", "err", err)
		return "", false
	}

	text := Normalize(res.Text)
	if rejected(text) {
		return "", false
	}

	for _, phrase := range l.cfg.TriggerPhrases {
		if strings.Contains(text, phrase) {
			slog.Info("wake phrase detected",
				"heard", text,
				"matched", phrase,
				"avg_rms", int(avg),
				"peak_rms", int(peak))
			return phrase, true
		}
	}

	slog.Debug("no wake match", "heard", text, "avg_rms", int(avg), "peak_rms", int(peak))
	return "", false
}

// Normalize lowercases and strips punctuation so phrase matching sees the
// same shape regardless of how the transcriber formatted the output.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', '!', '?', ';', ':', '"', '\'':
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}

// hallucinations are exact transcriptions whisper is known to invent on
// near-silent audio. An exact match is never a trigger.
var hallucinations = map[string]struct{}{
	"thank you":              {},
	"thanks for watching":    {},
	"subscribe":              {},
	"you":                    {},
	"bye":                    {},
	"the end":                {},
	"music":                  {},
	"applause":               {},
	"silence":                {},
	"so":                     {},
	"okay":                   {},
	"oh":                     {},
	"hmm":                    {},
	"um":                     {},
	"thank you for watching": {},
	"please subscribe":       {},
	"like and subscribe":     {},
	"see you next time":      {},
	"thanks":                 {},
	"the":                    {},
	"and":                    {},
	"i":                      {},
	"a":                      {},
	"it":                     {},
}

func rejected(text string) bool {
	if len(text) < 3 {
		return true
	}
	_, known := hallucinations[text]
	return known
}
