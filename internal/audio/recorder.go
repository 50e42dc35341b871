package audio

import (
	"errors"
	"log/slog"
	"time"

	"aria/pkg/audioconv"
)

// Expected no-result outcomes, distinct from real errors.
var (
	// ErrNoSpeech means nothing above the silence threshold was heard
	// within the grace period.
	ErrNoSpeech = errors.New("no speech detected")

	// ErrNoAudio means no chunks were collected at all.
	ErrNoAudio = errors.New("no audio captured")
)

// recState is the recorder state machine. It is scoped to one Record call
// and never persisted.
type recState int

const (
	awaitingSpeech recState = iota
	recording
	stopped
)

// RecorderConfig holds the speech-boundary settings.
type RecorderConfig struct {
	SampleRate int

	// SilenceThreshold is the RMS level separating speech from silence.
	SilenceThreshold float64

	// MinRecording is the minimum amount of speech before a silence run
	// may stop the recording. Prevents premature cutoff on short pauses.
	MinRecording time.Duration

	// SilenceStop is how much continuous silence ends the utterance.
	SilenceStop time.Duration

	// MaxRecording is the hard ceiling; it forces a stop regardless of
	// state to bound latency and memory.
	MaxRecording time.Duration

	// NoSpeechGrace aborts the attempt when no speech starts in time.
	NoSpeechGrace time.Duration

	// PollTimeout bounds each wait for the next chunk.
	PollTimeout time.Duration
}

// Utterance is one bounded span of recorded audio, handed to the
// transcriber exactly once and then released.
type Utterance struct {
	Samples  []int16
	Duration time.Duration
}

// Recorder drains the capture stream after a wake trigger and cuts one
// utterance out of it using an RMS-driven state machine.
type Recorder struct {
	cfg RecorderConfig
	src Source

	// now is swappable so the state machine is deterministic under test.
	now func() time.Time
}

// NewRecorder returns a recorder reading from src.
func NewRecorder(src Source, cfg RecorderConfig) *Recorder {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = time.Second
	}
	return &Recorder{cfg: cfg, src: src, now: time.Now}
}

// Record captures one utterance. It flushes pre-trigger audio first so
// timing starts from a clean baseline, then collects chunks until the
// state machine stops:
//
//   - AwaitingSpeech: speech starts when a chunk's RMS exceeds the silence
//     threshold; ErrNoSpeech after the grace period.
//   - Recording: stop once speech lasted at least MinRecording AND silence
//     lasted at least SilenceStop. MaxRecording forces a stop regardless.
//
// Returns ErrNoAudio when nothing was collected.
func (r *Recorder) Record() (*Utterance, error) {
	r.src.Flush()

	var (
		state       = awaitingSpeech
		chunks      [][]int16
		speechStart time.Time
		silenceFrom time.Time
		began       = r.now()
	)

	for state != stopped {
		chunk, ok := r.src.Next(r.cfg.PollTimeout)
		if !ok {
			slog.Warn("audio stream timeout, no data received")
			continue
		}

		elapsed := r.now().Sub(began)
		if elapsed > r.cfg.MaxRecording {
			slog.Warn("max recording time reached", "limit", r.cfg.MaxRecording)
			break
		}

		energy := RMS(chunk)
		chunks = append(chunks, chunk)

		switch state {
		case awaitingSpeech:
			if energy > r.cfg.SilenceThreshold {
				state = recording
				speechStart = r.now()
				slog.Debug("speech detected", "rms", int(energy))
			} else if elapsed > r.cfg.NoSpeechGrace {
				slog.Warn("no speech within grace period", "grace", r.cfg.NoSpeechGrace)
				return nil, ErrNoSpeech
			}

		case recording:
			if energy > r.cfg.SilenceThreshold {
				silenceFrom = time.Time{}
				continue
			}
			if silenceFrom.IsZero() {
				silenceFrom = r.now()
				continue
			}
			spoken := r.now().Sub(speechStart)
			silent := r.now().Sub(silenceFrom)
			if spoken >= r.cfg.MinRecording && silent >= r.cfg.SilenceStop {
				state = stopped
			}
		}
	}

	if len(chunks) == 0 {
		return nil, ErrNoAudio
	}

	samples := audioconv.Concat(chunks)
	dur := time.Duration(len(samples)) * time.Second / time.Duration(r.cfg.SampleRate)

	slog.Info("utterance captured",
		"duration", dur.Round(time.Millisecond),
		"samples", len(samples),
		"chunks", len(chunks))

	return &Utterance{Samples: samples, Duration: dur}, nil
}
