// Package audio owns the microphone pipeline: continuous filtered capture,
// chunk energy statistics and the utterance recorder.
package audio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Source is what the wake listener and the recorder consume. *Capture is
// the production implementation; tests script their own.
type Source interface {
	// Next blocks until the next filtered chunk arrives or timeout expires.
	// false means "no data yet" — callers retry rather than fail.
	Next(timeout time.Duration) ([]int16, bool)

	// Flush discards all queued chunks and reports how many were dropped.
	Flush() int
}

// CaptureConfig holds the scalar settings the capture pipeline needs.
type CaptureConfig struct {
	SampleRate    int
	Channels      int
	ChunkDuration time.Duration
	CutoffHz      float64
	QueueSize     int
}

// Capture owns the input device. Every hardware callback filters the
// incoming block through the high-pass filter and publishes the result to
// a bounded drop-oldest queue, so consumers only ever see filtered audio.
type Capture struct {
	cfg    CaptureConfig
	filter *HighPass
	queue  *chunkQueue
	stream *portaudio.Stream
}

// NewCapture prepares a capture pipeline; the device is not touched until
// Start.
func NewCapture(cfg CaptureConfig) *Capture {
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	return &Capture{
		cfg:    cfg,
		filter: NewHighPass(cfg.CutoffHz, cfg.SampleRate),
		queue:  newChunkQueue(cfg.QueueSize),
	}
}

// ChunkSamples is the fixed chunk length in samples.
func (c *Capture) ChunkSamples() int {
	return int(float64(c.cfg.SampleRate) * c.cfg.ChunkDuration.Seconds())
}

// Start opens the default input device in continuous streaming mode.
// An open failure is fatal to the whole pipeline and is reported upward;
// there is no internal retry.
func (c *Capture) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(
		c.cfg.Channels,
		0,
		float64(c.cfg.SampleRate),
		c.ChunkSamples(),
		c.onBlock,
	)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start input stream: %w", err)
	}

	c.stream = stream

	slog.Info("capture started",
		"sample_rate", c.cfg.SampleRate,
		"chunk_samples", c.ChunkSamples(),
		"chunk_ms", c.cfg.ChunkDuration.Milliseconds(),
		"highpass_hz", c.cfg.CutoffHz,
		"alpha", fmt.Sprintf("%.4f", c.filter.Alpha()))

	return nil
}

// onBlock runs on the time-critical portaudio thread. Filter, clamp, push.
// No logging, no blocking.
func (c *Capture) onBlock(in []int16) {
	c.queue.push(c.filter.Apply(in))
}

// Next implements Source.
func (c *Capture) Next(timeout time.Duration) ([]int16, bool) {
	return c.queue.next(timeout)
}

// Flush implements Source. Called right after the assistant finishes
// speaking so the microphone does not re-hear its own voice.
func (c *Capture) Flush() int {
	n := c.queue.flush()
	if n > 0 {
		slog.Debug("flushed stale audio", "chunks", n)
	}
	return n
}

// Close stops and releases the device promptly. After a mid-stream device
// error the owner closes and calls Start again on a fresh Capture.
func (c *Capture) Close() error {
	if c.stream != nil {
		c.stream.Stop()
		c.stream.Close()
		c.stream = nil
	}
	return portaudio.Terminate()
}
