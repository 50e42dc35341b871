package wake

import (
	"context"
	"testing"
	"time"

	"aria/pkg/stt"
)

type fakeSource struct {
	chunks [][]int16
	i      int
}

func (s *fakeSource) Next(timeout time.Duration) ([]int16, bool) {
	if s.i >= len(s.chunks) {
		return make([]int16, 1280), true
	}
	c := s.chunks[s.i]
	s.i++
	return c, true
}

func (s *fakeSource) Flush() int { return 0 }

type fakeTranscriber struct {
	text  string
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, pcm []float32, p stt.Preset) (stt.Result, error) {
	f.calls++
	return stt.Result{Text: f.text}, nil
}

func constantChunks(n int, amplitude int16) [][]int16 {
	out := make([][]int16, n)
	for i := range out {
		c := make([]int16, 1280)
		for j := range c {
			c[j] = amplitude
		}
		out[i] = c
	}
	return out
}

func testConfig() Config {
	return Config{
		SampleRate:     16000,
		ChunkDuration:  80 * time.Millisecond,
		ListenDuration: 400 * time.Millisecond, // 5 chunks per window
		TriggerPhrases: []string{"aria", "hey aria"},
		MinRMS:         15,
		PeakRMS:        80,
		Language:       "en",
		PollTimeout:    time.Millisecond,
	}
}

func TestEnergyGateShortCircuits(t *testing.T) {
	t.Run("average below threshold", func(t *testing.T) {
		// avg RMS 10 < 15, peak 10 < 80: both gates fail.
		src := &fakeSource{chunks: constantChunks(5, 10)}
		tr := &fakeTranscriber{text: "hey aria"}

		if _, ok := New(src, tr, testConfig()).Listen(context.Background()); ok {
			t.Error("expected no trigger for quiet window")
		}
		if tr.calls != 0 {
			t.Errorf("transcriber invoked %d times despite failed gate", tr.calls)
		}
	})

	t.Run("no peak despite average passing", func(t *testing.T) {
		// Constant 40: avg 40 > 15 but peak 40 < 80. Hum, not speech.
		src := &fakeSource{chunks: constantChunks(5, 40)}
		tr := &fakeTranscriber{text: "hey aria"}

		if _, ok := New(src, tr, testConfig()).Listen(context.Background()); ok {
			t.Error("expected no trigger for steady hum")
		}
		if tr.calls != 0 {
			t.Errorf("transcriber invoked %d times despite failed peak gate", tr.calls)
		}
	})
}

func TestTriggerPhraseMatch(t *testing.T) {
	cases := []struct {
		name    string
		heard   string
		matched string
		ok      bool
	}{
		{"exact phrase", "hey aria", "aria", true},
		{"phrase inside sentence", "Hey Aria, what's up?", "aria", true},
		{"unrelated speech", "what a lovely day", "", false},
		{"known hallucination", "Thank you.", "", false},
		{"too short", "a", "", false},
		{"empty transcription", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &fakeSource{chunks: constantChunks(5, 200)} // passes both gates
			tr := &fakeTranscriber{text: tc.heard}

			matched, ok := New(src, tr, testConfig()).Listen(context.Background())
			if ok != tc.ok {
				t.Fatalf("ok = %v, expected %v (heard %q)", ok, tc.ok, tc.heard)
			}
			if ok && matched != tc.matched {
				t.Errorf("matched %q, expected %q", matched, tc.matched)
			}
			if tr.calls != 1 {
				t.Errorf("expected exactly one transcriber call, got %d", tr.calls)
			}
		})
	}
}

// stalledSource simulates a producer that stopped delivering chunks.
type stalledSource struct{}

func (stalledSource) Next(time.Duration) ([]int16, bool) { return nil, false }
func (stalledSource) Flush() int                         { return 0 }

func TestListenStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := &fakeTranscriber{text: "hey aria"}
	result := make(chan bool, 1)
	go func() {
		_, ok := New(stalledSource{}, tr, testConfig()).Listen(ctx)
		result <- ok
	}()

	select {
	case ok := <-result:
		if ok {
			t.Error("cancelled listen must not report a trigger")
		}
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after cancellation with a stalled source")
	}
	if tr.calls != 0 {
		t.Errorf("transcriber invoked %d times on an abandoned window", tr.calls)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Hey, Aria!  ":  "hey aria",
		"THANK YOU.":      "thank you",
		"what's the time": "whats the time",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, expected %q", in, got, want)
		}
	}
}
