package audio

import (
	"math"
	"testing"
)

func TestHighPassAlpha(t *testing.T) {
	f := NewHighPass(85.0, 16000)

	// RC/(RC+dt) at 16kHz/85Hz is roughly 0.967.
	if math.Abs(f.Alpha()-0.9668) > 0.002 {
		t.Errorf("expected alpha near 0.9668, got %f", f.Alpha())
	}
}

func TestHighPassZeroInput(t *testing.T) {
	f := NewHighPass(85.0, 16000)

	out := f.Apply(make([]int16, 1280))
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d: expected 0, got %d", i, s)
		}
	}
}

func TestHighPassDeterministic(t *testing.T) {
	in := []int16{100, -200, 3000, -4000, 5000, 0, 0, -1, 1, 32767, -32768}

	a := NewHighPass(85.0, 16000)
	b := NewHighPass(85.0, 16000)

	outA := a.Apply(in)
	outB := b.Apply(in)

	for i := range outA {
		if outA[i] != outB[i] {
			t.Fatalf("sample %d: %d != %d", i, outA[i], outB[i])
		}
	}
}

func TestHighPassStatePersistsAcrossChunks(t *testing.T) {
	in := make([]int16, 200)
	for i := range in {
		in[i] = int16(1000 * math.Sin(float64(i)/3.0))
	}

	whole := NewHighPass(85.0, 16000)
	split := NewHighPass(85.0, 16000)

	wantAll := whole.Apply(in)
	gotFirst := split.Apply(in[:100])
	gotSecond := split.Apply(in[100:])

	got := append(gotFirst, gotSecond...)
	for i := range wantAll {
		if wantAll[i] != got[i] {
			t.Fatalf("sample %d: chunked output %d differs from whole-buffer output %d",
				i, got[i], wantAll[i])
		}
	}
}

func TestHighPassRemovesDCOffset(t *testing.T) {
	f := NewHighPass(85.0, 16000)

	in := make([]int16, 16000)
	for i := range in {
		in[i] = 5000
	}

	out := f.Apply(in)

	// After settling, a constant input must decay towards zero.
	tail := out[len(out)-100:]
	var sum float64
	for _, s := range tail {
		sum += math.Abs(float64(s))
	}
	if mean := sum / float64(len(tail)); mean > 10 {
		t.Errorf("expected DC offset to decay, tail mean %f", mean)
	}
}
