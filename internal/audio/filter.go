package audio

import "math"

// HighPass is a first-order IIR high-pass filter:
//
//	y[n] = alpha * (y[n-1] + x[n] - x[n-1])
//
// with alpha = RC/(RC+dt), RC = 1/(2*pi*cutoff), dt = 1/sampleRate.
// At 16 kHz with an 85 Hz cutoff alpha is roughly 0.9668, which removes
// fan and mains hum without touching the speech band.
//
// The (prevRaw, prevFiltered) state persists across chunks so filtering a
// continuous stream chunk by chunk is seamless. A HighPass is owned by a
// single Capture and is never shared.
type HighPass struct {
	alpha    float64
	prevRaw  float64
	prevFilt float64
}

// NewHighPass returns a filter for the given cutoff frequency and sample rate.
func NewHighPass(cutoffHz float64, sampleRate int) *HighPass {
	rc := 1.0 / (2.0 * math.Pi * cutoffHz)
	dt := 1.0 / float64(sampleRate)
	return &HighPass{alpha: rc / (rc + dt)}
}

// Alpha exposes the filter coefficient.
func (f *HighPass) Alpha() float64 { return f.alpha }

// Apply filters one chunk and returns a new slice, clamped to the int16
// range. It must stay cheap: it runs inside the real-time audio callback.
func (f *HighPass) Apply(in []int16) []int16 {
	out := make([]int16, len(in))

	prevRaw := f.prevRaw
	prevFilt := f.prevFilt

	for i, s := range in {
		raw := float64(s)
		prevFilt = f.alpha * (prevFilt + raw - prevRaw)
		prevRaw = raw

		v := prevFilt
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}

	f.prevRaw = prevRaw
	f.prevFilt = prevFilt

	return out
}

// Reset clears the filter state.
func (f *HighPass) Reset() {
	f.prevRaw = 0
	f.prevFilt = 0
}
