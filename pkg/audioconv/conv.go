// Package audioconv holds small PCM sample-domain conversions shared by the
// capture pipeline and the transcriber.
package audioconv

// Int16ToFloat32 converts signed 16-bit PCM to float32 in [-1, 1).
// This is the sample domain whisper expects.
func Int16ToFloat32(in []int16) []float32 {
	out := make([]float32, len(in))
	for i, s := range in {
		out[i] = float32(s) / 32768.0
	}
	return out
}

// Float32ToInt16 converts float32 PCM back to signed 16-bit, clamping
// anything outside [-1, 1).
func Float32ToInt16(in []float32) []int16 {
	out := make([]int16, len(in))
	for i, s := range in {
		v := s * 32768.0
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}

// Concat joins chunks into one contiguous sample buffer.
func Concat(chunks [][]int16) []int16 {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]int16, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
