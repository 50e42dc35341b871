package audio

import "math"

// RMS returns the root-mean-square amplitude of a chunk. It is the cheap
// speech-activity proxy used by both the wake listener and the recorder
// before anything expensive runs.
func RMS(chunk []int16) float64 {
	if len(chunk) == 0 {
		return 0
	}
	var sum float64
	for _, s := range chunk {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(chunk)))
}

// WindowStats returns the average and peak per-chunk RMS over a window.
// Speech has peaks, steady hum does not.
func WindowStats(chunks [][]int16) (avg, peak float64) {
	if len(chunks) == 0 {
		return 0, 0
	}
	var sum float64
	for _, c := range chunks {
		r := RMS(c)
		sum += r
		if r > peak {
			peak = r
		}
	}
	return sum / float64(len(chunks)), peak
}
