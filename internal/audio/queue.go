package audio

import "time"

// chunkQueue is the single shared resource between the audio callback
// (producer) and the pipeline consumers. The producer never blocks: when
// the queue is full the oldest chunk is dropped so recency wins over
// completeness and the callback latency stays bounded.
type chunkQueue struct {
	ch chan []int16
}

func newChunkQueue(capacity int) *chunkQueue {
	if capacity <= 0 {
		capacity = 64
	}
	return &chunkQueue{ch: make(chan []int16, capacity)}
}

// push enqueues a chunk, dropping the oldest entry on overflow.
// Safe to call from the real-time callback.
func (q *chunkQueue) push(chunk []int16) {
	for {
		select {
		case q.ch <- chunk:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// next blocks until a chunk is available or the timeout expires.
// A timeout means "no data yet", not an error.
func (q *chunkQueue) next(timeout time.Duration) ([]int16, bool) {
	select {
	case chunk := <-q.ch:
		return chunk, true
	case <-time.After(timeout):
		return nil, false
	}
}

// flush discards everything currently queued without blocking and reports
// how many chunks were dropped.
func (q *chunkQueue) flush() int {
	n := 0
	for {
		select {
		case <-q.ch:
			n++
		default:
			return n
		}
	}
}
