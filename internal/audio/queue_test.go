package audio

import (
	"testing"
	"time"
)

func TestChunkQueueDropOldest(t *testing.T) {
	q := newChunkQueue(2)

	q.push([]int16{1})
	q.push([]int16{2})
	q.push([]int16{3}) // overflows; {1} must be dropped

	first, ok := q.next(time.Millisecond)
	if !ok || first[0] != 2 {
		t.Fatalf("expected chunk 2 first, got %v (ok=%v)", first, ok)
	}
	second, ok := q.next(time.Millisecond)
	if !ok || second[0] != 3 {
		t.Fatalf("expected chunk 3 second, got %v (ok=%v)", second, ok)
	}
}

func TestChunkQueuePreservesOrder(t *testing.T) {
	q := newChunkQueue(8)
	for i := int16(0); i < 8; i++ {
		q.push([]int16{i})
	}
	for i := int16(0); i < 8; i++ {
		chunk, ok := q.next(time.Millisecond)
		if !ok || chunk[0] != i {
			t.Fatalf("expected chunk %d, got %v (ok=%v)", i, chunk, ok)
		}
	}
}

func TestChunkQueueFlushDiscardsEverythingQueued(t *testing.T) {
	q := newChunkQueue(8)
	q.push([]int16{1})
	q.push([]int16{2})

	if n := q.flush(); n != 2 {
		t.Errorf("expected 2 flushed chunks, got %d", n)
	}

	// Nothing produced before the flush may come back.
	if chunk, ok := q.next(5 * time.Millisecond); ok {
		t.Fatalf("expected empty queue after flush, got %v", chunk)
	}

	q.push([]int16{3})
	chunk, ok := q.next(time.Millisecond)
	if !ok || chunk[0] != 3 {
		t.Fatalf("expected post-flush chunk 3, got %v (ok=%v)", chunk, ok)
	}
}

func TestChunkQueueNextTimesOutWhenEmpty(t *testing.T) {
	q := newChunkQueue(2)

	start := time.Now()
	_, ok := q.next(10 * time.Millisecond)
	if ok {
		t.Fatal("expected timeout on empty queue")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("timeout took far longer than requested")
	}
}
