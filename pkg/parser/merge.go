package parser

import "container/heap"

// Merge combines several parsed exports into one sequence ordered by
// timestamp. Each input is assumed to be in chronological order already;
// equal timestamps keep the order of the inputs.
func Merge(seqs ...[]Message) []Message {
	total := 0
	h := make(cursorHeap, 0, len(seqs))
	for i, seq := range seqs {
		total += len(seq)
		if len(seq) > 0 {
			h = append(h, &cursor{seq: seq, src: i})
		}
	}
	heap.Init(&h)

	merged := make([]Message, 0, total)
	for h.Len() > 0 {
		c := h[0]
		merged = append(merged, c.seq[c.pos])
		c.pos++
		if c.pos == len(c.seq) {
			heap.Pop(&h)
			continue
		}
		heap.Fix(&h, 0)
	}
	return merged
}

// cursor is a read position into one input sequence.
type cursor struct {
	seq []Message
	pos int
	src int
}

func (c *cursor) head() Message { return c.seq[c.pos] }

// cursorHeap orders cursors by their head timestamp, then by input index.
type cursorHeap []*cursor

func (h cursorHeap) Len() int { return len(h) }

func (h cursorHeap) Less(i, j int) bool {
	a, b := h[i].head().Timestamp, h[j].head().Timestamp
	if a.Equal(b) {
		return h[i].src < h[j].src
	}
	return a.Before(b)
}

func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x any) {
	*h = append(*h, x.(*cursor))
}

func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
