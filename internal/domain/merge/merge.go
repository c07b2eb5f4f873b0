// Package merge combines per-kind event streams into one chronological
// stream.
package merge

import (
	"container/heap"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
)

// Streams merges N independently time-ordered event streams into a single
// stream totally ordered by timestamp. Ties are stable: when timestamps are
// equal, events keep the relative order implied by their stream position
// (earlier stream first, then earlier index within the stream). No events
// are dropped or duplicated.
//
// The merge is a k-way heap merge, O(n log k), so it only ever holds one
// cursor per input stream beyond the output slice itself.
func Streams(streams ...[]model.Event) []model.Event {
	total := 0
	for _, s := range streams {
		total += len(s)
	}
	out := make([]model.Event, 0, total)

	h := make(cursorHeap, 0, len(streams))
	for i, s := range streams {
		if len(s) > 0 {
			h = append(h, cursor{stream: i, events: s})
		}
	}
	heap.Init(&h)

	for h.Len() > 0 {
		c := &h[0]
		out = append(out, c.events[c.index])
		c.index++
		if c.index == len(c.events) {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
	}
	return out
}

// cursor tracks the next unconsumed event of one input stream.
type cursor struct {
	stream int
	events []model.Event
	index  int
}

func (c *cursor) head() *model.Event {
	return &c.events[c.index]
}

type cursorHeap []cursor

func (h cursorHeap) Len() int { return len(h) }

func (h cursorHeap) Less(i, j int) bool {
	ti, tj := h[i].head().Timestamp, h[j].head().Timestamp
	if ti != tj {
		return ti < tj
	}
	// Equal timestamps: the lower stream index wins, which preserves the
	// input's relative order for ties.
	return h[i].stream < h[j].stream
}

func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x any) { *h = append(*h, x.(cursor)) }

func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
