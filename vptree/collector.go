package vptree

import (
	"container/heap"
	"math"
	"sort"
)

// candidate pairs a stored element with its distance to the collector's
// cached query point, q*.
type candidate[E any] struct {
	elem E
	dist float64
}

// candidateHeap is a max-heap over candidate.dist: its root is always the
// worst (most distant) accepted candidate, which is exactly what the
// collector needs to evict in O(log capacity) on a closer offer.
type candidateHeap[E any] []candidate[E]

func (h candidateHeap[E]) Len() int            { return len(h) }
func (h candidateHeap[E]) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h candidateHeap[E]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap[E]) Push(x interface{}) { *h = append(*h, x.(candidate[E])) }
func (h *candidateHeap[E]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// collector is the bounded max-priority result structure driving k-NN
// search (spec §4.2). It is keyed by distance to a single query point q*
// fixed at construction, with an optional maxDistance ceiling and an
// optional post-acceptance filter.
type collector[P any, E any] struct {
	capacity    int
	maxDistance float64
	filter      func(E) bool
	distance    Metric[P]
	qStar       P
	items       candidateHeap[E]
}

// newCollector builds a collector of the given capacity, bounded to
// maxDistance (use math.Inf(1) for unbounded) and optionally restricted by
// filter (nil admits everything).
func newCollector[P any, E any](capacity int, maxDistance float64, filter func(E) bool, distance Metric[P], qStar P) *collector[P, E] {
	return &collector[P, E]{
		capacity:    capacity,
		maxDistance: maxDistance,
		filter:      filter,
		distance:    distance,
		qStar:       qStar,
		items:       make(candidateHeap[E], 0, capacity),
	}
}

// offer implements the three-step acceptance rule (spec §4.2): accept while
// under capacity and within maxDistance, displace the current worst once at
// capacity and strictly closer, otherwise reject. Returns whether the
// element was stored.
func (c *collector[P, E]) offer(e E, p P) bool {
	if c.filter != nil && !c.filter(e) {
		return false
	}
	d := c.distance(c.qStar, p)

	if c.items.Len() < c.capacity {
		if d > c.maxDistance {
			return false
		}
		heap.Push(&c.items, candidate[E]{elem: e, dist: d})
		return true
	}
	if c.capacity > 0 && d < c.items[0].dist {
		heap.Pop(&c.items)
		heap.Push(&c.items, candidate[E]{elem: e, dist: d})
		return true
	}
	return false
}

// worstDistance returns the distance of the most distant currently-accepted
// element, or +Inf while the collector holds fewer than capacity elements
// (spec §4.2 / §4.1 k-NN step 4: "if the collector is not yet full, its
// worst-accepted distance is +∞, so the unvisited child is always
// visited"). Only once the collector is full does its worst stored distance
// become a real pruning bound.
func (c *collector[P, E]) worstDistance() float64 {
	if c.items.Len() < c.capacity {
		return math.Inf(1)
	}
	return c.items[0].dist
}

// toSortedList returns the accepted elements in ascending distance order
// without modifying the collector — calling it twice yields the same
// result (see DESIGN.md, "toSortedList drains or not").
func (c *collector[P, E]) toSortedList() []E {
	sorted := append(candidateHeap[E](nil), c.items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].dist < sorted[j].dist })
	out := make([]E, len(sorted))
	for i, cand := range sorted {
		out[i] = cand.elem
	}
	return out
}
