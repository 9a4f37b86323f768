package vptree

import (
	"math"
	"sort"
)

// DefaultBinSize is the recommended leaf capacity an adaptor may apply when
// the caller has no specific preference, mirroring the reference's
// module-level constant (see SPEC_FULL.md §1, "Configuration").
const DefaultBinSize = 32

// Tree is a vantage-point tree over point type P storing elements of type
// E. It owns its root node exclusively: no node reachable from the root is
// shared with any other tree. Tree is not safe for concurrent use; callers
// needing concurrency should wrap it with package vptreesync.
type Tree[P any, E comparable] struct {
	root *node[P, E]
	ops  ops[P, E]
}

// New returns an empty tree. binSize must be at least 1.
func New[P any, E comparable](binSize int, distance Metric[P], locate Locator[E, P]) (*Tree[P, E], error) {
	if binSize < 1 {
		return nil, ErrInvalidBinSize
	}
	return &Tree[P, E]{
		root: newEmptyLeaf[P, E](),
		ops:  ops[P, E]{distance: distance, locate: locate, binSize: binSize},
	}, nil
}

// From bulk-loads elements into a fresh tree. An empty collection produces
// the same result as New.
func From[P any, E comparable](binSize int, distance Metric[P], locate Locator[E, P], elements []E) (*Tree[P, E], error) {
	t, err := New[P, E](binSize, distance, locate)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return t, nil
	}
	pts := append([]E(nil), elements...)
	t.root = buildFromRange(&t.ops, pts)
	return t, nil
}

// Add inserts e, attempting an immediate partition of any leaf that becomes
// overloaded. Always returns true: mutation always modifies the tree.
func (t *Tree[P, E]) Add(e E) bool {
	t.root.add(&t.ops, e)
	return true
}

// AddAll inserts every element of es, deferring partition attempts until
// every element has been routed to a leaf (spec §4.1 "addAll"). Returns
// whether es was non-empty.
func (t *Tree[P, E]) AddAll(es []E) bool {
	if len(es) == 0 {
		return false
	}
	touched := make(map[*node[P, E]]struct{})
	for _, e := range es {
		leaf := t.root.addDeferred(&t.ops, e)
		touched[leaf] = struct{}{}
	}
	for leaf := range touched {
		if leaf.isOverloaded(&t.ops) {
			leaf.partition(&t.ops)
		}
	}
	return true
}

// Clear replaces the root with a fresh empty leaf, runs in O(1).
func (t *Tree[P, E]) Clear() {
	t.root = newEmptyLeaf[P, E]()
}

// Contains reports whether e is stored in the tree.
func (t *Tree[P, E]) Contains(e E) bool {
	return t.root.contains(&t.ops, e)
}

// ContainsAll reports whether every element of es is stored in the tree.
func (t *Tree[P, E]) ContainsAll(es []E) bool {
	for _, e := range es {
		if !t.root.contains(&t.ops, e) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the tree stores no elements.
func (t *Tree[P, E]) IsEmpty() bool {
	return t.Size() == 0
}

// Size returns the number of stored elements, summed over leaves (O(n) over
// the current set of leaves).
func (t *Tree[P, E]) Size() int {
	return t.root.size()
}

// ToArray collects every stored element by a depth-first walk; order is
// unspecified.
func (t *Tree[P, E]) ToArray() []E {
	return t.root.toArray(nil)
}

// Iterator returns a snapshot-of-leaves iterator over the tree's current
// elements (spec §4.3 "iterator"). Behavior is undefined if the tree is
// mutated during iteration.
func (t *Tree[P, E]) Iterator() *Iterator[P, E] {
	var leaves []*node[P, E]
	t.root.gatherLeafNodes(&leaves)
	return &Iterator[P, E]{leaves: leaves}
}

// Remove removes the first element equal to e, then prunes the tree along
// the path to the now-possibly-empty leaf (spec §4.3 "Deletion with
// deferred pruning"). Returns whether an element was removed.
func (t *Tree[P, E]) Remove(e E) bool {
	var stack []*node[P, E]
	loc := t.ops.locate(e)
	t.root.findNodeContainingPoint(&t.ops, loc, &stack)
	leaf := stack[len(stack)-1]
	if !leaf.remove(e) {
		return false
	}
	if len(leaf.points) == 0 && leaf != t.root {
		t.pruneAncestors(stack)
	}
	return true
}

// pruneAncestors walks stack (root-to-leaf order, leaf last) from the leaf
// upward, absorbing children back into each ancestor until one remains
// non-empty, stopping before the root is ever absorbed away.
func (t *Tree[P, E]) pruneAncestors(stack []*node[P, E]) {
	for i := len(stack) - 2; i >= 0; i-- {
		ancestor := stack[i]
		ancestor.absorbChildren()
		if len(ancestor.points) > 0 {
			break
		}
		if ancestor == t.root {
			break
		}
	}
}

// RemoveAll removes every element of es, deferring pruning until all
// removals have been attempted (spec §4.3 "removeAll"). Repeats each
// element's removal until no further equal copy is found, so duplicates are
// fully removed. Returns whether any element was removed.
func (t *Tree[P, E]) RemoveAll(es []E) bool {
	removedAny := false
	emptied := make(map[*node[P, E]][]*node[P, E]) // emptied leaf -> its root-to-leaf path

	for _, e := range es {
		for {
			var stack []*node[P, E]
			loc := t.ops.locate(e)
			t.root.findNodeContainingPoint(&t.ops, loc, &stack)
			leaf := stack[len(stack)-1]
			if !leaf.remove(e) {
				break
			}
			removedAny = true
			if len(leaf.points) == 0 && leaf != t.root {
				path := append([]*node[P, E](nil), stack...)
				emptied[leaf] = path
			}
		}
	}
	if len(emptied) == 0 {
		return removedAny
	}
	for _, path := range emptied {
		t.pruneAncestorsAndRepartition(path)
	}
	return removedAny
}

// pruneAncestorsAndRepartition is pruneAncestors followed by a repartition
// attempt on the surviving node if absorbing left it overloaded (spec §4.3
// removeAll step 3). Two emptied leaves recorded in the same RemoveAll call
// can share an ancestor; if a sibling's pass already absorbed it (turning it
// into a leaf) before this one runs, that ancestor is skipped rather than
// absorbed twice — the set-deduplication spec.md describes in the abstract,
// done here defensively by shape instead of by recomputing ancestry.
func (t *Tree[P, E]) pruneAncestorsAndRepartition(stack []*node[P, E]) {
	for i := len(stack) - 2; i >= 0; i-- {
		ancestor := stack[i]
		if ancestor.leaf {
			break
		}
		ancestor.absorbChildren()
		if ancestor.isOverloaded(&t.ops) {
			ancestor.partition(&t.ops)
		}
		if len(ancestor.points) > 0 || !ancestor.leaf {
			break
		}
		if ancestor == t.root {
			break
		}
	}
}

// RetainAll removes every stored element not present in es (spec §4.3
// "retainAll": compute the complement by iteration, delegate to RemoveAll).
func (t *Tree[P, E]) RetainAll(es []E) bool {
	keep := make(map[E]struct{}, len(es))
	for _, e := range es {
		keep[e] = struct{}{}
	}
	var toRemove []E
	for _, e := range t.ToArray() {
		if _, ok := keep[e]; !ok {
			toRemove = append(toRemove, e)
		}
	}
	if len(toRemove) == 0 {
		return false
	}
	return t.RemoveAll(toRemove)
}

// searchOptions collects the optional k-NN parameters a caller may supply.
type searchOptions[E any] struct {
	maxDistance float64
	filter      func(E) bool
}

// SearchOption configures GetNearestNeighbors / GetNearestNeighbor.
type SearchOption[E any] func(*searchOptions[E])

// WithMaxDistance bounds accepted neighbors to at most d away from the
// query point.
func WithMaxDistance[E any](d float64) SearchOption[E] {
	return func(o *searchOptions[E]) { o.maxDistance = d }
}

// WithFilter restricts accepted neighbors to those admitted by keep.
func WithFilter[E any](keep func(E) bool) SearchOption[E] {
	return func(o *searchOptions[E]) { o.filter = keep }
}

// GetNearestNeighbors returns up to k elements closest to q, ascending by
// distance, honoring any WithMaxDistance/WithFilter options (spec §4.3).
func (t *Tree[P, E]) GetNearestNeighbors(q P, k int, opts ...SearchOption[E]) ([]E, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	so := searchOptions[E]{maxDistance: math.Inf(1)}
	for _, opt := range opts {
		opt(&so)
	}
	if so.maxDistance < 0 {
		return nil, ErrNegativeMaxDistance
	}
	c := newCollector[P, E](k, so.maxDistance, so.filter, t.ops.distance, q)
	t.root.kNearest(&t.ops, q, c)
	return c.toSortedList(), nil
}

// GetNearestNeighbor is GetNearestNeighbors with k=1, returning the single
// closest element and whether any element qualified. A negative
// WithMaxDistance bound is treated the same as "no match".
func (t *Tree[P, E]) GetNearestNeighbor(q P, opts ...SearchOption[E]) (E, bool) {
	results, err := t.GetNearestNeighbors(q, 1, opts...)
	var zero E
	if err != nil || len(results) == 0 {
		return zero, false
	}
	return results[0], true
}

// GetAllWithinDistance returns every element within r of q, ascending by
// distance, optionally restricted by filter.
func (t *Tree[P, E]) GetAllWithinDistance(q P, r float64, filter func(E) bool) ([]E, error) {
	if r < 0 {
		return nil, ErrNegativeRadius
	}
	var candidates []candidate[E]
	t.root.radiusSearch(&t.ops, q, r, filter, &candidates)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	out := make([]E, len(candidates))
	for i, c := range candidates {
		out[i] = c.elem
	}
	return out, nil
}

// MovePoint relocates e, currently stored at its existing location, to
// dest. If dest routes to the same leaf e already occupies, this is a pure
// in-place coordinate mutation; otherwise e is removed and re-added at the
// new location (spec §4.3 "Moving a point"). newElem must already carry the
// destination coordinates that Locate(newElem) resolves to dest; this
// mirrors the reference's explicit-old-and-new-coordinates convenience
// while keeping elements themselves immutable from the tree's perspective.
func (t *Tree[P, E]) MovePoint(oldElem, newElem E, dest P) error {
	var oldStack, newStack []*node[P, E]
	t.root.findNodeContainingPoint(&t.ops, t.ops.locate(oldElem), &oldStack)
	t.root.findNodeContainingPoint(&t.ops, dest, &newStack)

	if samePath(oldStack, newStack) {
		leaf := oldStack[len(oldStack)-1]
		if !leaf.remove(oldElem) {
			return ErrElementNotFound
		}
		leaf.points = append(leaf.points, newElem)
		return nil
	}

	if !t.Remove(oldElem) {
		return ErrElementNotFound
	}
	t.Add(newElem)
	return nil
}

func samePath[P any, E comparable](a, b []*node[P, E]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
