package vptree

import "sort"

// Metric is a distance function over a point type P. It must satisfy the
// metric axioms (identity, symmetry, triangle inequality) for the tree's
// pruning to be correct. The tree caches no distances across calls.
type Metric[P any] func(a, b P) float64

// Locator maps a stored element to the point used to position it in the
// tree. For element types that are themselves points, Locator is the
// identity function.
type Locator[E, P any] func(e E) P

// ops bundles the per-tree configuration a node needs to operate on itself:
// the distance function, the element-to-point accessor and the target leaf
// capacity. It's threaded through node methods rather than stored per-node,
// since every node in a tree shares the same three values.
type ops[P any, E comparable] struct {
	distance Metric[P]
	locate   Locator[E, P]
	binSize  int
}

func (o *ops[P, E]) distanceToElem(center P, e E) float64 {
	return o.distance(center, o.locate(e))
}

// node is a vantage-point-tree node: a tagged union of leaf and internal
// shapes (spec §3, §4.1). leaf==true selects the leaf fields (points,
// hasCenter); leaf==false selects the internal fields (threshold, inside,
// outside). center is valid whenever hasCenter is true, which for an
// internal node is always.
type node[P any, E comparable] struct {
	leaf      bool
	points    []E
	center    P
	hasCenter bool

	threshold       float64
	inside, outside *node[P, E]
}

// newEmptyLeaf returns a leaf with no points and no center.
func newEmptyLeaf[P any, E comparable]() *node[P, E] {
	return &node[P, E]{leaf: true}
}

// buildFromRange constructs a node holding exactly points (spec §4.1
// "Build from range"). If the range fits within binSize it becomes a leaf;
// otherwise partitioning is attempted, falling back to an overloaded leaf
// on failure.
func buildFromRange[P any, E comparable](o *ops[P, E], points []E) *node[P, E] {
	n := &node[P, E]{leaf: true, points: points}
	if len(points) > 0 {
		n.center = o.locate(points[0])
		n.hasCenter = true
	}
	if len(points) > o.binSize {
		n.partition(o)
	}
	return n
}

// isLeaf reports whether n is currently a leaf.
func (n *node[P, E]) isLeaf() bool { return n.leaf }

// isOverloaded reports whether a leaf holds more than binSize elements.
func (n *node[P, E]) isOverloaded(o *ops[P, E]) bool {
	return n.leaf && len(n.points) > o.binSize
}

// mustThreshold returns the threshold of an internal node, panicking if n is a
// leaf (spec §7: reading a leaf's threshold is a programmer error).
func (n *node[P, E]) mustThreshold() float64 {
	if n.leaf {
		panic(illegalState("threshold read on a leaf node"))
	}
	return n.threshold
}

// mustPoints returns a leaf's point bag, panicking if n is internal (spec
// §7: reading an internal node's raw points is a programmer error).
func (n *node[P, E]) mustPoints() []E {
	if !n.leaf {
		panic(illegalState("points read on an internal node"))
	}
	return n.points
}

// partition turns a leaf into an internal node following spec §4.1's
// seven-step algorithm, generalized slightly at the dm==0 boundary (see
// DESIGN.md "other implementation decisions") so that it never produces a
// zero threshold, which spec invariant 6 forbids outright. Returns false
// (leaving n an unmodified, possibly-overloaded leaf) on CannotPartition.
func (n *node[P, E]) partition(o *ops[P, E]) bool {
	pts := n.points
	if len(pts) < 2 {
		return false
	}
	if !n.hasCenter {
		n.center = o.locate(pts[0])
		n.hasCenter = true
	}
	center := n.center

	sort.Slice(pts, func(i, j int) bool {
		return o.distanceToElem(center, pts[i]) < o.distanceToElem(center, pts[j])
	})

	to := len(pts)
	m := (to - 1) / 2 // from is always 0 for a node's own point range
	dm := o.distanceToElem(center, pts[m])

	var splitIndex int
	var threshold float64
	found := false

	if dm > 0 {
		// Step 4: forward scan for the first point strictly beyond the median.
		for k := m + 1; k < to; k++ {
			if o.distanceToElem(center, pts[k]) > dm {
				splitIndex, threshold, found = k, dm, true
				break
			}
		}
		if !found {
			// Step 5: backward scan for the first point strictly inside the median.
			// pts[j] itself belongs on the inside (its distance equals the new
			// threshold exactly), so the outside range starts at j+1.
			for j := m; j >= 1; j-- {
				if o.distanceToElem(center, pts[j]) < dm {
					splitIndex, threshold, found = j+1, o.distanceToElem(center, pts[j]), true
					break
				}
			}
		}
		if !found {
			// Step 6: last resort, isolate the closest point (normally the
			// center) alone on the inside. Every other point sits at exactly
			// dm, so any threshold in [d0, dm) keeps the invariant; if the
			// closest point is also at dm, every point is equidistant from the
			// center and nothing can be split (CannotPartition).
			if d0 := o.distanceToElem(center, pts[0]); d0 < dm {
				splitIndex, threshold, found = 1, (d0+dm)/2, true
			}
		}
	} else {
		// dm == 0: the median coincides with the center (always true for
		// exactly two points, and whenever the leading run of duplicates of
		// the center reaches past the median index). Isolate every point
		// that is exactly at the center (distance 0) on the inside, and
		// everything strictly beyond it on the outside.
		firstPositive := to
		for i := 1; i < to; i++ {
			if o.distanceToElem(center, pts[i]) > 0 {
				firstPositive = i
				break
			}
		}
		if firstPositive < to {
			splitIndex = firstPositive
			threshold = o.distanceToElem(center, pts[firstPositive]) / 2
			found = true
		}
	}

	if !found {
		return false // CannotPartition: every point coincides with the center.
	}

	insidePts := append([]E(nil), pts[:splitIndex]...)
	outsidePts := append([]E(nil), pts[splitIndex:]...)

	n.leaf = false
	n.points = nil
	n.threshold = threshold
	n.inside = buildFromRange(o, insidePts)
	n.outside = buildFromRange(o, outsidePts)
	return true
}

// add inserts e into the subtree rooted at n, attempting an immediate
// partition if a leaf becomes overloaded (spec §4.1 "add").
func (n *node[P, E]) add(o *ops[P, E], e E) {
	leaf := n.addDeferred(o, e)
	if leaf != nil && leaf.isOverloaded(o) {
		leaf.partition(o)
	}
}

// addDeferred appends e to the leaf it routes to without attempting a
// partition, and returns that leaf. Used by add (which partitions
// immediately afterwards) and by addAll (which defers partitioning across
// the whole batch, spec §4.1 "addAll").
func (n *node[P, E]) addDeferred(o *ops[P, E], e E) *node[P, E] {
	if n.leaf {
		if !n.hasCenter {
			n.center = o.locate(e)
			n.hasCenter = true
		}
		n.points = append(n.points, e)
		return n
	}
	if o.distanceToElem(n.center, e) <= n.threshold {
		return n.inside.addDeferred(o, e)
	}
	return n.outside.addDeferred(o, e)
}

// contains reports whether e is stored anywhere in the subtree rooted at n.
func (n *node[P, E]) contains(o *ops[P, E], e E) bool {
	if n.leaf {
		for _, p := range n.points {
			if p == e {
				return true
			}
		}
		return false
	}
	if o.distanceToElem(n.center, e) <= n.threshold {
		return n.inside.contains(o, e)
	}
	return n.outside.contains(o, e)
}

// remove deletes the first element equal to e from n's bag. n must be a
// leaf (spec §7: removal from a non-leaf is a programmer error).
func (n *node[P, E]) remove(e E) bool {
	if !n.leaf {
		panic(illegalState("remove called on an internal node"))
	}
	for i, p := range n.points {
		if p == e {
			n.points = append(n.points[:i], n.points[i+1:]...)
			return true
		}
	}
	return false
}

// findNodeContainingPoint descends from n to the leaf that holds, or would
// hold, p, pushing every node visited (including n) onto stack.
func (n *node[P, E]) findNodeContainingPoint(o *ops[P, E], p P, stack *[]*node[P, E]) {
	*stack = append(*stack, n)
	if n.leaf {
		return
	}
	if o.distance(n.center, p) <= n.threshold {
		n.inside.findNodeContainingPoint(o, p, stack)
	} else {
		n.outside.findNodeContainingPoint(o, p, stack)
	}
}

// absorbChildren collapses an internal node back into a leaf, recursively
// absorbing grandchildren first (spec §4.1 "absorbChildren"). n must be
// internal (spec §7: absorbing into a leaf is a programmer error).
func (n *node[P, E]) absorbChildren() {
	if n.leaf {
		panic(illegalState("absorbChildren called on a leaf"))
	}
	if !n.inside.leaf {
		n.inside.absorbChildren()
	}
	if !n.outside.leaf {
		n.outside.absorbChildren()
	}
	points := make([]E, 0, len(n.inside.points)+len(n.outside.points))
	points = append(points, n.inside.points...)
	points = append(points, n.outside.points...)

	n.leaf = true
	n.points = points
	n.threshold = 0
	n.inside = nil
	n.outside = nil
}

// isAncestorOfNode reports whether descending from n by the ordinary
// add/contains routing rule toward other's center visits n itself. Since
// findNodeContainingPoint always pushes its starting node first, this is
// true for every other that has a center; it does not check that other lies
// on the descent path below n, and is false only when other has no center.
func (n *node[P, E]) isAncestorOfNode(o *ops[P, E], other *node[P, E]) bool {
	if !other.hasCenter {
		return false
	}
	var stack []*node[P, E]
	n.findNodeContainingPoint(o, other.center, &stack)
	for _, visited := range stack {
		if visited == n {
			return true
		}
	}
	return false
}

// gatherLeafNodes appends every leaf reachable from n to list.
func (n *node[P, E]) gatherLeafNodes(list *[]*node[P, E]) {
	if n.leaf {
		*list = append(*list, n)
		return
	}
	n.inside.gatherLeafNodes(list)
	n.outside.gatherLeafNodes(list)
}

// size returns the number of elements stored in the subtree rooted at n.
func (n *node[P, E]) size() int {
	if n.leaf {
		return len(n.points)
	}
	return n.inside.size() + n.outside.size()
}

// toArray appends every element in n's subtree to out, depth-first.
func (n *node[P, E]) toArray(out []E) []E {
	if n.leaf {
		return append(out, n.points...)
	}
	out = n.inside.toArray(out)
	return n.outside.toArray(out)
}

// kNearest offers every element in n's subtree to collector, pruning
// subtrees whose minimum possible distance to the query exceeds the
// collector's current worst-accepted distance (spec §4.1 "k-Nearest
// Neighbors"). The asymmetric strict/non-strict comparison at the boundary
// matters: it is what keeps candidates exactly on the threshold from being
// missed (spec §9 "Ordering asymmetry in pruning").
func (n *node[P, E]) kNearest(o *ops[P, E], q P, c *collector[P, E]) {
	if n.leaf {
		for _, e := range n.points {
			c.offer(e, o.locate(e))
		}
		return
	}
	delta := o.distance(q, n.center)
	if delta <= n.threshold {
		n.inside.kNearest(o, q, c)
		lowerBoundOutside := n.threshold - delta
		if c.worstDistance() > lowerBoundOutside {
			n.outside.kNearest(o, q, c)
		}
	} else {
		n.outside.kNearest(o, q, c)
		lowerBoundInside := delta - n.threshold
		if c.worstDistance() >= lowerBoundInside {
			n.inside.kNearest(o, q, c)
		}
	}
}

// radiusSearch appends every element within r of q (that also satisfies
// filter, if non-nil) to out, visiting both children whenever either might
// hold a qualifying point (spec §4.1 "Radius query").
func (n *node[P, E]) radiusSearch(o *ops[P, E], q P, r float64, filter func(E) bool, out *[]candidate[E]) {
	if n.leaf {
		for _, e := range n.points {
			p := o.locate(e)
			d := o.distance(q, p)
			if d <= r && (filter == nil || filter(e)) {
				*out = append(*out, candidate[E]{elem: e, dist: d})
			}
		}
		return
	}
	delta := o.distance(q, n.center)
	if delta <= n.threshold+r {
		n.inside.radiusSearch(o, q, r, filter, out)
	}
	if delta+r > n.threshold {
		n.outside.radiusSearch(o, q, r, filter, out)
	}
}
