package vptree

// Iterator walks every element stored in a tree at the moment it was
// created, leaf by leaf, in no prescribed inter-leaf order (spec §4.3
// "iterator"). It holds a precomputed list of leaf pointers taken at
// construction time: mutating the tree afterward leaves the iterator's
// behavior undefined (spec §5, "the iterator holds a precomputed list of
// leaf pointers ... concurrent mutation invalidates it").
type Iterator[P any, E comparable] struct {
	leaves   []*node[P, E]
	leafIdx  int
	pointIdx int
}

// HasNext reports whether Next would return an element.
func (it *Iterator[P, E]) HasNext() bool {
	it.skipExhaustedLeaves()
	return it.leafIdx < len(it.leaves)
}

// Next returns the next element, or ErrNoSuchElement once the iterator is
// exhausted.
func (it *Iterator[P, E]) Next() (E, error) {
	it.skipExhaustedLeaves()
	var zero E
	if it.leafIdx >= len(it.leaves) {
		return zero, ErrNoSuchElement
	}
	e := it.leaves[it.leafIdx].points[it.pointIdx]
	it.pointIdx++
	return e, nil
}

// Remove always fails: this iterator does not support deletion (spec §4.3
// "does not support deletion through the iterator").
func (it *Iterator[P, E]) Remove() error {
	return ErrIteratorMutation
}

func (it *Iterator[P, E]) skipExhaustedLeaves() {
	for it.leafIdx < len(it.leaves) && it.pointIdx >= len(it.leaves[it.leafIdx].points) {
		it.leafIdx++
		it.pointIdx = 0
	}
}
