// Package vptreesync wraps the core vptree.Tree behind a readers/writer
// lock, following the same read-lock/write-lock split the reference's
// ShipDB used around its map (Known/get taking the read lock, addShip/
// UpdateStatic taking the write lock): readers proceed concurrently, and
// a single mutator excludes everyone else (spec.md §5).
package vptreesync

import (
	"sync"
	"time"

	"github.com/skipvik/vptree/internal/telemetry"
	"github.com/skipvik/vptree/vptree"
)

// slowLockThreshold is the wait time above which a lock acquisition is
// reported through the telemetry reporter.
const slowLockThreshold = 50 * time.Millisecond

// Tree is a concurrency-safe wrapper around vptree.Tree[P, E]. The zero
// value is not usable; construct with New or From.
type Tree[P any, E comparable] struct {
	rw     sync.RWMutex
	inner  *vptree.Tree[P, E]
	report *telemetry.Reporter
}

// New wraps a freshly constructed empty tree.
func New[P any, E comparable](binSize int, distance vptree.Metric[P], locate vptree.Locator[E, P], logger *telemetry.Logger) (*Tree[P, E], error) {
	inner, err := vptree.New[P, E](binSize, distance, locate)
	if err != nil {
		return nil, err
	}
	return wrap(inner, logger), nil
}

// From wraps a tree bulk-loaded from elements.
func From[P any, E comparable](binSize int, distance vptree.Metric[P], locate vptree.Locator[E, P], elements []E, logger *telemetry.Logger) (*Tree[P, E], error) {
	inner, err := vptree.From[P, E](binSize, distance, locate, elements)
	if err != nil {
		return nil, err
	}
	return wrap(inner, logger), nil
}

func wrap[P any, E comparable](inner *vptree.Tree[P, E], logger *telemetry.Logger) *Tree[P, E] {
	t := &Tree[P, E]{inner: inner}
	if logger != nil {
		t.report = telemetry.NewReporter(logger, "vptreesync", 5*time.Second, 5*time.Minute)
	}
	return t
}

func (t *Tree[P, E]) rlock() func() {
	start := time.Now()
	t.rw.RLock()
	t.noteSlowLock(start)
	return t.rw.RUnlock
}

func (t *Tree[P, E]) wlock() func() {
	start := time.Now()
	t.rw.Lock()
	t.noteSlowLock(start)
	return t.rw.Unlock
}

func (t *Tree[P, E]) noteSlowLock(start time.Time) {
	if t.report == nil {
		return
	}
	if waited := time.Since(start); waited > slowLockThreshold {
		t.report.Note("waited %s to acquire lock", waited)
	}
}

// Read lock: Contains, ContainsAll, IsEmpty, Iterator, Size, ToArray, and
// both search operations (spec §5).

func (t *Tree[P, E]) Contains(e E) bool {
	defer t.rlock()()
	return t.inner.Contains(e)
}

func (t *Tree[P, E]) ContainsAll(es []E) bool {
	defer t.rlock()()
	return t.inner.ContainsAll(es)
}

func (t *Tree[P, E]) IsEmpty() bool {
	defer t.rlock()()
	return t.inner.IsEmpty()
}

// Iterator snapshots the tree's current leaves under a read lock; the
// returned iterator is then independent of further locking, matching
// spec §5's note that the iterator's own snapshot is what protects it, not
// ongoing lock discipline.
func (t *Tree[P, E]) Iterator() *vptree.Iterator[P, E] {
	defer t.rlock()()
	return t.inner.Iterator()
}

func (t *Tree[P, E]) Size() int {
	defer t.rlock()()
	return t.inner.Size()
}

func (t *Tree[P, E]) ToArray() []E {
	defer t.rlock()()
	return t.inner.ToArray()
}

func (t *Tree[P, E]) GetNearestNeighbors(q P, k int, opts ...vptree.SearchOption[E]) ([]E, error) {
	defer t.rlock()()
	return t.inner.GetNearestNeighbors(q, k, opts...)
}

func (t *Tree[P, E]) GetNearestNeighbor(q P, opts ...vptree.SearchOption[E]) (E, bool) {
	defer t.rlock()()
	return t.inner.GetNearestNeighbor(q, opts...)
}

func (t *Tree[P, E]) GetAllWithinDistance(q P, r float64, filter func(E) bool) ([]E, error) {
	defer t.rlock()()
	return t.inner.GetAllWithinDistance(q, r, filter)
}

// Write lock: Add, AddAll, Clear, Remove, RemoveAll, RetainAll, MovePoint
// (spec §5).

func (t *Tree[P, E]) Add(e E) bool {
	defer t.wlock()()
	return t.inner.Add(e)
}

func (t *Tree[P, E]) AddAll(es []E) bool {
	defer t.wlock()()
	return t.inner.AddAll(es)
}

func (t *Tree[P, E]) Clear() {
	defer t.wlock()()
	t.inner.Clear()
}

func (t *Tree[P, E]) Remove(e E) bool {
	defer t.wlock()()
	return t.inner.Remove(e)
}

func (t *Tree[P, E]) RemoveAll(es []E) bool {
	defer t.wlock()()
	return t.inner.RemoveAll(es)
}

func (t *Tree[P, E]) RetainAll(es []E) bool {
	defer t.wlock()()
	return t.inner.RetainAll(es)
}

func (t *Tree[P, E]) MovePoint(oldElem, newElem E, dest P) error {
	defer t.wlock()()
	return t.inner.MovePoint(oldElem, newElem, dest)
}
