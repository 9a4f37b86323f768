package vptree

import "testing"

func TestIteratorVisitsEveryElement(t *testing.T) {
	o := testOps(1)
	tr := &Tree[scalarPoint, scalarPoint]{root: buildFromRange(o, []scalarPoint{1, 2, 3, 4, 5}), ops: *o}
	it := tr.Iterator()
	seen := make(map[scalarPoint]bool)
	for it.HasNext() {
		e, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		seen[e] = true
	}
	for _, want := range []scalarPoint{1, 2, 3, 4, 5} {
		if !seen[want] {
			t.Errorf("iterator never visited %v", want)
		}
	}
}

func TestIteratorExhaustionReturnsNoSuchElement(t *testing.T) {
	o := testOps(4)
	tr := &Tree[scalarPoint, scalarPoint]{root: buildFromRange(o, []scalarPoint{1}), ops: *o}
	it := tr.Iterator()
	if _, err := it.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if it.HasNext() {
		t.Fatal("expected iterator to be exhausted")
	}
	if _, err := it.Next(); err != ErrNoSuchElement {
		t.Errorf("Next past end = %v, want ErrNoSuchElement", err)
	}
}

func TestIteratorRemoveUnsupported(t *testing.T) {
	o := testOps(4)
	tr := &Tree[scalarPoint, scalarPoint]{root: buildFromRange(o, []scalarPoint{1}), ops: *o}
	it := tr.Iterator()
	if err := it.Remove(); err != ErrIteratorMutation {
		t.Errorf("Remove = %v, want ErrIteratorMutation", err)
	}
}

func TestIteratorOverEmptyTree(t *testing.T) {
	tr, err := New[scalarPoint, scalarPoint](2, scalarDistance, identity)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	it := tr.Iterator()
	if it.HasNext() {
		t.Error("expected no elements from an empty tree's iterator")
	}
}
