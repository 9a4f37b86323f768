package vptree

import (
	"math"
	"testing"
)

type scalarPoint float64

func scalarDistance(a, b scalarPoint) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}

func identity(e scalarPoint) scalarPoint { return e }

func TestCollectorAcceptsUpToCapacity(t *testing.T) {
	c := newCollector[scalarPoint, scalarPoint](2, math.Inf(1), nil, scalarDistance, 0)
	if !c.offer(5, 5) {
		t.Fatal("expected first offer to be accepted")
	}
	if !c.offer(3, 3) {
		t.Fatal("expected second offer to be accepted")
	}
	if got := c.worstDistance(); got != 5 {
		t.Errorf("worstDistance = %v, want 5", got)
	}
}

func TestCollectorEvictsWorstWhenFull(t *testing.T) {
	c := newCollector[scalarPoint, scalarPoint](2, math.Inf(1), nil, scalarDistance, 0)
	c.offer(10, 10)
	c.offer(5, 5)
	if c.offer(12, 12) {
		t.Error("12 is not strictly closer than the worst (10), should be rejected")
	}
	if !c.offer(2, 2) {
		t.Error("2 is strictly closer than the worst (10), should be accepted")
	}
	got := c.toSortedList()
	if len(got) != 2 || got[0] != 2 || got[1] != 5 {
		t.Errorf("toSortedList = %v, want [2 5]", got)
	}
}

func TestCollectorEmptyWorstDistanceIsInfinite(t *testing.T) {
	c := newCollector[scalarPoint, scalarPoint](3, math.Inf(1), nil, scalarDistance, 0)
	if !math.IsInf(c.worstDistance(), 1) {
		t.Errorf("worstDistance of empty collector = %v, want +Inf", c.worstDistance())
	}
}

func TestCollectorNotYetFullWorstDistanceIsInfinite(t *testing.T) {
	c := newCollector[scalarPoint, scalarPoint](3, math.Inf(1), nil, scalarDistance, 0)
	c.offer(5, 5)
	if !math.IsInf(c.worstDistance(), 1) {
		t.Errorf("worstDistance with 1/3 capacity filled = %v, want +Inf", c.worstDistance())
	}
	c.offer(1, 1)
	if !math.IsInf(c.worstDistance(), 1) {
		t.Errorf("worstDistance with 2/3 capacity filled = %v, want +Inf", c.worstDistance())
	}
	c.offer(9, 9)
	if got := c.worstDistance(); got != 9 {
		t.Errorf("worstDistance once full = %v, want 9", got)
	}
}

func TestCollectorRespectsMaxDistance(t *testing.T) {
	c := newCollector[scalarPoint, scalarPoint](5, 4, nil, scalarDistance, 0)
	if c.offer(10, 10) {
		t.Error("offer beyond maxDistance should be rejected")
	}
	if !c.offer(3, 3) {
		t.Error("offer within maxDistance should be accepted")
	}
}

func TestCollectorRespectsFilter(t *testing.T) {
	onlyEven := func(e scalarPoint) bool { return int(e)%2 == 0 }
	c := newCollector[scalarPoint, scalarPoint](5, math.Inf(1), onlyEven, scalarDistance, 0)
	if c.offer(3, 3) {
		t.Error("odd candidate should be rejected by filter")
	}
	if !c.offer(4, 4) {
		t.Error("even candidate should be accepted")
	}
}

func TestCollectorToSortedListDoesNotDrain(t *testing.T) {
	c := newCollector[scalarPoint, scalarPoint](3, math.Inf(1), nil, scalarDistance, 0)
	c.offer(5, 5)
	c.offer(1, 1)
	first := c.toSortedList()
	second := c.toSortedList()
	if len(first) != len(second) {
		t.Fatalf("toSortedList length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("toSortedList differs between calls at index %d: %v vs %v", i, first[i], second[i])
		}
	}
}
