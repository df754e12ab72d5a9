package interval

import "github.com/biogo/store/llrb"

type setItem Interval

// Compare implements llrb.Comparable.
func (a setItem) Compare(b llrb.Comparable) int {
	return Interval(a).Compare(Interval(b.(setItem)))
}

// Set is an ordered collection of distinct intervals. Two intervals are the
// same element only if reference, start, end and strand all match, so Set
// membership is the exact mutual-containment test of MutuallyContains.
//
// Insert is not thread-safe. Once construction is done, concurrent Contains,
// Len and Do calls are safe.
type Set struct {
	tree llrb.Tree
}

// NewSet returns a Set holding ivs.
func NewSet(ivs ...Interval) *Set {
	s := &Set{}
	for _, iv := range ivs {
		s.Insert(iv)
	}
	return s
}

// Insert adds iv. It returns false if an identical interval was already
// present.
func (s *Set) Insert(iv Interval) bool {
	if s.tree.Get(setItem(iv)) != nil {
		return false
	}
	s.tree.Insert(setItem(iv))
	return true
}

// Contains reports whether an identical interval is in the set.
func (s *Set) Contains(iv Interval) bool {
	return s.tree.Get(setItem(iv)) != nil
}

// Len returns the number of distinct intervals.
func (s *Set) Len() int { return s.tree.Len() }

// Do calls fn on each interval in ascending order until fn returns true.
func (s *Set) Do(fn func(Interval) (done bool)) {
	s.tree.Do(func(c llrb.Comparable) bool {
		return fn(Interval(c.(setItem)))
	})
}

// Slice returns the intervals in ascending order.
func (s *Set) Slice() []Interval {
	out := make([]Interval, 0, s.Len())
	s.Do(func(iv Interval) bool {
		out = append(out, iv)
		return false
	})
	return out
}
