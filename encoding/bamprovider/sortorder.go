package bamprovider

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// RefByName finds a sam.Reference with the given name. It returns nil if a
// reference is not found.
func RefByName(h *sam.Header, refName string) *sam.Reference {
	for _, ref := range h.Refs() {
		if ref.Name() == refName {
			return ref
		}
	}
	return nil
}

// CheckSortOrder returns an error of kind Precondition if the header declares
// an order other than coordinate. A header without an @HD SO field passes;
// its order is then enforced record by record with SortChecker.
func CheckSortOrder(h *sam.Header) error {
	switch h.SortOrder {
	case sam.Coordinate, sam.UnknownOrder:
		return nil
	}
	return errors.E(errors.Precondition, fmt.Sprintf("input is not coordinate-sorted (header SO:%v)", h.SortOrder))
}

// SortChecker verifies that records arrive in coordinate order: ascending
// reference ID, ascending position within a reference, and records without
// a reference last. The zero value is ready to use.
type SortChecker struct {
	n        int
	lastRef  int
	lastPos  int
	unplaced bool
}

// Check returns an error of kind Precondition if r sorts before the record
// passed to the previous call.
func (c *SortChecker) Check(r *sam.Record) error {
	refID, pos := -1, -1
	if r.Ref != nil {
		refID, pos = r.Ref.ID(), r.Pos
	}
	defer func() { c.n++ }()
	if c.n == 0 {
		c.lastRef, c.lastPos, c.unplaced = refID, pos, refID < 0
		return nil
	}
	if refID < 0 {
		c.unplaced = true
		return nil
	}
	if c.unplaced || refID < c.lastRef || (refID == c.lastRef && pos < c.lastPos) {
		return errors.E(errors.Precondition,
			fmt.Sprintf("input is not coordinate-sorted: record %d (%s) at %s:%d follows %d:%d",
				c.n, r.Name, r.Ref.Name(), pos, c.lastRef, c.lastPos))
	}
	c.lastRef, c.lastPos = refID, pos
	return nil
}
