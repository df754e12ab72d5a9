package interval

import (
	"fmt"
	"math"
)

// PosType is the coordinate type.
type PosType int32

const posTypeMax = math.MaxInt32

// Strand is the strand an interval lies on, encoded the way BED column 6
// encodes it.
type Strand byte

const (
	// NoStrand marks an unstranded interval.
	NoStrand Strand = '.'
	// Forward is the '+' strand.
	Forward Strand = '+'
	// Reverse is the '-' strand.
	Reverse Strand = '-'
)

// ParseStrand parses a BED strand column.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	case ".", "":
		return NoStrand, nil
	}
	return NoStrand, fmt.Errorf("interval: invalid strand %q", s)
}

func (s Strand) String() string { return string(s) }

// Interval is the half-open range [Start, End) on reference Ref.
type Interval struct {
	Ref    string
	Start  PosType
	End    PosType
	Strand Strand
}

// Valid reports whether the interval is non-empty.
func (iv Interval) Valid() bool { return iv.End > iv.Start }

// Len returns End - Start.
func (iv Interval) Len() int { return int(iv.End - iv.Start) }

// Compare orders intervals by reference name, start, end, then strand.
func (iv Interval) Compare(other Interval) int {
	switch {
	case iv.Ref < other.Ref:
		return -1
	case iv.Ref > other.Ref:
		return 1
	}
	if d := int64(iv.Start) - int64(other.Start); d != 0 {
		return sign(d)
	}
	if d := int64(iv.End) - int64(other.End); d != 0 {
		return sign(d)
	}
	return int(iv.Strand) - int(other.Strand)
}

// Contains reports whether other lies entirely inside iv on the same
// reference. Strand is not consulted.
func (iv Interval) Contains(other Interval) bool {
	return iv.Ref == other.Ref && iv.Start <= other.Start && other.End <= iv.End
}

// MutuallyContains reports whether iv and other contain each other on the same
// strand, i.e. bedtools intersect -s -f 1 -F 1. For non-empty intervals this
// holds only when the two are coordinate-identical.
func (iv Interval) MutuallyContains(other Interval) bool {
	return iv.Strand == other.Strand && iv.Contains(other) && other.Contains(iv)
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d(%c)", iv.Ref, iv.Start, iv.End, iv.Strand)
}

func sign(d int64) int {
	if d < 0 {
		return -1
	}
	return 1
}
