package mspi

import (
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/mspiclip/encoding/bamprovider"
)

// MateRole is the stream a record is routed to by the mate splitter.
type MateRole int

const (
	// Unresolved records are paired but flagged neither first nor second in
	// pair. They are dropped from the output.
	Unresolved MateRole = iota
	// R1 records are first-in-pair, or any record of a single-end library.
	// Only R1 records are classified and corrected.
	R1
	// R2 records are second-in-pair. They pass through unchanged.
	R2
)

func (r MateRole) String() string {
	switch r {
	case R1:
		return "R1"
	case R2:
		return "R2"
	}
	return "unresolved"
}

// DetectPaired scans iter until it finds a record flagged as paired, and
// reports whether it found one. An empty stream is single-end. The iterator
// is not closed.
func DetectPaired(iter bamprovider.Iterator) (bool, error) {
	for iter.Scan() {
		if iter.Record().Flags&sam.Paired != 0 {
			return true, nil
		}
	}
	return false, iter.Err()
}

// MateRoleOf routes r for a paired-end (paired=true) or single-end library.
func MateRoleOf(r *sam.Record, paired bool) MateRole {
	if !paired {
		return R1
	}
	switch {
	case r.Flags&sam.Read1 != 0:
		return R1
	case r.Flags&sam.Read2 != 0:
		return R2
	}
	return Unresolved
}
