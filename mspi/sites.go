package mspi

import (
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/mspiclip/encoding/bamprovider"
	"github.com/grailbio/mspiclip/interval"
)

// siteLen is the width of a cut-site remnant: the two bases past the
// fragment end that MspI's 5' overhang leaves behind.
const siteLen = 2

func isMapped(r *sam.Record) bool {
	return r.Ref != nil && r.Flags&sam.Unmapped == 0
}

func strandOf(r *sam.Record) interval.Strand {
	if r.Flags&sam.Reverse != 0 {
		return interval.Reverse
	}
	return interval.Forward
}

// CandidateSite returns the putative cut remnant adjacent to the enzymatic
// end of r: [end, end+2) for a forward read and [start-2, start) for a
// reverse read, on the read's strand. It returns false for unmapped records
// and for reverse reads starting less than two bases into the reference,
// which cannot end at a cut site.
func CandidateSite(r *sam.Record) (interval.Interval, bool) {
	if !isMapped(r) {
		return interval.Interval{}, false
	}
	iv := interval.Interval{Ref: r.Ref.Name(), Strand: strandOf(r)}
	if iv.Strand == interval.Forward {
		iv.Start = interval.PosType(r.End())
		iv.End = iv.Start + siteLen
	} else {
		if r.Pos < siteLen {
			return interval.Interval{}, false
		}
		iv.End = interval.PosType(r.Pos)
		iv.Start = iv.End - siteLen
	}
	return iv, true
}

// DeriveCandidates streams iter once and collects the distinct candidate
// sites of all R1 records, in (reference, start, end, strand) order. It
// also verifies that the stream is coordinate-sorted. The iterator is not
// closed.
func DeriveCandidates(iter bamprovider.Iterator, paired bool) (*interval.Set, error) {
	var (
		sites  = interval.NewSet()
		sorted bamprovider.SortChecker
	)
	for iter.Scan() {
		r := iter.Record()
		if err := sorted.Check(r); err != nil {
			return nil, err
		}
		if MateRoleOf(r, paired) != R1 {
			continue
		}
		if iv, ok := CandidateSite(r); ok {
			sites.Insert(iv)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return sites, nil
}
