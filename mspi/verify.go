package mspi

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/mspiclip/encoding/fasta"
	"github.com/grailbio/mspiclip/interval"
)

// The MspI recognition site, at the 3' end of the strand-aware window, with
// at most the two overhang bases after it.
var mspiMotif = regexp.MustCompile(`(?i)CCGG.{0,2}$`)

// verifySlop is how far the verification window reaches from a candidate
// site back into the read.
const verifySlop = 4

// VerifyWindow returns the reference window checked for the MspI motif: the
// candidate site grown verifySlop bases upstream along its strand, clamped to
// the chromosome.
func VerifyWindow(sizes interval.ChromSizes, site interval.Interval) (interval.Interval, error) {
	return sizes.Slop(site, verifySlop, 0)
}

// Verifier checks candidate sites against a reference genome.
type Verifier struct {
	Reference fasta.Fasta
	Sizes     interval.ChromSizes
}

// Verify reports whether site is a true MspI cut remnant. A site that runs
// past the chromosome end, left by a read ending within two bases of it, is
// never one. A reference missing from the genome or the size table is an
// error of kind NotExist. A read end past the chromosome end, or a window
// the genome cannot serve, is an error of kind Invalid.
func (v *Verifier) Verify(site interval.Interval) (bool, error) {
	size, ok := v.Sizes[site.Ref]
	if !ok {
		return false, errors.E(errors.NotExist, "reference not in chromosome sizes:", site.Ref)
	}
	readEnd := site.Start
	if site.Strand == interval.Reverse {
		readEnd = site.End
	}
	if site.Start < 0 || readEnd > size {
		return false, errors.E(errors.Invalid,
			fmt.Sprintf("candidate site %s lies past the end of %s (length %d)", site, site.Ref, size))
	}
	if site.End > size {
		return false, nil
	}
	window, err := VerifyWindow(v.Sizes, site)
	if err != nil {
		return false, err
	}
	if _, err := v.Reference.Len(window.Ref); err != nil {
		return false, errors.E(errors.NotExist, err, "reference not in genome:", window.Ref)
	}
	seq, err := fasta.GetStranded(v.Reference, window.Ref,
		uint64(window.Start), uint64(window.End), window.Strand == interval.Reverse)
	if err != nil {
		return false, errors.E(errors.Invalid, err, "verify", site.String())
	}
	return mspiMotif.MatchString(seq), nil
}

// VerifyCandidates checks every candidate on up to parallelism goroutines
// and returns the verified ones as blocks. Any lookup failure aborts.
func (v *Verifier) VerifyCandidates(candidates *interval.Set, parallelism int) (*BlockSet, error) {
	sites := candidates.Slice()
	if len(sites) == 0 {
		return NewBlockSet(), nil
	}
	if parallelism <= 0 {
		parallelism = 1
	}
	if parallelism > len(sites) {
		parallelism = len(sites)
	}
	verified := make([]bool, len(sites))
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(sites)) / parallelism
		endIdx := ((jobIdx + 1) * len(sites)) / parallelism
		for i := startIdx; i < endIdx; i++ {
			ok, err := v.Verify(sites[i])
			if err != nil {
				return err
			}
			verified[i] = ok
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	blocks := interval.NewSet()
	for i, ok := range verified {
		if ok {
			blocks.Insert(sites[i])
		}
	}
	log.Debug.Printf("verified %d of %d candidate sites", blocks.Len(), len(sites))
	return &BlockSet{set: blocks}, nil
}

// CheckReferenceSizes returns an error of kind Precondition if the BAM
// header, the genome and the chromosome size table disagree on the length of
// a reference they share. References missing from some of them are checked
// only when a lookup needs them.
func CheckReferenceSizes(header *sam.Header, ref fasta.Fasta, sizes interval.ChromSizes) error {
	mismatch := func(name, what string, got int64, other string, want int64) error {
		return errors.E(errors.Precondition,
			fmt.Sprintf("inconsistent lengths for contig %s: %d in %s, %d in %s", name, got, what, want, other))
	}
	for _, r := range header.Refs() {
		if size, ok := sizes[r.Name()]; ok && int64(r.Len()) != int64(size) {
			return mismatch(r.Name(), "BAM header", int64(r.Len()), "chromosome sizes", int64(size))
		}
		if n, err := ref.Len(r.Name()); err == nil && int64(n) != int64(r.Len()) {
			return mismatch(r.Name(), "BAM header", int64(r.Len()), "genome", int64(n))
		}
	}
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if n, err := ref.Len(name); err == nil && int64(n) != int64(sizes[name]) {
			return mismatch(name, "genome", int64(n), "chromosome sizes", int64(sizes[name]))
		}
	}
	return nil
}
