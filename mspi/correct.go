package mspi

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// Bismark's aux tags. XM is the per-base methylation call string; the
// others are carried through untouched.
var (
	nmTag = sam.NewTag("NM")
	mdTag = sam.NewTag("MD")
	xmTag = sam.NewTag("XM")
	xrTag = sam.NewTag("XR")
	xgTag = sam.NewTag("XG")
)

// Tags are a record's Bismark aux fields, looked up by name. A missing
// field is nil.
type Tags struct {
	NM, MD, XM, XR, XG sam.Aux
	// xmIdx is the position of XM in the record's aux fields, or -1.
	xmIdx int
}

// ParseTags looks up r's Bismark aux fields.
func ParseTags(r *sam.Record) Tags {
	t := Tags{xmIdx: -1}
	for i, aux := range r.AuxFields {
		switch aux.Tag() {
		case nmTag:
			t.NM = aux
		case mdTag:
			t.MD = aux
		case xmTag:
			t.XM, t.xmIdx = aux, i
		case xrTag:
			t.XR = aux
		case xgTag:
			t.XG = aux
		}
	}
	return t
}

const (
	maskedBase = 'N'
	maskedQual = 0
	maskedCall = '.'
)

// Corrector masks the enzymatic end of MspPositive reads: the last
// MaskLength bases of a forward read or the first MaskLength bases of a
// reverse read become 'N' with quality 0, and the matching XM calls become
// '.'. Every other field, including NM, MD, XR, XG and the order of the aux
// fields, is left as it was.
type Corrector struct {
	MaskLength int
}

// maskRange returns the half-open range of read positions to mask, clamped
// to the read.
func (c Corrector) maskRange(r *sam.Record) (int, int) {
	n := r.Seq.Length
	m := c.MaskLength
	if m > n {
		m = n
	}
	if r.Flags&sam.Reverse != 0 {
		return 0, m
	}
	return n - m, n
}

// checkShape returns an error of kind Integrity unless r's quality string,
// and XM call string if present, match its sequence length.
func checkShape(r *sam.Record) (xm []byte, xmIdx int, err error) {
	n := r.Seq.Length
	if len(r.Qual) != n {
		return nil, -1, errors.E(errors.Integrity,
			fmt.Sprintf("read %s: %d bases but %d qualities", r.Name, n, len(r.Qual)))
	}
	tags := ParseTags(r)
	if tags.XM == nil {
		return nil, -1, nil
	}
	aux := tags.XM
	s, ok := aux.Value().(string)
	if !ok || aux.Type() != 'Z' {
		return nil, -1, errors.E(errors.Integrity, fmt.Sprintf("read %s: XM is not a string", r.Name))
	}
	if len(s) != n {
		return nil, -1, errors.E(errors.Integrity,
			fmt.Sprintf("read %s: %d bases but %d XM calls", r.Name, n, len(s)))
	}
	return []byte(s), tags.xmIdx, nil
}

// IsMasked reports whether the bases Mask would touch are already masked
// bases with zero quality. An empty read is never masked.
func (c Corrector) IsMasked(r *sam.Record) bool {
	lo, hi := c.maskRange(r)
	if lo == hi || len(r.Qual) != r.Seq.Length {
		return false
	}
	bases := r.Seq.Expand()
	for i := lo; i < hi; i++ {
		if bases[i] != maskedBase || r.Qual[i] != maskedQual {
			return false
		}
	}
	return true
}

// Mask masks r in place. It returns an error of kind Integrity, leaving r
// untouched, if the sequence, quality and XM lengths disagree.
func (c Corrector) Mask(r *sam.Record) error {
	xm, xmIdx, err := checkShape(r)
	if err != nil {
		return err
	}
	lo, hi := c.maskRange(r)
	if lo == hi {
		return nil
	}
	if xm != nil {
		for i := lo; i < hi; i++ {
			xm[i] = maskedCall
		}
		aux, err := sam.NewAux(xmTag, string(xm))
		if err != nil {
			return errors.E(errors.Integrity, err, "read", r.Name)
		}
		r.AuxFields[xmIdx] = aux
	}
	bases := r.Seq.Expand()
	for i := lo; i < hi; i++ {
		bases[i] = maskedBase
		r.Qual[i] = maskedQual
	}
	r.Seq = sam.NewSeq(bases)
	_, _, err = checkShape(r)
	return err
}
