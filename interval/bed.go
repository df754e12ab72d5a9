package interval

import (
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// BEDRecord is one line of a six-column BED file.
type BEDRecord struct {
	Interval
	Name  string
	Score int
}

type bedRow struct {
	Chrom  string `tsv:"chrom"`
	Start  int64  `tsv:"start"`
	End    int64  `tsv:"end"`
	Name   string `tsv:"name"`
	Score  int    `tsv:"score"`
	Strand string `tsv:"strand"`
}

// WriteBED writes recs as six-column BED ("chrom start end name score
// strand"). An empty name is written as ".".
func WriteBED(w io.Writer, recs []BEDRecord) error {
	out := tsv.NewWriter(w)
	for _, r := range recs {
		name := r.Name
		if name == "" {
			name = "."
		}
		out.WriteString(r.Ref)
		out.WriteInt64(int64(r.Start))
		out.WriteInt64(int64(r.End))
		out.WriteString(name)
		out.WriteInt64(int64(r.Score))
		out.WriteString(string(r.Strand))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteSetBED writes every interval of s in order, with an empty name and
// zero score.
func WriteSetBED(w io.Writer, s *Set) error {
	recs := make([]BEDRecord, 0, s.Len())
	s.Do(func(iv Interval) bool {
		recs = append(recs, BEDRecord{Interval: iv})
		return false
	})
	return WriteBED(w, recs)
}

// ReadBED parses six-column BED data. Comment lines start with '#'.
func ReadBED(r io.Reader) ([]BEDRecord, error) {
	tr := tsv.NewReader(r)
	tr.Comment = '#'
	var recs []BEDRecord
	for {
		var row bedRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, "parse BED")
		}
		strand, err := ParseStrand(row.Strand)
		if err != nil {
			return nil, errors.E(errors.Invalid, err)
		}
		rec := BEDRecord{
			Interval: Interval{Ref: row.Chrom, Start: PosType(row.Start), End: PosType(row.End), Strand: strand},
			Name:     row.Name,
			Score:    row.Score,
		}
		if !rec.Valid() {
			return nil, errors.E(errors.Invalid, "empty BED interval", rec.Interval.String())
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
