package interval

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// ChromSizes maps reference names to their lengths, as in a UCSC
// .chrom.sizes file or the first two columns of a faidx index.
type ChromSizes map[string]PosType

type chromSizeRow struct {
	Name string `tsv:"name"`
	Size int64  `tsv:"size"`
}

// ParseChromSizes reads a two-column "<name>\t<length>" table. Lines starting
// with '#' are ignored.
func ParseChromSizes(r io.Reader) (ChromSizes, error) {
	tr := tsv.NewReader(r)
	tr.Comment = '#'
	sizes := ChromSizes{}
	for {
		var row chromSizeRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, "parse chromosome sizes")
		}
		if row.Size < 0 || row.Size > posTypeMax {
			return nil, errors.E(errors.Invalid, "chromosome size out of range:", row.Name)
		}
		if _, ok := sizes[row.Name]; ok {
			return nil, errors.E(errors.Invalid, "duplicate chromosome:", row.Name)
		}
		sizes[row.Name] = PosType(row.Size)
	}
	if len(sizes) == 0 {
		return nil, errors.E(errors.Invalid, "chromosome size table is empty")
	}
	return sizes, nil
}

// ReadChromSizes loads a chromosome size table from path. Paths ending in
// ".gz" are decompressed.
func ReadChromSizes(ctx context.Context, path string) (sizes ChromSizes, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open chromosome sizes", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.E(err, "open gzip chromosome sizes", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	if sizes, err = ParseChromSizes(r); err != nil {
		return nil, errors.E(err, path)
	}
	return sizes, nil
}

// Slop grows iv by left bases before its start and right bases after its
// end, reading "before" and "after" along iv's strand (bedtools slop -s): on
// the reverse strand left extends the genomic end and right the genomic
// start. Negative amounts shrink. The result is clamped to [0, chromosome
// size]; it may be empty when clamping or shrinking consumes it. A reference
// missing from the table is an error of kind NotExist.
func (c ChromSizes) Slop(iv Interval, left, right int) (Interval, error) {
	size, ok := c[iv.Ref]
	if !ok {
		return Interval{}, errors.E(errors.NotExist, "reference not in chromosome sizes:", iv.Ref)
	}
	if iv.Strand == Reverse {
		left, right = right, left
	}
	start := int64(iv.Start) - int64(left)
	end := int64(iv.End) + int64(right)
	if start < 0 {
		start = 0
	}
	if end > int64(size) {
		end = int64(size)
	}
	if start > int64(size) {
		start = int64(size)
	}
	if end < start {
		end = start
	}
	iv.Start, iv.End = PosType(start), PosType(end)
	return iv, nil
}
