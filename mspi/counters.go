package mspi

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// PipelineCounters summarize a run. Counters from disjoint parts of the
// input combine with Add.
type PipelineCounters struct {
	// TotalReads is the number of input records.
	TotalReads int64
	// MappedReads is the number of input records that are not unmapped.
	MappedReads int64
	// R1Reads, R2Reads and UnresolvedReads count records by mate role.
	R1Reads, R2Reads, UnresolvedReads int64
	// Candidates is the number of distinct candidate cut sites.
	Candidates int64
	// Blocks is the number of verified cut sites.
	Blocks int64
	// MspPositive is the number of reads masked by this run.
	MspPositive int64
	// MspNegative is the number of R1 reads left as they were.
	MspNegative int64
	// PreviouslyMasked is the number of reads ending at a verified site whose
	// enzymatic end was already masked.
	PreviouslyMasked int64
	// OutputReads is the number of records written.
	OutputReads int64
}

// Add accumulates o into c.
func (c *PipelineCounters) Add(o PipelineCounters) {
	c.TotalReads += o.TotalReads
	c.MappedReads += o.MappedReads
	c.R1Reads += o.R1Reads
	c.R2Reads += o.R2Reads
	c.UnresolvedReads += o.UnresolvedReads
	c.Candidates += o.Candidates
	c.Blocks += o.Blocks
	c.MspPositive += o.MspPositive
	c.MspNegative += o.MspNegative
	c.PreviouslyMasked += o.PreviouslyMasked
	c.OutputReads += o.OutputReads
}

// MspReads is the number of reads ending at a verified site, whether masked
// by this run or before it.
func (c PipelineCounters) MspReads() int64 { return c.MspPositive + c.PreviouslyMasked }

// WriteReport writes the unique-block, MspI-read and all-read headline
// counts, each under its title line, followed by every counter as a
// "name\tvalue" line.
func (c PipelineCounters) WriteReport(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Number of unique MspI reads:\n%d\nNumber of MspI reads:\n%d\nNumber of all reads:\n%d\n",
		c.Blocks, c.MspReads(), c.MappedReads); err != nil {
		return err
	}
	tw := tsv.NewWriter(w)
	for _, row := range []struct {
		name string
		v    int64
	}{
		{"total_reads", c.TotalReads},
		{"mapped_reads", c.MappedReads},
		{"r1_reads", c.R1Reads},
		{"r2_reads", c.R2Reads},
		{"unresolved_reads", c.UnresolvedReads},
		{"candidate_sites", c.Candidates},
		{"blocks", c.Blocks},
		{"msp_positive", c.MspPositive},
		{"msp_negative", c.MspNegative},
		{"previously_masked", c.PreviouslyMasked},
		{"output_reads", c.OutputReads},
	} {
		tw.WriteString(row.name)
		tw.WriteInt64(row.v)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteReportFile writes the report to path.
func (c PipelineCounters) WriteReportFile(ctx context.Context, path string) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	if err = c.WriteReport(out.Writer(ctx)); err != nil {
		out.Discard(ctx) // nolint: errcheck
		return errors.E(err, "write", path)
	}
	return out.Close(ctx)
}
