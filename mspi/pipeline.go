package mspi

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/mspiclip/encoding/bamprovider"
	"github.com/grailbio/mspiclip/encoding/fasta"
	"github.com/grailbio/mspiclip/interval"
	"github.com/klauspost/compress/gzip"
)

// Result is the outcome of a successful run.
type Result struct {
	Counters PipelineCounters
	Blocks   *BlockSet
}

// Run clips MspI cut-site remnants from the reads of provider and writes the
// records to out as BAM, in input order. Only Parallelism, BatchSize,
// MaskLength and CompressionLevel of opts are consulted; zero values select
// the same defaults as Opts.Validate.
//
// Run makes three passes over provider: one to detect paired-end data, one to
// collect candidate cut sites, and one to classify, mask and write. Sites
// are verified against ref between the second and third passes. On error
// out may hold a partial BAM.
func Run(ctx context.Context, provider bamprovider.Provider, ref fasta.Fasta, sizes interval.ChromSizes, opts Opts, out io.Writer) (Result, error) {
	var res Result
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	if opts.CompressionLevel == 0 {
		opts.CompressionLevel = gzip.DefaultCompression
	}
	if opts.MaskLength == 0 {
		opts.MaskLength = DefaultMaskLength
	}
	header, err := provider.GetHeader()
	if err != nil {
		return res, errors.E(errors.Precondition, err, "read BAM header")
	}
	if err = bamprovider.CheckSortOrder(header); err != nil {
		return res, err
	}
	if err = CheckReferenceSizes(header, ref, sizes); err != nil {
		return res, err
	}

	t0 := time.Now()
	iter := provider.NewIterator()
	paired, err := DetectPaired(iter)
	if e := iter.Close(); err == nil {
		err = e
	}
	if err != nil {
		return res, errors.E(err, "detect pairing")
	}
	log.Printf("paired-end: %v", paired)

	iter = provider.NewIterator()
	candidates, err := DeriveCandidates(iter, paired)
	if e := iter.Close(); err == nil {
		err = e
	}
	if err != nil {
		return res, errors.E(err, "derive candidate sites")
	}
	log.Printf("%d candidate sites", candidates.Len())
	t1 := time.Now()
	log.Debug.Printf("candidate pass done in %v", t1.Sub(t0))

	v := Verifier{Reference: ref, Sizes: sizes}
	if res.Blocks, err = v.VerifyCandidates(candidates, opts.Parallelism); err != nil {
		return res, errors.E(err, "verify candidate sites")
	}
	log.Printf("%d verified MspI sites", res.Blocks.Len())
	if res.Blocks.Len() == 0 {
		log.Printf("no candidate site verified; every read is left unmasked")
	}
	t2 := time.Now()
	log.Debug.Printf("verification done in %v", t2.Sub(t1))

	w, err := bam.NewWriterLevel(out, header, opts.CompressionLevel, opts.Parallelism)
	if err != nil {
		return res, errors.E(err, "create BAM writer")
	}
	p := &processor{
		blocks:      res.Blocks,
		corrector:   Corrector{MaskLength: opts.MaskLength},
		paired:      paired,
		parallelism: opts.Parallelism,
		batchSize:   opts.BatchSize,
	}
	iter = provider.NewIterator()
	res.Counters, err = p.run(iter, w)
	if e := iter.Close(); err == nil {
		err = e
	}
	if e := w.Close(); err == nil {
		err = e
	}
	if err != nil {
		return res, err
	}
	res.Counters.Candidates = int64(candidates.Len())
	res.Counters.Blocks = int64(res.Blocks.Len())
	log.Debug.Printf("classify and write done in %v", time.Since(t2))
	return res, nil
}

// processor classifies, masks and writes records a batch at a time.
type processor struct {
	blocks      *BlockSet
	corrector   Corrector
	paired      bool
	parallelism int
	batchSize   int
}

func (p *processor) run(iter bamprovider.Iterator, w *bam.Writer) (PipelineCounters, error) {
	var total PipelineCounters
	batchSize := p.batchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	batch := make([]*sam.Record, 0, batchSize)
	flush := func() error {
		c, err := p.processBatch(batch, w)
		total.Add(c)
		batch = batch[:0]
		return err
	}
	for iter.Scan() {
		batch = append(batch, iter.Record())
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return total, err
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return total, err
		}
	}
	return total, nil
}

// processBatch classifies and masks batch in parallel, then writes the kept
// records in their original order.
func (p *processor) processBatch(batch []*sam.Record, w *bam.Writer) (PipelineCounters, error) {
	var (
		total   PipelineCounters
		keep    = make([]bool, len(batch))
		nJobs   = p.parallelism
		partial []PipelineCounters
	)
	if nJobs <= 0 {
		nJobs = 1
	}
	if nJobs > len(batch) {
		nJobs = len(batch)
	}
	partial = make([]PipelineCounters, nJobs)
	err := traverse.Each(nJobs, func(jobIdx int) error {
		startIdx := (jobIdx * len(batch)) / nJobs
		endIdx := ((jobIdx + 1) * len(batch)) / nJobs
		c := &partial[jobIdx]
		for i := startIdx; i < endIdx; i++ {
			ok, err := p.process(batch[i], c)
			if err != nil {
				return err
			}
			keep[i] = ok
		}
		return nil
	})
	for _, c := range partial {
		total.Add(c)
	}
	if err != nil {
		return total, err
	}
	for i, r := range batch {
		if !keep[i] {
			continue
		}
		if err := w.Write(r); err != nil {
			return total, errors.E(err, fmt.Sprintf("write %s", r.Name))
		}
		total.OutputReads++
	}
	log.Debug.Printf("batch of %d records: %d written", len(batch), total.OutputReads)
	return total, nil
}

// process classifies r, masks it if it is MspPositive, and reports whether
// it belongs in the output.
func (p *processor) process(r *sam.Record, c *PipelineCounters) (bool, error) {
	c.TotalReads++
	if isMapped(r) {
		c.MappedReads++
	}
	switch MateRoleOf(r, p.paired) {
	case R2:
		c.R2Reads++
		return true, nil
	case Unresolved:
		c.UnresolvedReads++
		return false, nil
	}
	c.R1Reads++
	if Classify(r, p.blocks) == MspNegative {
		c.MspNegative++
		return true, nil
	}
	if p.corrector.IsMasked(r) {
		c.PreviouslyMasked++
		return true, nil
	}
	if err := p.corrector.Mask(r); err != nil {
		return false, err
	}
	c.MspPositive++
	return true, nil
}

// SetupAndRun checks that the inputs named by opts exist, loads the
// reference and chromosome sizes, runs the pipeline into opts.OutputPath and
// writes the report and, if requested, the blocks BED. The output BAM is
// committed only after the report and BED are written; if committing it
// fails, they are removed.
func SetupAndRun(ctx context.Context, opts Opts) (res Result, err error) {
	if err = opts.Validate(); err != nil {
		return res, err
	}
	for _, path := range []string{opts.BAMFile, opts.ChromSizesFile, opts.ReferenceFile} {
		if _, err = file.Stat(ctx, path); err != nil {
			return res, errors.E(errors.Precondition, err, "missing input", path)
		}
	}
	sizes, err := interval.ReadChromSizes(ctx, opts.ChromSizesFile)
	if err != nil {
		return res, errors.E(errors.Precondition, err)
	}
	ref, err := fasta.Load(ctx, opts.ReferenceFile, opts.ReferenceIndexFile)
	if err != nil {
		return res, errors.E(errors.Precondition, err)
	}
	defer func() {
		if e := ref.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	provider := &bamprovider.BAMProvider{Path: opts.BAMFile, Parallelism: opts.Parallelism}
	defer func() {
		if e := provider.Close(); e != nil && err == nil {
			err = e
		}
	}()

	out, err := file.Create(ctx, opts.OutputPath)
	if err != nil {
		return res, errors.E(err, "create", opts.OutputPath)
	}
	if res, err = Run(ctx, provider, ref, sizes, opts, out.Writer(ctx)); err != nil {
		log.Error.Printf("%s: %v", opts.BAMFile, err)
		out.Discard(ctx) // nolint: errcheck
		return res, err
	}
	var written []string
	if err = res.Counters.WriteReportFile(ctx, opts.ReportPath); err == nil {
		written = append(written, opts.ReportPath)
		if opts.BlocksPath != "" {
			if err = res.Blocks.WriteBEDFile(ctx, opts.BlocksPath); err == nil {
				written = append(written, opts.BlocksPath)
			}
		}
	}
	if err != nil {
		out.Discard(ctx) // nolint: errcheck
	} else if err = out.Close(ctx); err != nil {
		err = errors.E(err, "close", opts.OutputPath)
	}
	if err != nil {
		log.Error.Printf("%s: %v", opts.OutputPath, err)
		for _, path := range written {
			if e := file.Remove(ctx, path); e != nil {
				log.Error.Printf("remove %s: %v", path, e)
			}
		}
		return res, err
	}
	c := res.Counters
	log.Printf("%d reads, %d verified sites, %d masked, %d previously masked, %d written",
		c.TotalReads, c.Blocks, c.MspPositive, c.PreviouslyMasked, c.OutputReads)
	return res, nil
}
