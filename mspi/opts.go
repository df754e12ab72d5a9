package mspi

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/klauspost/compress/gzip"
)

const (
	// DefaultMaskLength is the number of bases masked at the enzymatic end
	// of an MspPositive read.
	DefaultMaskLength = 3
	// DefaultBatchSize is the number of records classified and masked
	// together before being written.
	DefaultBatchSize = 100000
)

// Opts configures a run. Paths are resolved through grailbio/base/file.
type Opts struct {
	// BAMFile is the coordinate-sorted input BAM.
	BAMFile string
	// ChromSizesFile is a "<name>\t<length>" table of the reference.
	ChromSizesFile string
	// ReferenceFile is the reference FASTA.
	ReferenceFile string
	// ReferenceIndexFile is the faidx index of ReferenceFile. Defaults to
	// ReferenceFile + ".fai"; if that does not exist the FASTA is loaded
	// into memory.
	ReferenceIndexFile string
	// OutputPath is the output BAM. It must end in ".bam".
	OutputPath string
	// ReportPath receives the counters. Defaults to OutputPath with ".bam"
	// replaced by ".log".
	ReportPath string
	// BlocksPath, if set, receives the verified cut sites as BED.
	BlocksPath string

	// Parallelism bounds the number of goroutines used for verification and
	// classification. Defaults to runtime.NumCPU().
	Parallelism int
	// BatchSize is the number of records per classify/mask/write batch.
	BatchSize int
	// MaskLength is the number of bases masked per MspPositive read.
	MaskLength int
	// CompressionLevel is the gzip level of the output BAM. Zero selects
	// gzip.DefaultCompression.
	CompressionLevel int
}

// Validate checks the options that do not require touching the filesystem
// and fills in defaults. Errors are of kind Precondition.
func (o *Opts) Validate() error {
	if o.BAMFile == "" {
		return errors.E(errors.Precondition, "you must specify an input bam file")
	}
	if o.ChromSizesFile == "" {
		return errors.E(errors.Precondition, "you must specify a chromosome sizes file")
	}
	if o.ReferenceFile == "" {
		return errors.E(errors.Precondition, "you must specify a genome file")
	}
	if o.OutputPath == "" {
		return errors.E(errors.Precondition, "you must specify an output bam file")
	}
	if !strings.HasSuffix(o.BAMFile, ".bam") {
		return errors.E(errors.Precondition, fmt.Sprintf("input file is not BAM: %s", o.BAMFile))
	}
	if !strings.HasSuffix(o.OutputPath, ".bam") {
		return errors.E(errors.Precondition, fmt.Sprintf("output file is not BAM: %s", o.OutputPath))
	}
	if o.OutputPath == o.BAMFile {
		return errors.E(errors.Precondition, "output file must differ from the input file")
	}
	if o.ReferenceIndexFile == "" {
		o.ReferenceIndexFile = o.ReferenceFile + ".fai"
	}
	if o.ReportPath == "" {
		o.ReportPath = strings.TrimSuffix(o.OutputPath, ".bam") + ".log"
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.NumCPU()
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.MaskLength == 0 {
		o.MaskLength = DefaultMaskLength
	}
	if o.MaskLength < 0 {
		return errors.E(errors.Precondition, fmt.Sprintf("mask length must be positive, got %d", o.MaskLength))
	}
	if o.CompressionLevel == 0 {
		o.CompressionLevel = gzip.DefaultCompression
	}
	if o.CompressionLevel < gzip.HuffmanOnly || o.CompressionLevel > gzip.BestCompression {
		return errors.E(errors.Precondition, fmt.Sprintf("invalid compression level %d", o.CompressionLevel))
	}
	return nil
}
