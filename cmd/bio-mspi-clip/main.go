package main

/*
  bio-mspi-clip masks the MspI end-repair artifact in bisulfite-aligned RRBS
  reads. For more information, see github.com/grailbio/mspiclip/mspi/doc.go

  Example:

    bio-mspi-clip -bam sample.bam -chrom-sizes hg38.chrom.sizes \
      -genome hg38.fa -output sample.clipped.bam

  writes sample.clipped.bam and the counters to sample.clipped.log.
*/

import (
	"flag"
	"runtime"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/mspiclip/mspi"
)

var (
	bamFile          = flag.String("bam", "", "Input BAM filename. Must be coordinate-sorted")
	chromSizesFile   = flag.String("chrom-sizes", "", "Chromosome sizes file, '<name>\\t<length>' per line")
	genomeFile       = flag.String("genome", "", "Reference FASTA file")
	genomeIndexFile  = flag.String("genome-index", "", "Reference FASTA index. By default, set to the genome filename + .fai; the genome is loaded into memory if the index is absent")
	outputPath       = flag.String("output", "", "Output BAM filename")
	reportPath       = flag.String("report", "", "Output report filename. By default, set to the output filename with .bam replaced by .log")
	blocksPath       = flag.String("blocks", "", "If set, write the verified MspI sites to this BED file")
	parallelism      = flag.Int("parallelism", runtime.NumCPU(), "Number of parallel computations to run")
	batchSize        = flag.Int("batch-size", mspi.DefaultBatchSize, "Number of records classified and masked per batch")
	maskLength       = flag.Int("mask-length", mspi.DefaultMaskLength, "Number of bases masked at the enzymatic end of an MspI read")
	compressionLevel = flag.Int("compression-level", 0, "gzip level of the output BAM; 0 selects the default level")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() > 0 {
		a := flag.Args()
		log.Fatalf("unparsed flags, please check flag syntax: '%s'", strings.Join(a[len(a)-flag.NArg():], " "))
	}

	opts := mspi.Opts{
		BAMFile:            *bamFile,
		ChromSizesFile:     *chromSizesFile,
		ReferenceFile:      *genomeFile,
		ReferenceIndexFile: *genomeIndexFile,
		OutputPath:         *outputPath,
		ReportPath:         *reportPath,
		BlocksPath:         *blocksPath,
		Parallelism:        *parallelism,
		BatchSize:          *batchSize,
		MaskLength:         *maskLength,
		CompressionLevel:   *compressionLevel,
	}
	ctx := vcontext.Background()
	if _, err := mspi.SetupAndRun(ctx, opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
