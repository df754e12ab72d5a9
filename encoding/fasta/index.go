package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// indexBuilder accumulates the faidx entry of the sequence being scanned.
type indexBuilder struct {
	out       *tsv.Writer
	name      string
	offset    int64
	bases     int
	lineBases int
	lineWidth int
}

func (b *indexBuilder) flush() error {
	b.out.WriteString(b.name)
	b.out.WriteInt64(int64(b.bases))
	b.out.WriteInt64(b.offset)
	b.out.WriteInt64(int64(b.lineBases))
	b.out.WriteInt64(int64(b.lineWidth))
	return b.out.EndLine()
}

// GenerateIndex generates an index (*.fai) from FASTA.  The index can be later
// passed to NewIndexed() to random-access the FASTA file quickly.
//
// The index format is defined by "samtool faidx"
// (http://www.htslib.org/doc/faidx.html).
func GenerateIndex(out io.Writer, in io.Reader) error {
	var (
		b       = indexBuilder{out: tsv.NewWriter(out)}
		r       = bufio.NewReader(in)
		cumByte int64
		started bool
	)
	for {
		fullLine, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF
		cumByte += int64(len(fullLine))
		line := bytes.TrimRight(fullLine, "\r\n")
		switch {
		case len(line) == 0:
		case line[0] == '>':
			if started {
				if err := b.flush(); err != nil {
					return err
				}
			}
			started = true
			b.name = strings.Split(string(line[1:]), " ")[0]
			b.offset = cumByte
			b.bases, b.lineBases, b.lineWidth = 0, 0, 0
		default:
			if !started {
				return errors.E(errors.Invalid, "malformed FASTA file: sequence data before the first header")
			}
			if b.lineWidth == 0 {
				b.lineWidth = len(fullLine)
				b.lineBases = len(line)
			}
			b.bases += len(line)
		}
		if eof {
			break
		}
	}
	if cumByte == 0 {
		return errors.E(errors.Invalid, "empty FASTA file")
	}
	if started {
		if err := b.flush(); err != nil {
			return err
		}
	}
	return b.out.Flush()
}
