package fasta

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// minReadSize is the smallest chunk pulled from the FASTA file per seek.
// Candidate-site lookups are short and clustered, so one chunk usually serves
// many consecutive Get calls.
const minReadSize = 8192

type indexEntry struct {
	name      string
	length    uint64
	offset    uint64
	lineBase  uint64
	lineWidth uint64
}

type indexedFasta struct {
	seqs      map[string]indexEntry
	seqNames  []string // returned by SeqNames()
	reader    io.ReadSeeker
	bufOff    int64
	buf       []byte // caches file contents starting at bufOff.
	resultBuf []byte // temp for concatenating multi-line sequences.
	mutex     sync.Mutex
}

func parseIndex(index io.Reader) ([]indexEntry, error) {
	var entries []indexEntry
	scanner := bufio.NewScanner(index)
	lineno := 0
	for scanner.Scan() {
		lineno++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		matches := indexRegExp.FindStringSubmatch(scanner.Text())
		if len(matches) != 6 {
			return nil, errors.Errorf("invalid index line %d: %s", lineno, scanner.Text())
		}
		ent := indexEntry{name: matches[1]}
		fields := []*uint64{&ent.length, &ent.offset, &ent.lineBase, &ent.lineWidth}
		for i, dst := range fields {
			v, err := strconv.ParseUint(matches[i+2], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid index line %d", lineno)
			}
			*dst = v
		}
		if ent.lineBase == 0 || ent.lineWidth < ent.lineBase {
			return nil, errors.Errorf("invalid line geometry on index line %d: %s", lineno, scanner.Text())
		}
		entries = append(entries, ent)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "couldn't read FASTA index")
	}
	return entries, nil
}

// NewIndexed creates a new Fasta that can perform efficient random lookups
// using the provided index, without reading the data into memory.
func NewIndexed(fasta io.ReadSeeker, index io.Reader) (Fasta, error) {
	entries, err := parseIndex(index)
	if err != nil {
		return nil, err
	}
	f := &indexedFasta{seqs: make(map[string]indexEntry, len(entries)), reader: fasta}
	for _, ent := range entries {
		f.seqs[ent.name] = ent
		f.seqNames = append(f.seqNames, ent.name)
	}
	sort.SliceStable(f.seqNames, func(i, j int) bool {
		return f.seqs[f.seqNames[i]].offset < f.seqs[f.seqNames[j]].offset
	})
	return f, nil
}

// Len implements Fasta.Len().
func (f *indexedFasta) Len(seqName string) (uint64, error) {
	ent, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found in index: %s", seqName)
	}
	return ent.length, nil
}

// read returns range [off, off+n) of the underlying fasta file.
func (f *indexedFasta) read(off int64, n int) ([]byte, error) {
	limit := off + int64(n)
	if off >= f.bufOff && limit <= f.bufOff+int64(len(f.buf)) {
		return f.buf[off-f.bufOff : limit-f.bufOff], nil
	}
	if newOffset, err := f.reader.Seek(off, io.SeekStart); err != nil || newOffset != off {
		return nil, errors.Errorf("failed to seek to offset %d: %d, %v", off, newOffset, err)
	}
	size := minReadSize
	if size < n {
		size = n
	}
	resizeBuf(&f.buf, size)
	bytesRead, err := io.ReadFull(f.reader, f.buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	f.bufOff = off
	f.buf = f.buf[:bytesRead]
	if bytesRead < n {
		f.buf = f.buf[:0]
		return nil, errors.Errorf("encountered unexpected end of file (bad index? file doesn't end in newline?)")
	}
	return f.buf[:n], nil
}

func resizeBuf(buf *[]byte, n int) {
	if cap(*buf) < n {
		*buf = make([]byte, n)
	} else {
		*buf = (*buf)[0:n]
	}
}

// Get implements Fasta.Get().
func (f *indexedFasta) Get(seqName string, start uint64, end uint64) (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if end <= start {
		return "", errors.Errorf("start must be less than end")
	}
	ent, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found in index: %s", seqName)
	}
	if end > ent.length {
		return "", errors.Errorf("end is past end of sequence %s: %d", seqName, ent.length)
	}

	// Start the read at a byte offset allowing for the presence of newline
	// characters.
	charsPerNewline := ent.lineWidth - ent.lineBase
	offset := ent.offset + start + charsPerNewline*(start/ent.lineBase)

	// Number of bytes to read, newlines included.
	firstLineBases := ent.lineBase - (start % ent.lineBase)
	newlinesToRead := uint64(0)
	if end-start > firstLineBases {
		newlinesToRead = 1 + (end-start-firstLineBases)/ent.lineBase
	}
	capacity := end - start + newlinesToRead*charsPerNewline

	buffer, err := f.read(int64(offset), int(capacity))
	if err != nil {
		return "", err
	}

	// Copy the non-newline characters to the result.
	resizeBuf(&f.resultBuf, int(end-start))
	linePos := (offset - ent.offset) % ent.lineWidth
	resultPos := 0
	for i := range buffer {
		if linePos < ent.lineBase && resultPos < len(f.resultBuf) {
			f.resultBuf[resultPos] = buffer[i]
			resultPos++
		}
		linePos++
		if linePos == ent.lineWidth {
			linePos = 0
		}
	}
	return string(f.resultBuf), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *indexedFasta) SeqNames() []string {
	return f.seqNames
}
