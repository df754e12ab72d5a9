package fasta

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// Reference is a Fasta backed by an open file. Close must be called once the
// reference is no longer needed.
type Reference struct {
	Fasta
	in file.File
}

// Close releases the underlying file, if any.
func (r *Reference) Close(ctx context.Context) error {
	if r.in == nil {
		return nil
	}
	err := r.in.Close(ctx)
	r.in = nil
	return err
}

// Load opens the FASTA file at path. Lookups are served from disk through
// the faidx index at indexPath (default path + ".fai"); if that does not
// exist, the index is generated in memory with one scan of the file. Files
// ending in ".gz" cannot be seeked and are read into memory instead.
func Load(ctx context.Context, path, indexPath string) (*Reference, error) {
	if indexPath == "" {
		indexPath = path + ".fai"
	}
	if !strings.HasSuffix(path, ".gz") {
		if idx, err := file.Open(ctx, indexPath); err == nil {
			return loadIndexed(ctx, path, indexPath, idx)
		}
		log.Debug.Printf("%s: no index at %s, generating one", path, indexPath)
		return loadGenerated(ctx, path)
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open reference", path)
	}
	defer in.Close(ctx) // nolint: errcheck
	var r io.Reader = bufio.NewReaderSize(in.Reader(ctx), 1<<20)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.E(err, "open gzip reference", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	fa, err := New(r)
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "parse reference", path)
	}
	return &Reference{Fasta: fa}, nil
}

func loadIndexed(ctx context.Context, path, indexPath string, idx file.File) (*Reference, error) {
	var buf bytes.Buffer
	_, err := io.Copy(&buf, idx.Reader(ctx))
	if e := idx.Close(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, errors.E(err, "read reference index", indexPath)
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open reference", path)
	}
	fa, err := NewIndexed(in.Reader(ctx), &buf)
	if err != nil {
		in.Close(ctx) // nolint: errcheck
		return nil, errors.E(errors.Invalid, err, "parse reference index", indexPath)
	}
	log.Debug.Printf("%s: using index %s (%d sequences)", path, indexPath, len(fa.SeqNames()))
	return &Reference{Fasta: fa, in: in}, nil
}

func loadGenerated(ctx context.Context, path string) (*Reference, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open reference", path)
	}
	var idx bytes.Buffer
	if err = GenerateIndex(&idx, in.Reader(ctx)); err != nil {
		in.Close(ctx) // nolint: errcheck
		return nil, errors.E(errors.Invalid, err, "index reference", path)
	}
	fa, err := NewIndexed(in.Reader(ctx), &idx)
	if err != nil {
		in.Close(ctx) // nolint: errcheck
		return nil, errors.E(errors.Invalid, err, "index reference", path)
	}
	return &Reference{Fasta: fa, in: in}, nil
}
