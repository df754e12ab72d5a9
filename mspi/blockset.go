package mspi

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/mspiclip/interval"
)

// BlockSet holds the verified MspI cut sites. A read is MspPositive when its
// candidate site is, base for base and strand for strand, one of the blocks.
// A BlockSet is immutable and safe for concurrent use.
type BlockSet struct {
	set *interval.Set
}

// NewBlockSet returns a BlockSet of the given sites.
func NewBlockSet(sites ...interval.Interval) *BlockSet {
	return &BlockSet{set: interval.NewSet(sites...)}
}

// Contains reports whether site is exactly one of the blocks.
func (b *BlockSet) Contains(site interval.Interval) bool {
	return b.set.Contains(site)
}

// Len returns the number of distinct blocks.
func (b *BlockSet) Len() int { return b.set.Len() }

// Intervals returns the blocks in (reference, start, end, strand) order.
func (b *BlockSet) Intervals() []interval.Interval { return b.set.Slice() }

// WriteBED writes the blocks as six-column BED.
func (b *BlockSet) WriteBED(w io.Writer) error {
	return interval.WriteSetBED(w, b.set)
}

// WriteBEDFile writes the blocks to path.
func (b *BlockSet) WriteBEDFile(ctx context.Context, path string) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	if err = b.WriteBED(out.Writer(ctx)); err != nil {
		out.Discard(ctx) // nolint: errcheck
		return errors.E(err, "write", path)
	}
	return out.Close(ctx)
}

// Do calls fn on each block in order until fn returns true.
func (b *BlockSet) Do(fn func(interval.Interval) (done bool)) { b.set.Do(fn) }
