package bamprovider

import (
	"github.com/grailbio/hts/sam"
)

// fakeProvider is only for unittests. It yields the given records.
type fakeProvider struct {
	header *sam.Header
	recs   []*sam.Record
	err    error
}

type fakeIterator struct {
	recs []*sam.Record
	rec  *sam.Record
}

// NewFakeProvider creates a provider that returns "header" in response to a
// GetHeader() call, and recs, in order, from every iterator.
func NewFakeProvider(header *sam.Header, recs []*sam.Record) Provider {
	return &fakeProvider{header: header, recs: recs}
}

// NewFailingProvider creates a provider whose GetHeader and iterators fail
// with err.
func NewFailingProvider(err error) Provider {
	return &fakeProvider{err: err}
}

// GetHeader implements the Provider interface. It returns the header passed to
// the constructor.
func (b *fakeProvider) GetHeader() (*sam.Header, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.header, nil
}

// Close implements the Provider interface.
func (b *fakeProvider) Close() error {
	return nil
}

// NewIterator implements the Provider interface.
func (b *fakeProvider) NewIterator() Iterator {
	if b.err != nil {
		return &failingIterator{err: b.err}
	}
	return &fakeIterator{recs: b.recs}
}

// Err implements the Iterator interface.
func (i *fakeIterator) Err() error {
	return nil
}

// Close implements the Iterator interface.
func (i *fakeIterator) Close() error {
	return nil
}

// Scan implements the Iterator interface.
func (i *fakeIterator) Scan() bool {
	if len(i.recs) == 0 {
		return false
	}
	i.rec = i.recs[0]
	i.recs = i.recs[1:]
	return true
}

// Record implements the Iterator interface.
func (i *fakeIterator) Record() *sam.Record {
	// Return a copy so that the code under test cannot alter the
	// original test input data.
	c := sam.GetFromFreePool()
	*c = *i.rec
	c.Cigar = append(sam.Cigar(nil), i.rec.Cigar...)
	c.Seq.Seq = append([]sam.Doublet(nil), i.rec.Seq.Seq...)
	c.Qual = append([]byte(nil), i.rec.Qual...)
	c.AuxFields = make(sam.AuxFields, len(i.rec.AuxFields))
	for j, aux := range i.rec.AuxFields {
		c.AuxFields[j] = append(sam.Aux(nil), aux...)
	}
	return c
}

// failingIterator yields no record and reports err.
type failingIterator struct{ err error }

func (i *failingIterator) Scan() bool          { return false }
func (i *failingIterator) Record() *sam.Record { return nil }
func (i *failingIterator) Err() error          { return i.err }
func (i *failingIterator) Close() error        { return i.err }
