package bamprovider_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/mspiclip/encoding/bamprovider"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chr1, _ = sam.NewReference("chr1", "", "", 1000, nil, nil)
	chr2, _ = sam.NewReference("chr2", "", "", 2000, nil, nil)
	header, _ = sam.NewHeader(nil, []*sam.Reference{chr1, chr2})
	cigar     = []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 4)}
)

func newRecord(name string, ref *sam.Reference, pos int) *sam.Record {
	r := sam.GetFromFreePool()
	r.Name = name
	r.Ref = ref
	r.Pos = pos
	r.MateRef = nil
	r.MatePos = -1
	r.Cigar = cigar
	r.Seq = sam.NewSeq([]byte("ACGT"))
	r.Qual = []byte{30, 30, 30, 30}
	return r
}

func writeBAM(t *testing.T, path string, header *sam.Header, recs []*sam.Record) {
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := bam.NewWriter(f, header, 1)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func readNames(t *testing.T, p bamprovider.Provider) []string {
	var names []string
	iter := p.NewIterator()
	for iter.Scan() {
		names = append(names, iter.Record().Name)
	}
	require.NoError(t, iter.Err())
	require.NoError(t, iter.Close())
	return names
}

func TestBAMProvider(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "in.bam")
	writeBAM(t, path, header, []*sam.Record{
		newRecord("a", chr1, 10),
		newRecord("b", chr1, 20),
		newRecord("c", chr2, 5),
	})

	p := bamprovider.NewProvider(path)
	h, err := p.GetHeader()
	require.NoError(t, err)
	assert.Equal(t, 2, len(h.Refs()))
	// Every iterator is a full, independent pass.
	for i := 0; i < 2; i++ {
		assert.Equal(t, []string{"a", "b", "c"}, readNames(t, p))
	}
	require.NoError(t, p.Close())
}

func TestBAMProviderNotBAM(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "in.bam")
	require.NoError(t, ioutil.WriteFile(path, []byte("@HD\tVN:1.4\n"), 0644))
	p := bamprovider.NewProvider(path)
	_, err := p.GetHeader()
	assert.Error(t, err)
	assert.Error(t, p.Close())

	p = bamprovider.NewProvider(filepath.Join(dir, "missing.bam"))
	iter := p.NewIterator()
	assert.False(t, iter.Scan())
	assert.Error(t, iter.Close())
}

func TestFakeProviderCopies(t *testing.T) {
	orig := newRecord("a", chr1, 10)
	p := bamprovider.NewFakeProvider(header, []*sam.Record{orig})
	iter := p.NewIterator()
	require.True(t, iter.Scan())
	r := iter.Record()
	r.Qual[0] = 0
	r.Name = "changed"
	assert.Equal(t, byte(30), orig.Qual[0])
	assert.Equal(t, "a", orig.Name)
	assert.False(t, iter.Scan())
	require.NoError(t, iter.Close())
}

func TestCheckSortOrder(t *testing.T) {
	h, err := sam.NewHeader(nil, nil)
	require.NoError(t, err)
	assert.NoError(t, bamprovider.CheckSortOrder(h))
	h.SortOrder = sam.Coordinate
	assert.NoError(t, bamprovider.CheckSortOrder(h))
	h.SortOrder = sam.QueryName
	err = bamprovider.CheckSortOrder(h)
	assert.True(t, errors.Is(errors.Precondition, err), "%v", err)
}

func TestSortChecker(t *testing.T) {
	check := func(recs ...*sam.Record) error {
		var c bamprovider.SortChecker
		for _, r := range recs {
			if err := c.Check(r); err != nil {
				return err
			}
		}
		return nil
	}
	assert.NoError(t, check(
		newRecord("a", chr1, 10),
		newRecord("b", chr1, 10),
		newRecord("c", chr2, 0),
		newRecord("u1", nil, -1),
		newRecord("u2", nil, -1)))
	assert.NoError(t, check())

	err := check(newRecord("a", chr1, 10), newRecord("b", chr1, 9))
	assert.True(t, errors.Is(errors.Precondition, err), "%v", err)
	err = check(newRecord("a", chr2, 10), newRecord("b", chr1, 90))
	assert.True(t, errors.Is(errors.Precondition, err), "%v", err)
	err = check(newRecord("u", nil, -1), newRecord("b", chr1, 90))
	assert.True(t, errors.Is(errors.Precondition, err), "%v", err)
}
