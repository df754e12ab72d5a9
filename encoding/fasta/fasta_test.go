package fasta_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/mspiclip/encoding/fasta"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const (
	fastaData  = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "ACGT\n" + "ACGT\n"
	fastaIndex = "seq1\t12\t6\t5\t6\n" + "seq2\t8\t44\t4\t5\n"
)

func newFastas(t *testing.T) map[string]fasta.Fasta {
	unindexed, err := fasta.New(strings.NewReader(fastaData))
	assert.NoError(t, err)
	indexed, err := fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader(fastaIndex))
	assert.NoError(t, err)
	return map[string]fasta.Fasta{"unindexed": unindexed, "indexed": indexed}
}

func TestGet(t *testing.T) {
	tests := []struct {
		seq     string
		start   uint64
		end     uint64
		want    string
		wantErr bool
	}{
		{"seq1", 1, 2, "C", false},
		{"seq1", 1, 6, "CGTAC", false},
		{"seq1", 0, 12, "ACGTACGTACGT", false},
		{"seq1", 10, 12, "GT", false},
		{"seq2", 0, 8, "ACGTACGT", false},
		{"seq2", 2, 5, "GTA", false},
		{"seq0", 0, 1, "", true},
		{"seq1", 10, 13, "", true},
		{"seq1", 4, 3, "", true},
	}
	for name, fa := range newFastas(t) {
		for _, tt := range tests {
			got, err := fa.Get(tt.seq, tt.start, tt.end)
			expect.EQ(t, err != nil, tt.wantErr, "%s: %+v: err %v", name, tt, err)
			expect.EQ(t, got, tt.want, "%s: %+v", name, tt)
		}
	}
}

func TestLength(t *testing.T) {
	for name, fa := range newFastas(t) {
		n, err := fa.Len("seq1")
		expect.NoError(t, err)
		expect.EQ(t, n, uint64(12), name)
		n, err = fa.Len("seq2")
		expect.NoError(t, err)
		expect.EQ(t, n, uint64(8), name)
		_, err = fa.Len("seq0")
		expect.NotNil(t, err, name)
	}
}

func TestSeqNames(t *testing.T) {
	for name, fa := range newFastas(t) {
		expect.EQ(t, fa.SeqNames(), []string{"seq1", "seq2"}, name)
	}
}

func TestMalformed(t *testing.T) {
	_, err := fasta.New(strings.NewReader("ACGT\n>seq1\nACGT\n"))
	expect.NotNil(t, err)
	_, err = fasta.New(strings.NewReader(""))
	expect.NotNil(t, err)
	_, err = fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader("seq1\tx\n"))
	expect.NotNil(t, err)
}

func TestGenerateIndex(t *testing.T) {
	generateIndex := func(fa string) (faidx string) {
		idx := bytes.Buffer{}
		assert.NoError(t, fasta.GenerateIndex(&idx, strings.NewReader(fa)))
		return idx.String()
	}

	fa := `>E0
GGTGAAATC
CCTGAAATC
AAAATTGCT
>E1
GTCCCTCCCCAGACATGGCCCTGGGAGGC
>E2
CCGCGCCCGCGCCCCCGCCGCC
`
	fai := generateIndex(fa)
	assert.EQ(t, fai, `E0	27	4	9	10
E1	29	38	29	30
E2	22	72	22	23
`)
	indexed, err := fasta.NewIndexed(strings.NewReader(fa), strings.NewReader(fai))
	assert.NoError(t, err)
	seq, err := indexed.Get("E0", 7, 12)
	assert.NoError(t, err)
	assert.EQ(t, seq, "TCCCT")

	// MS-DOS newlines.
	assert.EQ(t, generateIndex(">E0\r\nGGGG\r\n>E1\r\nAAAAA\r\n"),
		`E0	4	5	4	6
E1	5	16	5	7
`)
	// No newline at the end.
	assert.EQ(t, generateIndex(">E0\nGGGG\n>E1\nAAAAA"),
		`E0	4	4	4	5
E1	5	13	5	5
`)

	idx := bytes.Buffer{}
	assert.Regexp(t, fasta.GenerateIndex(&idx, strings.NewReader("")), "empty FASTA")
}

func TestReverseComplement(t *testing.T) {
	expect.EQ(t, fasta.ReverseComplement("CCGG"), "CCGG")
	expect.EQ(t, fasta.ReverseComplement("AACGTn"), "nACGTT")
	expect.EQ(t, fasta.ReverseComplement("acgRY"), "RYcgt")
	expect.EQ(t, fasta.ReverseComplement("A-C"), "GNT")
	expect.EQ(t, fasta.ReverseComplement(""), "")
}

func TestGetStranded(t *testing.T) {
	for name, fa := range newFastas(t) {
		fwd, err := fasta.GetStranded(fa, "seq1", 0, 4, false)
		assert.NoError(t, err)
		expect.EQ(t, fwd, "ACGT", name)
		rev, err := fasta.GetStranded(fa, "seq1", 3, 7, true)
		assert.NoError(t, err)
		expect.EQ(t, rev, "CGTA", name)
		_, err = fasta.GetStranded(fa, "seq1", 10, 14, true)
		expect.Regexp(t, err, "seq1:10-14")
	}
}

func TestLoad(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	// Indexed.
	faPath := filepath.Join(dir, "ref.fa")
	assert.NoError(t, ioutil.WriteFile(faPath, []byte(fastaData), 0644))
	assert.NoError(t, ioutil.WriteFile(faPath+".fai", []byte(fastaIndex), 0644))
	ref, err := fasta.Load(ctx, faPath, "")
	assert.NoError(t, err)
	seq, err := ref.Get("seq2", 2, 6)
	assert.NoError(t, err)
	expect.EQ(t, seq, "GTAC")
	assert.NoError(t, ref.Close(ctx))

	// Unindexed: the index is generated on load.
	plainPath := filepath.Join(dir, "plain.fa")
	assert.NoError(t, ioutil.WriteFile(plainPath, []byte(fastaData), 0644))
	ref, err = fasta.Load(ctx, plainPath, "")
	assert.NoError(t, err)
	expect.EQ(t, ref.SeqNames(), []string{"seq1", "seq2"})
	n, err := ref.Len("seq1")
	assert.NoError(t, err)
	expect.EQ(t, n, uint64(12))
	seq, err = ref.Get("seq1", 3, 8)
	assert.NoError(t, err)
	expect.EQ(t, seq, "TACGT")
	assert.NoError(t, ref.Close(ctx))

	// Unindexed, gzip compressed.
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err = w.Write([]byte(fastaData))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	gzPath := filepath.Join(dir, "ref.fa.gz")
	assert.NoError(t, ioutil.WriteFile(gzPath, gz.Bytes(), 0644))
	ref, err = fasta.Load(ctx, gzPath, "")
	assert.NoError(t, err)
	seq, err = ref.Get("seq1", 4, 7)
	assert.NoError(t, err)
	expect.EQ(t, seq, "ACG")
	assert.NoError(t, ref.Close(ctx))

	_, err = fasta.Load(ctx, filepath.Join(dir, "missing.fa"), "")
	expect.NotNil(t, err)
}
