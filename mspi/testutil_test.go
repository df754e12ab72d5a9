package mspi_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/mspiclip/encoding/fasta"
	"github.com/grailbio/mspiclip/interval"
	"github.com/stretchr/testify/require"
)

// chr1 carries an MspI site (CCGG) at [4,8). chrE ends in one. chr2 is in
// the size table but not in the genome; chr3 is in neither.
const (
	chr1Seq = "AAAACCGGAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	chrESeq = "AAAAAAAACCGG"
)

var (
	chr1, _   = sam.NewReference("chr1", "", "", len(chr1Seq), nil, nil)
	chr2, _   = sam.NewReference("chr2", "", "", 40, nil, nil)
	chr3, _   = sam.NewReference("chr3", "", "", 40, nil, nil)
	chrE, _   = sam.NewReference("chrE", "", "", len(chrESeq), nil, nil)
	header, _ = sam.NewHeader(nil, []*sam.Reference{chr1, chr2, chr3, chrE})
	sizes     = interval.ChromSizes{
		"chr1": interval.PosType(len(chr1Seq)),
		"chr2": 40,
		"chrE": interval.PosType(len(chrESeq)),
	}
)

func newReference(t *testing.T) fasta.Fasta {
	fa, err := fasta.New(strings.NewReader(">chr1\n" + chr1Seq + "\n>chrE\n" + chrESeq + "\n"))
	require.NoError(t, err)
	return fa
}

func mustAux(t *testing.T, tag string, v interface{}) sam.Aux {
	aux, err := sam.NewAux(sam.NewTag(tag), v)
	require.NoError(t, err)
	return aux
}

// newRead returns a fully matched read of seq at pos, with Bismark-style
// NM, MD, XM, XR and XG fields. A nil ref makes an unmapped read.
func newRead(t *testing.T, name string, ref *sam.Reference, pos int, flags sam.Flags, seq string) *sam.Record {
	r := &sam.Record{
		Name:    name,
		Ref:     ref,
		Pos:     pos,
		MatePos: -1,
		Flags:   flags,
		Seq:     sam.NewSeq([]byte(seq)),
		Qual:    bytes.Repeat([]byte{30}, len(seq)),
		AuxFields: sam.AuxFields{
			mustAux(t, "NM", 0),
			mustAux(t, "MD", "8"),
			mustAux(t, "XM", strings.Repeat("z", len(seq))),
			mustAux(t, "XR", "CT"),
			mustAux(t, "XG", "CT"),
		},
	}
	if ref == nil {
		r.Pos = -1
		r.Flags |= sam.Unmapped
	} else {
		r.Cigar = sam.Cigar{sam.NewCigarOp(sam.CigarMatch, len(seq))}
	}
	return r
}

func xmOf(r *sam.Record) string {
	aux := r.AuxFields.Get(sam.NewTag("XM"))
	if aux == nil {
		return ""
	}
	return aux.Value().(string)
}

func auxTags(r *sam.Record) []string {
	var tags []string
	for _, aux := range r.AuxFields {
		tags = append(tags, aux.Tag().String())
	}
	return tags
}

// readBAM parses BAM data written by Run.
func readBAM(t *testing.T, data []byte) (*sam.Header, []*sam.Record) {
	r, err := bam.NewReader(bytes.NewReader(data), 1)
	require.NoError(t, err)
	var recs []*sam.Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	require.NoError(t, r.Close())
	return r.Header(), recs
}
