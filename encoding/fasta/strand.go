package fasta

import "github.com/pkg/errors"

var complementTable = func() (t [256]byte) {
	for i := range t {
		t[i] = 'N'
	}
	for _, p := range []string{"AT", "CG", "GC", "TA", "NN", "RY", "YR", "KM", "MK", "SS", "WW", "BV", "VB", "DH", "HD"} {
		t[p[0]] = p[1]
		t[p[0]+'a'-'A'] = p[1] + 'a' - 'A'
	}
	return
}()

// ReverseComplement returns the reverse complement of seq. Case is preserved;
// IUPAC ambiguity codes are complemented and any other byte becomes 'N'.
func ReverseComplement(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = complementTable[seq[i]]
	}
	return string(out)
}

// GetStranded returns the bases of [start, end) on seqName as read on the
// given strand: the forward sequence, or its reverse complement when reverse
// is set (bedtools getfasta -s).
func GetStranded(fa Fasta, seqName string, start, end uint64, reverse bool) (string, error) {
	seq, err := fa.Get(seqName, start, end)
	if err != nil {
		return "", errors.Wrapf(err, "fetch %s:%d-%d", seqName, start, end)
	}
	if reverse {
		return ReverseComplement(seq), nil
	}
	return seq, nil
}
