package mspi

import "github.com/grailbio/hts/sam"

// Label is the classification of an R1 record.
type Label int

const (
	// MspNegative reads do not end at a verified cut site, or are unmapped.
	MspNegative Label = iota
	// MspPositive reads end at a verified cut site and get masked.
	MspPositive
)

func (l Label) String() string {
	if l == MspPositive {
		return "MspPositive"
	}
	return "MspNegative"
}

// Classify labels r by whether its candidate site is exactly a block.
func Classify(r *sam.Record, blocks *BlockSet) Label {
	if site, ok := CandidateSite(r); ok && blocks.Contains(site) {
		return MspPositive
	}
	return MspNegative
}
