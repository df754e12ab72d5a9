package mspi_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/mspiclip/mspi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAdd(t *testing.T) {
	a := mspi.PipelineCounters{TotalReads: 3, MappedReads: 2, R1Reads: 3, MspPositive: 1, MspNegative: 2, OutputReads: 3}
	b := mspi.PipelineCounters{TotalReads: 2, MappedReads: 2, R1Reads: 1, R2Reads: 1, MspNegative: 1, PreviouslyMasked: 1, OutputReads: 2}
	var ab, ba mspi.PipelineCounters
	ab.Add(a)
	ab.Add(b)
	ba.Add(b)
	ba.Add(a)
	assert.Equal(t, ab, ba)
	assert.Equal(t, int64(5), ab.TotalReads)
	assert.Equal(t, int64(2), ab.MspReads())
}

func TestWriteReport(t *testing.T) {
	c := mspi.PipelineCounters{
		TotalReads:  10,
		MappedReads: 9,
		R1Reads:     10,
		Candidates:  6,
		Blocks:      4,
		MspPositive: 5,
		MspNegative: 5,
		OutputReads: 10,
	}
	var buf bytes.Buffer
	require.NoError(t, c.WriteReport(&buf))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Number of unique MspI reads:", "4",
		"Number of MspI reads:", "5",
		"Number of all reads:", "9",
		"total_reads\t10",
		"mapped_reads\t9",
		"r1_reads\t10",
		"r2_reads\t0",
		"unresolved_reads\t0",
		"candidate_sites\t6",
		"blocks\t4",
		"msp_positive\t5",
		"msp_negative\t5",
		"previously_masked\t0",
		"output_reads\t10",
	}, lines)
}
