package tpsreport

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummarizeExample tests the three-block eth example end to end through
// the parser.
func TestSummarizeExample(t *testing.T) {
	set, err := ParseBytes([]byte("1 10 0 20 20\n2 12 0 25 25\n3 9 0 22 22\n"))
	require.NoError(t, err)

	s, err := Summarize(set)
	require.NoError(t, err)

	assert.Equal(t, BenchmarkSummary{
		TotalConfirmedTx:      67,
		MaxLatency:            12,
		MaxObservedTPS:        25,
		MaxConfirmedTxInBlock: 25,
		MinBlockHeight:        1,
		ChartCeiling:          75,
	}, s)
}

// TestSummarizeCeilingUsesLargerColumn tests that the ceiling follows
// whichever of TPS and confirmed count is larger.
func TestSummarizeCeilingUsesLargerColumn(t *testing.T) {
	set, err := NewSampleSet([]SampleRecord{
		{BlockHeight: 10, ConfirmedTxCount: 300, ObservedTPS: 150},
		{BlockHeight: 11, ConfirmedTxCount: 100, ObservedTPS: 200},
	})
	require.NoError(t, err)

	s, err := Summarize(set)
	require.NoError(t, err)
	assert.Equal(t, int64(350), s.ChartCeiling)
	assert.Equal(t, int64(200), s.MaxObservedTPS)
	assert.Equal(t, int64(300), s.MaxConfirmedTxInBlock)
}

// TestSummarizeUnorderedHeights tests that MinBlockHeight does not assume
// ascending input.
func TestSummarizeUnorderedHeights(t *testing.T) {
	set, err := ParseBytes([]byte("105 1 0 1 1\n101 1 0 1 1\n103 1 0 1 1"))
	require.NoError(t, err)

	s, err := Summarize(set)
	require.NoError(t, err)
	assert.Equal(t, int64(101), s.MinBlockHeight)
	assert.Equal(t, int64(105), set.MaxBlockHeight())
}

// TestSummarizeOverflow tests that totals and ceilings beyond int64 are
// rejected instead of wrapping around.
func TestSummarizeOverflow(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "Ceiling",
			input:   "1 1 0 9223372036854775807 9223372036854775807",
			wantMsg: "chart ceiling",
		},
		{
			name:    "CeilingFromTPS",
			input:   "1 1 0 0 9223372036854775800",
			wantMsg: "chart ceiling",
		},
		{
			name:    "TotalConfirmed",
			input:   "1 0 0 4611686018427387904 0\n2 0 0 4611686018427387904 0",
			wantMsg: "total confirmed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseBytes([]byte(tt.input))
			require.NoError(t, err)

			_, err = Summarize(set)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedSample)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

// TestSummarizeLargestCeiling tests the largest values that still fit.
func TestSummarizeLargestCeiling(t *testing.T) {
	set, err := ParseBytes([]byte("1 1 0 9223372036854775757 0"))
	require.NoError(t, err)

	s, err := Summarize(set)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), s.ChartCeiling)
	assert.Equal(t, int64(9223372036854775757), s.TotalConfirmedTx)
}

// TestSummarizeZeroValue tests that the zero SampleSet is rejected.
func TestSummarizeZeroValue(t *testing.T) {
	_, err := Summarize(SampleSet{})
	assert.ErrorIs(t, err, ErrEmptySampleSet)
}

// TestSummarizeRandomMatrices checks parse followed by summarize against a
// direct computation over random non-negative matrices.
func TestSummarizeRandomMatrices(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		rows := 1 + rng.Intn(60)

		var (
			b        strings.Builder
			wantTPS  int64 = -1
			wantConf int64 = -1
			wantLat  int64 = -1
			wantSum  int64
			wantMinH int64 = -1
		)
		for i := 0; i < rows; i++ {
			var cols [SampleColumns]int64
			for c := range cols {
				cols[c] = rng.Int63n(1_000_000)
			}
			fmt.Fprintf(&b, "%d %d %d %d %d\n", cols[0], cols[1], cols[2], cols[3], cols[4])

			wantSum += cols[3]
			wantTPS = max(wantTPS, cols[4])
			wantConf = max(wantConf, cols[3])
			wantLat = max(wantLat, cols[1])
			if wantMinH < 0 || cols[0] < wantMinH {
				wantMinH = cols[0]
			}
		}

		set, err := ParseBytes([]byte(b.String()))
		require.NoError(t, err)
		require.Equal(t, rows, set.Len())

		s, err := Summarize(set)
		require.NoError(t, err)
		require.Equal(t, wantTPS, s.MaxObservedTPS, "iteration %d", iter)
		require.Equal(t, wantSum, s.TotalConfirmedTx, "iteration %d", iter)
		require.Equal(t, wantConf, s.MaxConfirmedTxInBlock, "iteration %d", iter)
		require.Equal(t, wantLat, s.MaxLatency, "iteration %d", iter)
		require.Equal(t, wantMinH, s.MinBlockHeight, "iteration %d", iter)
		require.Equal(t, max(wantTPS, wantConf)+CeilingMargin, s.ChartCeiling, "iteration %d", iter)
	}
}
