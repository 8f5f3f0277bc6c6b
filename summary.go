package tpsreport

import "math"

// Summarize reduces a SampleSet into a BenchmarkSummary.
// Sets whose confirmed total or chart ceiling would not fit in an int64 are
// rejected with ErrMalformedSample.
func Summarize(set SampleSet) (BenchmarkSummary, error) {
	if set.Len() == 0 {
		return BenchmarkSummary{}, wrapEmpty("cannot summarize an empty sample set")
	}

	first := set.records[0]
	s := BenchmarkSummary{
		MaxLatency:            first.Latency,
		MaxObservedTPS:        first.ObservedTPS,
		MaxConfirmedTxInBlock: first.ConfirmedTxCount,
		MinBlockHeight:        first.BlockHeight,
	}

	for i, r := range set.records {
		if r.ConfirmedTxCount > math.MaxInt64-s.TotalConfirmedTx {
			return BenchmarkSummary{}, wrapMalformedf("row %d: total confirmed transactions overflow int64", i+1)
		}
		s.TotalConfirmedTx += r.ConfirmedTxCount
		s.MaxLatency = max(s.MaxLatency, r.Latency)
		s.MaxObservedTPS = max(s.MaxObservedTPS, r.ObservedTPS)
		s.MaxConfirmedTxInBlock = max(s.MaxConfirmedTxInBlock, r.ConfirmedTxCount)
		s.MinBlockHeight = min(s.MinBlockHeight, r.BlockHeight)
	}

	peak := max(s.MaxObservedTPS, s.MaxConfirmedTxInBlock)
	if peak > math.MaxInt64-CeilingMargin {
		return BenchmarkSummary{}, wrapMalformedf("peak value %d leaves no room for the chart ceiling margin", peak)
	}
	s.ChartCeiling = peak + CeilingMargin

	return s, nil
}

// MaxBlockHeight returns the largest block height in the set, or 0 if empty.
func (s SampleSet) MaxBlockHeight() int64 {
	var m int64
	for _, r := range s.records {
		m = max(m, r.BlockHeight)
	}
	return m
}
