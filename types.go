// Package tpsreport turns the per-block samples recorded during a blockchain
// load test into benchmark report inputs.
//
// The package holds the pure stages of the pipeline:
//   - Parse: fixed-column sample stream to SampleSet
//   - Summarize: SampleSet to BenchmarkSummary
//   - PlanAxis: where and how to draw the theoretical TPS reference line
//   - Registry: chain identifier to network label and theoretical TPS
//
// Rendering lives in the chart and report packages; orchestration, logging
// and metrics live in the pipeline package.
package tpsreport

// SampleRecord is one measured block.
// All fields are non-negative; Parse rejects anything else.
type SampleRecord struct {
	BlockHeight      int64
	Latency          int64
	PendingTxCount   int64
	ConfirmedTxCount int64
	ObservedTPS      int64
}

// SampleSet is a non-empty, ordered sequence of SampleRecord.
// Records keep the order in which they appeared in the input stream.
//
// The zero value is an empty set and is rejected by Summarize. Build sets
// with Parse or NewSampleSet.
type SampleSet struct {
	records []SampleRecord
}

// NewSampleSet copies records into a SampleSet.
// Returns ErrEmptySampleSet if records is empty and ErrMalformedSample if any
// field is negative.
func NewSampleSet(records []SampleRecord) (SampleSet, error) {
	if len(records) == 0 {
		return SampleSet{}, wrapEmpty("no records")
	}
	for i, r := range records {
		if r.BlockHeight < 0 || r.Latency < 0 || r.PendingTxCount < 0 ||
			r.ConfirmedTxCount < 0 || r.ObservedTPS < 0 {
			return SampleSet{}, wrapMalformedf("record %d has a negative field", i)
		}
	}
	cp := make([]SampleRecord, len(records))
	copy(cp, records)
	return SampleSet{records: cp}, nil
}

// Len returns the number of records.
func (s SampleSet) Len() int {
	return len(s.records)
}

// At returns the i-th record. It panics if i is out of range.
func (s SampleSet) At(i int) SampleRecord {
	return s.records[i]
}

// Records returns a copy of the records in stream order.
func (s SampleSet) Records() []SampleRecord {
	cp := make([]SampleRecord, len(s.records))
	copy(cp, s.records)
	return cp
}

// ChainProfile describes a benchmarked network.
type ChainProfile struct {
	// ID is the short chain identifier used on the command line (e.g. "ava").
	ID string

	// NetworkLabel is the client name and version shown in the report.
	NetworkLabel string

	// TheoreticalTPS is the nominal throughput ceiling of the network.
	TheoreticalTPS int64
}

// CeilingMargin is added to the largest observed bar to get the chart ceiling.
const CeilingMargin = 50

// BenchmarkSummary holds the statistics derived once per SampleSet.
type BenchmarkSummary struct {
	TotalConfirmedTx      int64
	MaxLatency            int64
	MaxObservedTPS        int64
	MaxConfirmedTxInBlock int64

	// MinBlockHeight anchors the reference line label on the left edge.
	MinBlockHeight int64

	// ChartCeiling is max(MaxObservedTPS, MaxConfirmedTxInBlock) + CeilingMargin.
	ChartCeiling int64
}

// AxisPlan tells the chart renderer where to draw the theoretical TPS line.
type AxisPlan struct {
	// AxisMax is the upper bound of both vertical axes. It always equals the
	// summary's ChartCeiling; the axis is never stretched.
	AxisMax float64

	// LineY is the drawn height of the reference line in data units.
	LineY float64

	// LabelX is the x position (block height units) of the line label.
	LabelX float64

	// LabelValue is the literal theoretical TPS printed next to the line.
	LabelValue int64

	// BreakMarker is set when the line is not drawn to scale.
	BreakMarker bool

	// BreakY is the height of the scale-break glyph. Only meaningful when
	// BreakMarker is set.
	BreakY float64
}

// Scaled reports whether the reference line was compressed into the visible
// range.
func (p AxisPlan) Scaled() bool {
	return p.BreakMarker
}

// EnvironmentFacts describes the host that ran the benchmark.
type EnvironmentFacts struct {
	OS     string
	CPU    string
	Memory string
}
