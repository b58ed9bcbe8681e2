package stats

import (
	"math"
	"sort"

	"github.com/strategy-lab/dca-backtest/internal/errors"
	"github.com/strategy-lab/dca-backtest/internal/monitoring"
)

// DefaultAlpha is the significance level used when none is supplied.
const DefaultAlpha = 0.05

// SummaryStats describes one sample of outcomes.
type SummaryStats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ComparisonResult is the outcome of a two-sample significance test
// between a candidate strategy and a baseline.
type ComparisonResult struct {
	Candidate      string       `json:"candidate"`
	Baseline       string       `json:"baseline"`
	CandidateStats SummaryStats `json:"candidate_stats"`
	BaselineStats  SummaryStats `json:"baseline_stats"`
	MeanDifference float64      `json:"mean_difference"`
	TStatistic     float64      `json:"t_statistic"`
	PValue         float64      `json:"p_value"`
	Alpha          float64      `json:"alpha"`
	Significant    bool         `json:"significant"`
	CILow          float64      `json:"ci_low"`
	CIHigh         float64      `json:"ci_high"`
}

// Tester runs two-sample Student's t-tests over per-window strategy
// outcomes.
type Tester struct {
	Alpha float64
}

// NewTester creates a significance tester. A non-positive alpha falls
// back to DefaultAlpha.
func NewTester(alpha float64) *Tester {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	return &Tester{Alpha: alpha}
}

// Compare runs a two-sided two-sample t-test with pooled variance on
// the candidate and baseline outcome samples. Each sample needs at
// least two observations. Two identical constant samples are reported
// as t=0, p=1 rather than a division by zero.
func (st *Tester) Compare(candidate, baseline string, candidateOutcomes, baselineOutcomes []float64) (*ComparisonResult, error) {
	if len(candidateOutcomes) < 2 || len(baselineOutcomes) < 2 {
		monitoring.RecordComparison("insufficient_samples")
		return nil, errors.Newf(errors.KindInsufficientSamples, "stats", "compare",
			"need at least 2 outcomes per side, got %d vs %d",
			len(candidateOutcomes), len(baselineOutcomes))
	}

	cs := summarize(candidateOutcomes)
	bs := summarize(baselineOutcomes)

	result := &ComparisonResult{
		Candidate:      candidate,
		Baseline:       baseline,
		CandidateStats: cs,
		BaselineStats:  bs,
		MeanDifference: cs.Mean - bs.Mean,
		Alpha:          st.Alpha,
		PValue:         1,
	}

	n1 := float64(cs.N)
	n2 := float64(bs.N)
	df := n1 + n2 - 2

	pooledVar := ((n1-1)*cs.StdDev*cs.StdDev + (n2-1)*bs.StdDev*bs.StdDev) / df
	se := math.Sqrt(pooledVar * (1/n1 + 1/n2))

	if se > 0 {
		result.TStatistic = result.MeanDifference / se
		result.PValue = studentTwoTailedP(result.TStatistic, df)
		result.Significant = result.PValue < st.Alpha

		tCrit := studentCriticalValue(st.Alpha, df)
		result.CILow = result.MeanDifference - tCrit*se
		result.CIHigh = result.MeanDifference + tCrit*se
	} else {
		// both samples are constant and equal within float precision
		result.CILow = result.MeanDifference
		result.CIHigh = result.MeanDifference
	}

	monitoring.RecordComparison("ok")
	return result, nil
}

// CompareAll tests every candidate against the shared baseline with a
// Bonferroni-adjusted significance level. Candidates with too few
// outcomes are skipped and reported in the returned error only when
// no comparison succeeds at all.
func (st *Tester) CompareAll(baseline string, baselineOutcomes []float64, candidates map[string][]float64) ([]*ComparisonResult, error) {
	if len(candidates) == 0 {
		return nil, errors.New(errors.KindInsufficientSamples, "stats", "compare_all",
			"no candidate samples supplied")
	}

	adjusted := *st
	adjusted.Alpha = st.Alpha / float64(len(candidates))

	results := make([]*ComparisonResult, 0, len(candidates))
	var lastErr error
	for name, outcomes := range candidates {
		result, err := adjusted.Compare(name, baseline, outcomes, baselineOutcomes)
		if err != nil {
			lastErr = err
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, lastErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Candidate < results[j].Candidate
	})
	return results, nil
}

func summarize(xs []float64) SummaryStats {
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	sumSq := 0.0
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}

	sd := 0.0
	if len(xs) > 1 {
		sd = math.Sqrt(sumSq / float64(len(xs)-1))
	}

	return SummaryStats{N: len(xs), Mean: mean, StdDev: sd}
}
