package interpret

import (
	"fmt"
	"math"
	"strings"
)

// IQRMultiplier scales the interquartile range into outlier fences.
const IQRMultiplier = 1.5

// QuartileMethod selects how Q1 and Q3 are taken from the sorted values.
type QuartileMethod string

const (
	// Exclusive splits the sorted values at the midpoint, leaving out the median element
	// for odd counts, and takes the median of each half.
	Exclusive QuartileMethod = "exclusive"

	// NearestRank picks sorted[floor(n*0.25)] and sorted[floor(n*0.75)].
	NearestRank QuartileMethod = "nearest-rank"
)

// ParseQuartileMethod maps a configuration string to a QuartileMethod.
// An empty string selects Exclusive.
func ParseQuartileMethod(s string) (QuartileMethod, error) {
	switch QuartileMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", Exclusive:
		return Exclusive, nil
	case NearestRank:
		return NearestRank, nil
	default:
		return "", fmt.Errorf("unknown quartile method %q", s)
	}
}

// Options tunes Describe and Analyze. The zero value uses the exclusive method.
type Options struct {
	Method QuartileMethod
}

// StatSummary is the robust description of one curve over one window.
//
// Mean, StdDev, Min and Max are nil when the cleaned series is empty. Q1, Q3, IQR and the
// bounds are nil when the quartiles cannot be formed (a single reading under the
// exclusive method).
type StatSummary struct {
	Median               float64   `json:"median"`
	Mean                 *float64  `json:"mean"`
	StdDev               *float64  `json:"stdDev"`
	Min                  *float64  `json:"min"`
	Max                  *float64  `json:"max"`
	Q1                   *float64  `json:"q1"`
	Q3                   *float64  `json:"q3"`
	IQR                  *float64  `json:"iqr"`
	LowerBound           *float64  `json:"lowerBound"`
	UpperBound           *float64  `json:"upperBound"`
	OutlierDepths        []float64 `json:"outlierDepths"`
	GradientChangeDepths []float64 `json:"gradientChangeDepths"`
	CleanedSeries        Series    `json:"cleanedSeries"`
	RawSeries            Series    `json:"rawSeries"`
}

// Median returns the median of values. ok is false for an empty slice.
func Median(values []float64) (median float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	return medianSorted(sortedCopy(values)), true
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Quartiles returns Q1 and Q3 of values using method. ok is false when either half is
// empty, which happens for fewer than two values under the exclusive method.
func Quartiles(values []float64, method QuartileMethod) (q1, q3 float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	sorted := sortedCopy(values)
	n := len(sorted)

	if method == NearestRank {
		return sorted[n/4], sorted[(3*n)/4], true
	}

	mid := n / 2
	lower := sorted[:mid]
	upper := sorted[mid:]
	if n%2 == 1 {
		upper = sorted[mid+1:]
	}
	if len(lower) == 0 || len(upper) == 0 {
		return 0, 0, false
	}
	return medianSorted(lower), medianSorted(upper), true
}

// Describe computes the StatSummary of one curve's series. Invalid readings are removed
// first; ok is false when nothing valid remains, in which case the curve has no summary.
func Describe(series Series, opts Options) (StatSummary, bool) {
	raw := series.Valid()
	if len(raw) == 0 {
		return StatSummary{}, false
	}

	values := raw.Values()
	median, _ := Median(values)

	summary := StatSummary{
		Median:               median,
		OutlierDepths:        []float64{},
		GradientChangeDepths: []float64{},
		CleanedSeries:        Series{},
		RawSeries:            raw,
	}

	q1, q3, ok := Quartiles(values, opts.Method)
	if !ok {
		// No fences can be drawn, so no reading can be placed inside or outside them.
		return summary, true
	}

	iqr := q3 - q1
	lower := q1 - IQRMultiplier*iqr
	upper := q3 + IQRMultiplier*iqr
	summary.Q1, summary.Q3, summary.IQR = &q1, &q3, &iqr
	summary.LowerBound, summary.UpperBound = &lower, &upper

	for _, p := range raw {
		if p.Value < lower || p.Value > upper {
			summary.OutlierDepths = append(summary.OutlierDepths, p.Depth)
			continue
		}
		summary.CleanedSeries = append(summary.CleanedSeries, p)
	}

	if len(summary.CleanedSeries) == 0 {
		return summary, true
	}

	mean, stdDev, min, max := moments(summary.CleanedSeries.Values())
	summary.Mean, summary.StdDev = &mean, &stdDev
	summary.Min, summary.Max = &min, &max
	summary.GradientChangeDepths = gradientChanges(summary.CleanedSeries, stdDev)

	return summary, true
}

// moments returns mean, population standard deviation, min and max of a non-empty slice.
// Values are divided by the largest magnitude first so that sums and squares of large
// finite readings stay finite.
func moments(values []float64) (mean, stdDev, min, max float64) {
	n := float64(len(values))
	min, max = values[0], values[0]
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}

	scale := math.Max(math.Abs(min), math.Abs(max))
	if scale == 0 {
		return 0, 0, min, max
	}

	sum := 0.0
	for _, v := range values {
		sum += v / scale
	}
	scaledMean := sum / n

	variance := 0.0
	for _, v := range values {
		d := v/scale - scaledMean
		variance += d * d
	}
	return scaledMean * scale, math.Sqrt(variance/n) * scale, min, max
}

// gradientChanges marks the later depth of every consecutive pair whose absolute
// difference exceeds threshold.
func gradientChanges(cleaned Series, threshold float64) []float64 {
	out := []float64{}
	for i := 1; i < len(cleaned); i++ {
		if math.Abs(cleaned[i].Value-cleaned[i-1].Value) > threshold {
			out = append(out, cleaned[i].Depth)
		}
	}
	return out
}
