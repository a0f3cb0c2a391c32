package interpret

import (
	"fmt"
	"strings"
)

// EmptySummary is returned when no curve produced statistics.
const EmptySummary = "No valid curve values found (all values may be null or -9999)."

// Diagnostics carries the counts that drive one curve's interpretation phrases.
type Diagnostics struct {
	Curve           string
	Outliers        int
	GradientChanges int
}

// Phrases returns the interpretation sentences for one curve.
func Phrases(d Diagnostics) []string {
	var out []string
	if d.Outliers > 0 {
		out = append(out, fmt.Sprintf("%s shows statistically significant outlier behavior based on interquartile range analysis.", d.Curve))
	}
	if d.GradientChanges > 0 {
		out = append(out, fmt.Sprintf("Depth-wise variation in %s suggests possible formation transition zones.", d.Curve))
	}
	if len(out) == 0 {
		out = append(out, fmt.Sprintf("%s appears statistically stable within the selected interval.", d.Curve))
	}
	return out
}

// GenerateSummary joins the phrases of every curve, in order, with single spaces.
func GenerateSummary(diagnostics []Diagnostics) string {
	if len(diagnostics) == 0 {
		return EmptySummary
	}
	var parts []string
	for _, d := range diagnostics {
		parts = append(parts, Phrases(d)...)
	}
	return strings.Join(parts, " ")
}
