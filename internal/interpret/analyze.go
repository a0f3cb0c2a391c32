package interpret

// Report is the outcome of analysing a set of curves: per-curve statistics plus the
// combined interpretation text.
type Report struct {
	Stats   map[string]StatSummary `json:"stats"`
	Summary string                 `json:"summary"`
}

// Analyze describes every requested curve over rows. Curves with no valid reading are
// omitted from Stats and contribute nothing to the summary. Requested curves are
// processed in the order given, so the summary is deterministic.
func Analyze(rows []Row, curves []string, opts Options) Report {
	report := Report{Stats: make(map[string]StatSummary, len(curves))}
	diagnostics := make([]Diagnostics, 0, len(curves))

	seen := make(map[string]struct{}, len(curves))
	for _, curve := range curves {
		if _, dup := seen[curve]; dup {
			continue
		}
		seen[curve] = struct{}{}

		summary, ok := Describe(Extract(rows, curve), opts)
		if !ok {
			continue
		}
		report.Stats[curve] = summary
		diagnostics = append(diagnostics, Diagnostics{
			Curve:           curve,
			Outliers:        len(summary.OutlierDepths),
			GradientChanges: len(summary.GradientChangeDepths),
		})
	}

	report.Summary = GenerateSummary(diagnostics)
	return report
}

// AnalyzeWindow restricts rows to [from, to] and analyses the result, so quartiles and
// bounds are local to the window.
func AnalyzeWindow(rows []Row, curves []string, from, to float64, opts Options) Report {
	return Analyze(Window(rows, from, to), curves, opts)
}
