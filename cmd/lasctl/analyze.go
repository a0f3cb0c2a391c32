package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"lasanalyzer/internal/interpret"
	"lasanalyzer/internal/las"
)

type analyzeOptions struct {
	curves []string
	from   float64
	to     float64
	method string
}

func analyzeCmd(opts *rootOptions) *cobra.Command {
	a := &analyzeOptions{}

	c := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Print robust statistics and an interpretation summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := interpret.ParseQuartileMethod(a.method)
			if err != nil {
				return err
			}
			res, err := readLAS(cmd, opts, args[0])
			if err != nil {
				return err
			}

			from, to, err := a.window(cmd, res)
			if err != nil {
				return err
			}
			curves := a.curves
			if len(curves) == 0 {
				curves = res.CurveNames()[1:]
			}

			report := interpret.AnalyzeWindow(toInterpretRows(res), curves, from, to, interpret.Options{Method: method})
			opts.logger.Info("analysis complete",
				slog.Float64("from", from),
				slog.Float64("to", to),
				slog.Int("curves", len(report.Stats)))
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	c.Flags().StringSliceVarP(&a.curves, "curves", "c", nil, "curves to analyze (default: every curve but depth)")
	c.Flags().Float64Var(&a.from, "from", 0, "window start depth (default: shallowest row)")
	c.Flags().Float64Var(&a.to, "to", 0, "window end depth (default: deepest row)")
	c.Flags().StringVar(&a.method, "method", string(interpret.Exclusive), "quartile method (exclusive, nearest-rank)")
	return c
}

// window resolves the depth bounds, defaulting unset flags to the file's depth range.
func (a *analyzeOptions) window(cmd *cobra.Command, res *las.Result) (float64, float64, error) {
	if len(res.Curves) == 0 {
		return 0, 0, errors.New("file declares no curves")
	}
	min, max, ok := res.DepthRange()
	if !ok {
		return 0, 0, errors.New("file has no data rows")
	}
	from, to := min, max
	if cmd.Flags().Changed("from") {
		from = a.from
	}
	if cmd.Flags().Changed("to") {
		to = a.to
	}
	if from > to {
		return 0, 0, fmt.Errorf("invalid depth range: from %g is greater than to %g", from, to)
	}
	return from, to, nil
}

func toInterpretRows(res *las.Result) []interpret.Row {
	rows := make([]interpret.Row, 0, len(res.Rows))
	for _, r := range res.Rows {
		rows = append(rows, interpret.Row{Depth: r.Depth, Values: r.Readings(res.Curves)})
	}
	return rows
}
