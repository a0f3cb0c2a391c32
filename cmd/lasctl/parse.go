package main

import (
	"github.com/spf13/cobra"

	"lasanalyzer/internal/las"
	"lasanalyzer/pkg/contracts/domain"
)

func parseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed well, curves and rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := readLAS(cmd, opts, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toParsedWell(res))
		},
	}
}

func toParsedWell(res *las.Result) domain.ParsedWell {
	out := domain.ParsedWell{
		Well: domain.WellMetadata{
			Name:       res.Well.Name,
			StartDepth: res.Well.StartDepth,
			StopDepth:  res.Well.StopDepth,
			Step:       res.Well.Step,
		},
		Curves:      make([]domain.Curve, 0, len(res.Curves)),
		Rows:        make([]domain.FlatRow, 0, len(res.Rows)),
		DroppedRows: res.DroppedRows,
	}
	for _, c := range res.Curves {
		out.Curves = append(out.Curves, domain.Curve{Name: c.Name, Unit: c.Unit})
	}
	for _, r := range res.Rows {
		out.Rows = append(out.Rows, domain.FlatRow{Depth: r.Depth, Values: r.Readings(res.Curves)})
	}
	return out
}
