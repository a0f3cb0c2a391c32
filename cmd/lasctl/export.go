package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"lasanalyzer/internal/exporter"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		out    string
		curves []string
	)

	c := &cobra.Command{
		Use:   "export <file>",
		Short: "Convert a LAS file to CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}
			res, err := readLAS(cmd, opts, args[0])
			if err != nil {
				return err
			}

			table := exporter.FromLAS(res, curves)
			if out == "" || out == "-" {
				return exporter.Write(cmd.OutOrStdout(), f, table)
			}
			if err := opts.validator.ValidateOutputPath(out); err != nil {
				return err
			}
			if err := exporter.WriteFile(out, f, table); err != nil {
				return err
			}
			opts.logger.Info("export written",
				slog.String("path", out),
				slog.String("format", string(f)),
				slog.Int("rows", len(table.Rows)))
			return nil
		},
	}

	c.Flags().StringVarP(&format, "format", "f", string(exporter.FormatCSV), "output format (csv, xlsx)")
	c.Flags().StringVarP(&out, "out", "o", "", "output file (default: standard output)")
	c.Flags().StringSliceVarP(&curves, "curves", "c", nil, "curves to include (default: all)")
	return c
}
