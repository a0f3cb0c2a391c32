package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lasanalyzer/internal/infrastructure"
	"lasanalyzer/internal/las"
	"lasanalyzer/internal/validation"
)

type rootOptions struct {
	logLevel  string
	logger    *slog.Logger
	validator *validation.FileValidator
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "lasctl",
		Short:        "Inspect LAS 2.0 well log files offline",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = infrastructure.NewLogger(cmd.ErrOrStderr(), opts.logLevel).
				With(slog.String("component", "lasctl"))
			opts.validator = validation.NewFileValidator(opts.logger)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.AddCommand(parseCmd(opts), analyzeCmd(opts), exportCmd(opts))
	return cmd
}

// readLAS parses the file at path. "-" reads standard input.
func readLAS(cmd *cobra.Command, opts *rootOptions, path string) (*las.Result, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		if err := opts.validator.ValidateLASFile(path); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	res, err := las.ParseReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	opts.logger.Debug("parsed file",
		slog.String("path", path),
		slog.Int("curves", len(res.Curves)),
		slog.Int("rows", len(res.Rows)),
		slog.Int("dropped_rows", res.DroppedRows))
	if res.DroppedRows > 0 {
		opts.logger.Warn("rows dropped for token count mismatch",
			slog.String("path", path), slog.Int("dropped_rows", res.DroppedRows))
	}
	return res, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
