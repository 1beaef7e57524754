package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"pointtag/internal/matfile"
	"pointtag/internal/stereo"
)

const (
	defaultMATInput  = "Data.mat"
	defaultCSVOutput = "combined_data.csv"
)

// Convert runs the matconv command and returns its exit code.
func (a *App) Convert(ctx context.Context, args []string) int {
	fset := flag.NewFlagSet("matconv", flag.ContinueOnError)
	fset.SetOutput(a.Stderr)
	output := fset.String("o", defaultCSVOutput, "output CSV path")
	scalars := fset.Bool("scalars", false, "append the camera constants to every row")
	verbose := fset.Bool("v", false, "debug logging")
	fset.Usage = func() {
		fmt.Fprintln(fset.Output(), "usage: matconv [flags] [INPUT.mat] [flags]")
		fmt.Fprintln(fset.Output(), "Flatten the stereo point matrices of a MAT-file into a CSV file.")
		fset.PrintDefaults()
	}
	positional, err := parseArgs(fset, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if len(positional) > 1 {
		fset.Usage()
		return ExitUsage
	}
	input := defaultMATInput
	if len(positional) == 1 {
		input = positional[0]
	}
	log := newLogger(a.Stderr, *verbose)

	if ctx.Err() != nil {
		fmt.Fprintln(a.Stderr, "Aborted.")
		return ExitAborted
	}
	f, err := matfile.Open(input, matfile.WithLogger(log))
	if err != nil {
		return a.readError(input, err)
	}
	if len(f.Skipped) > 0 {
		log.Debug("non-numeric variables skipped", "names", f.Skipped)
	}
	tbl, err := stereo.Flatten(f, stereo.Options{IncludeScalars: *scalars})
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	if err := tbl.Save(*output); err != nil {
		fmt.Fprintf(a.Stderr, "An error occurred while saving the file: %v\n", err)
		return ExitFailure
	}
	log.Info("converted", "input", input, "output", *output, "rows", tbl.Len(), "columns", len(tbl.Header))
	return ExitOK
}
