package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"pointtag/internal/dataset"
	"pointtag/internal/geom"
	"pointtag/internal/tui"
)

// tables longer than this print only head and tail
const printRows = 60

// Tag runs the pointtag command and returns its exit code.
func (a *App) Tag(ctx context.Context, args []string) int {
	fset := flag.NewFlagSet("pointtag", flag.ContinueOnError)
	fset.SetOutput(a.Stderr)
	var output string
	fset.StringVar(&output, "o", "", "path to save the tagged CSV file (optional)")
	fset.StringVar(&output, "output_file", "", "alias for -o")
	xCol := fset.String("x", dataset.ImagePointLeftX, "column plotted on the x axis")
	yCol := fset.String("y", dataset.ImagePointLeftY, "column plotted on the y axis")
	tagCol := fset.String("tag", dataset.Tag, "name of the tag column")
	picksPath := fset.String("picks", "", "read picks from a .csv/.wkt/.txt/.geojson/.json/.kml file instead of the picker")
	workers := fset.Int("workers", 1, "goroutines used for tagging")
	quiet := fset.Bool("quiet", false, "do not print the tagged table")
	verbose := fset.Bool("v", false, "debug logging")
	fset.Usage = func() {
		fmt.Fprintln(fset.Output(), "usage: pointtag [flags] INPUT.csv [flags]")
		fmt.Fprintln(fset.Output(), "Tag points in a CSV file based on user input.")
		fset.PrintDefaults()
	}
	positional, err := parseArgs(fset, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if len(positional) != 1 {
		fset.Usage()
		return ExitUsage
	}
	input := positional[0]
	log := newLogger(a.Stderr, *verbose)

	tbl, err := dataset.Load(input)
	if err != nil {
		return a.readError(input, err)
	}
	layout, err := tbl.Resolve(*xCol, *yCol)
	if err != nil {
		fmt.Fprintf(a.Stderr, "An error occurred while reading the file: %v\n", err)
		return ExitFailure
	}
	points, err := tbl.Points(layout)
	if err != nil {
		fmt.Fprintf(a.Stderr, "An error occurred while reading the file: %v\n", err)
		return ExitFailure
	}
	// reject unusable points before a human spends time picking
	if _, err := geom.Tag(points, nil); err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	log.Debug("dataset loaded", "path", input, "rows", tbl.Len(), "columns", len(tbl.Header))

	var queries []geom.Point
	if *picksPath != "" {
		queries, err = geom.LoadPicks(*picksPath)
		if err != nil {
			return a.readError(*picksPath, err)
		}
	} else {
		fmt.Fprintln(a.Stdout, "Please click on the points you want to tag. Press 'Enter' when done.")
		queries, err = a.Pick(ctx, points, tui.Config{
			Title:     "Left Image Points",
			XLabel:    *xCol,
			YLabel:    *yCol,
			Table:     tbl,
			TagColumn: *tagCol,
		})
		if errors.Is(err, ErrAborted) {
			fmt.Fprintln(a.Stderr, "Aborted.")
			return ExitAborted
		}
		if err != nil {
			fmt.Fprintf(a.Stderr, "Error: %v\n", err)
			return ExitFailure
		}
	}
	log.Info("picks collected", "count", len(queries))

	var tags geom.TagVector
	if *workers > 1 {
		tags, err = geom.TagConcurrent(ctx, points, queries, *workers)
	} else {
		tags, err = geom.Tag(points, queries)
	}
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	if err := tbl.SetTags(*tagCol, tags); err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	log.Info("points tagged", "points", len(points), "tagged", tags.Count())

	if !*quiet {
		maxRows := 0
		if tbl.Len() > printRows {
			maxRows = 10
		}
		fmt.Fprintln(a.Stdout, tui.RenderTable(tbl, *tagCol, maxRows))
	}
	if output != "" {
		if err := tbl.Save(output); err != nil {
			fmt.Fprintf(a.Stderr, "An error occurred while saving the file: %v\n", err)
			return ExitFailure
		}
		fmt.Fprintf(a.Stdout, "Tagged data saved to '%s'.\n", output)
	}
	return ExitOK
}
