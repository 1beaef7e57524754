// Package cli implements the pointtag and matconv commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pointtag/internal/geom"
	"pointtag/internal/tui"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitAborted = 130
)

// ErrAborted is returned by a PickFunc when the user cancels picking.
var ErrAborted = errors.New("picking aborted")

// PickFunc collects query coordinates for points from a human. It returns
// only once picking is over.
type PickFunc func(ctx context.Context, points geom.PointSet, cfg tui.Config) ([]geom.Point, error)

type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Pick   PickFunc
}

// New returns an App wired to the process streams and the terminal picker.
func New() *App {
	return &App{Stdout: os.Stdout, Stderr: os.Stderr, Pick: TerminalPick}
}

// TerminalPick runs the interactive picker on the terminal.
func TerminalPick(ctx context.Context, points geom.PointSet, cfg tui.Config) ([]geom.Point, error) {
	p := tea.NewProgram(tui.New(points, cfg), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	return pickResult(p.Run())
}

// pickResult turns the outcome of the picker program into picks. A program
// killed through its context counts as an abort, like ctrl+c.
func pickResult(final tea.Model, err error) ([]geom.Point, error) {
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil, ErrAborted
	}
	if err != nil {
		return nil, err
	}
	m, ok := final.(tui.Model)
	if !ok {
		return nil, fmt.Errorf("picker returned %T", final)
	}
	if m.Aborted() {
		return nil, ErrAborted
	}
	return m.Picks(), nil
}

// parseArgs parses flags that may appear before, between or after the
// positional arguments, and returns the positionals in order. A lone "--"
// ends flag parsing.
func parseArgs(fset *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fset.Parse(args); err != nil {
			return nil, err
		}
		rest := fset.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// readError prints the message for a failed input read and returns the exit code.
func (a *App) readError(path string, err error) int {
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(a.Stderr, "Error: The file '%s' was not found.\n", path)
	} else {
		fmt.Fprintf(a.Stderr, "An error occurred while reading the file: %v\n", err)
	}
	return ExitFailure
}
