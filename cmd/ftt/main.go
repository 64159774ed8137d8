package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/keshon/ftt/internal/command"
	_ "github.com/keshon/ftt/internal/command/diff"
	_ "github.com/keshon/ftt/internal/command/init"
	_ "github.com/keshon/ftt/internal/command/log"
	_ "github.com/keshon/ftt/internal/command/rewind"
	_ "github.com/keshon/ftt/internal/command/save"
	_ "github.com/keshon/ftt/internal/command/status"
	_ "github.com/keshon/ftt/internal/command/tag"
	_ "github.com/keshon/ftt/internal/command/verify"
	"github.com/keshon/ftt/internal/errs"
)

var version = "dev"

var red = color.New(color.FgHiRed, color.Bold).SprintFunc()

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := command.NewRootCommand(version, func(level string) error {
		return setupLogger(level, stderr)
	})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, errs.ErrDirty) {
		fmt.Fprintf(stderr, "%s %v\n", red("error:"), err)
	}
	return exitCode(err)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errs.ErrDirty):
		return 4
	case errors.Is(err, errs.ErrPartialRewind):
		return 3
	case errs.IsSelector(err), errors.Is(err, errs.ErrNotInitialized):
		return 2
	default:
		return 1
	}
}

func setupLogger(level string, w io.Writer) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}

	noColor := os.Getenv("NO_COLOR") != ""
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		noColor = true
	}

	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	})))
	return nil
}
