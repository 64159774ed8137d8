package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/keshon/ftt/internal/command"
	"github.com/keshon/ftt/internal/middleware"
	"github.com/keshon/ftt/internal/repo"
)

type Command struct {
	oneline bool
	limit   int
	since   string
}

func (c *Command) Name() string      { return "log" }
func (c *Command) Aliases() []string { return []string{"history"} }
func (c *Command) Usage() string     { return "log [path]" }
func (c *Command) Brief() string     { return "Show snapshot history (newest first)" }
func (c *Command) Help() string {
	return `List the snapshots of a root, newest first, with their tags.

Options:
      --oneline        Show each snapshot on one line.
  -n <count>           Limit to the last N snapshots.
      --since <n>{d|h|m}
                       Only snapshots taken within the window, e.g. 1d, 5h, 30m.

Examples:
  ftt log
  ftt log --oneline -n 10
  ftt log --since 2h ~/notes`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.oneline, "oneline", false, "show each snapshot on one line")
	fs.IntVarP(&c.limit, "limit", "n", 0, "limit number of snapshots")
	fs.StringVar(&c.since, "since", "", "only snapshots within the window (1d, 5h, 30m)")
}

func (c *Command) Run(ctx *command.Context) error {
	opts := repo.LogOptions{Limit: c.limit}
	if c.since != "" {
		d, err := repo.ParseSince(c.since)
		if err != nil {
			return err
		}
		opts.Since = d
	}

	r, err := repo.OpenAt(ctx, ctx.Root(), nil)
	if err != nil {
		return err
	}
	defer r.Close()

	entries, err := r.Log(ctx, opts)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(ctx.Out, "No snapshots in that window")
		return nil
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	for _, e := range entries {
		s := e.Snapshot
		tags := ""
		if len(e.Tags) > 0 {
			tags = " " + color.YellowString("(%s)", strings.Join(e.Tags, ", "))
		}
		if c.oneline {
			fmt.Fprintf(ctx.Out, "%s %s %d files%s\n",
				color.CyanString("#%d", s.ID), s.CreatedAt.Local().Format(time.DateTime), len(s.Files), tags)
			continue
		}
		fmt.Fprintf(ctx.Out, "%s %s%s\n", gray("Snapshot:"), color.CyanString("#%d", s.ID), tags)
		fmt.Fprintf(ctx.Out, "%s     %s (%s)\n", gray("Date:"),
			s.CreatedAt.Local().Format("Mon Jan 2 15:04:05 2006"), humanize.Time(s.CreatedAt))
		fmt.Fprintf(ctx.Out, "%s    %d\n", gray("Files:"), len(s.Files))
		if s.Digest != "" {
			fmt.Fprintf(ctx.Out, "%s   %s\n", gray("Digest:"), s.Digest)
		}
		fmt.Fprintln(ctx.Out)
	}
	if !c.oneline {
		fmt.Fprintf(ctx.Out, "Total snapshots: %d\n", len(entries))
	}
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithRepoCheck(),
			middleware.WithDebugArgsPrint(),
		),
	)
}
