package diff

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/keshon/ftt/internal/command"
	"github.com/keshon/ftt/internal/middleware"
	"github.com/keshon/ftt/internal/repo"
	"github.com/keshon/ftt/internal/repo/diff"
)

type Command struct {
	from     uint64
	fromTag  string
	fromBack int
	to       uint64
	toTag    string
	toBack   int
}

func (c *Command) Name() string      { return "diff" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "diff [path]" }
func (c *Command) Brief() string     { return "Compare two snapshots" }
func (c *Command) Help() string {
	return `List files added, modified and deleted between two snapshots. Each side
takes exactly one selector.

Options:
      --from <id>         Older snapshot by id.
      --from-tag <label>  Older snapshot by tag.
      --from-back <n>     Older snapshot n steps before the latest.
      --to <id>           Newer snapshot by id.
      --to-tag <label>    Newer snapshot by tag.
      --to-back <n>       Newer snapshot n steps before the latest.

Examples:
  ftt diff --from 1 --to 2
  ftt diff --from-tag v1 --to-back 0`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.Uint64Var(&c.from, "from", 0, "older snapshot id")
	fs.StringVar(&c.fromTag, "from-tag", "", "older snapshot tag")
	fs.IntVar(&c.fromBack, "from-back", 0, "older snapshot offset from the latest")
	fs.Uint64Var(&c.to, "to", 0, "newer snapshot id")
	fs.StringVar(&c.toTag, "to-tag", "", "newer snapshot tag")
	fs.IntVar(&c.toBack, "to-back", 0, "newer snapshot offset from the latest")
}

func (c *Command) Run(ctx *command.Context) error {
	f := ctx.Flags
	var from, to repo.Selector
	if f.Changed("from") {
		from.ID = &c.from
	}
	if f.Changed("from-tag") {
		from.Tag = &c.fromTag
	}
	if f.Changed("from-back") {
		from.Back = &c.fromBack
	}
	if f.Changed("to") {
		to.ID = &c.to
	}
	if f.Changed("to-tag") {
		to.Tag = &c.toTag
	}
	if f.Changed("to-back") {
		to.Back = &c.toBack
	}

	r, err := repo.OpenAt(ctx, ctx.Root(), nil)
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := r.Diff(ctx, from, to)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Changes from %s to %s:\n",
		color.CyanString("#%d", res.From.ID), color.CyanString("#%d", res.To.ID))
	PrintChanges(ctx.Out, res.Result)
	return nil
}

// PrintChanges renders a diff result one path per line.
func PrintChanges(w io.Writer, r diff.Result) {
	if r.Empty() {
		fmt.Fprintln(w, "  no changes")
		return
	}
	for _, p := range r.Added {
		fmt.Fprintf(w, "  %s %s\n", color.GreenString("added:   "), p)
	}
	for _, p := range r.Modified {
		fmt.Fprintf(w, "  %s %s\n", color.YellowString("modified:"), p)
	}
	for _, p := range r.Deleted {
		fmt.Fprintf(w, "  %s %s\n", color.RedString("deleted: "), p)
	}
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
