package rewind

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/keshon/ftt/internal/command"
	"github.com/keshon/ftt/internal/middleware"
	"github.com/keshon/ftt/internal/repo"
)

type Command struct {
	back    int
	tag     string
	id      uint64
	verbose bool
}

func (c *Command) Name() string      { return "rewind" }
func (c *Command) Aliases() []string { return []string{"restore"} }
func (c *Command) Usage() string     { return "rewind [path]" }
func (c *Command) Brief() string     { return "Make the tree match a snapshot" }
func (c *Command) Help() string {
	return `Restore changed files, delete files the snapshot does not have and remove
directories no snapshot file lives in. Exactly one selector is required.

Options:
      --back <n>     Snapshot n steps before the latest (0 is the latest).
      --tag <label>  Snapshot carrying the tag.
      --id <n>       Snapshot with this id.
  -v, --verbose      List every restored and deleted path.

Exit status is 3 when some files could not be restored (for example a
missing blob); those paths are listed and left untouched.

Examples:
  ftt rewind --back 1
  ftt rewind --tag v1 ~/notes`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.IntVar(&c.back, "back", 0, "snapshots back from the latest")
	fs.StringVar(&c.tag, "tag", "", "tag label")
	fs.Uint64Var(&c.id, "id", 0, "snapshot id")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "list every changed path")
}

func (c *Command) selector(ctx *command.Context) repo.Selector {
	var sel repo.Selector
	if ctx.Flags.Changed("back") {
		sel.Back = &c.back
	}
	if ctx.Flags.Changed("tag") {
		sel.Tag = &c.tag
	}
	if ctx.Flags.Changed("id") {
		sel.ID = &c.id
	}
	return sel
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := repo.OpenAt(ctx, ctx.Root(), nil)
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := r.Rewind(ctx, c.selector(ctx))
	if res == nil {
		return err
	}

	if c.verbose {
		for _, p := range res.Restored {
			fmt.Fprintf(ctx.Out, "  %s %s\n", color.GreenString("restored"), p)
		}
		for _, p := range res.Deleted {
			fmt.Fprintf(ctx.Out, "  %s  %s\n", color.RedString("deleted"), p)
		}
		for _, p := range res.RemovedDirs {
			fmt.Fprintf(ctx.Out, "  %s  %s/\n", color.RedString("removed"), p)
		}
	}
	for _, p := range res.Missing {
		fmt.Fprintf(ctx.Out, "  %s  %s (blob missing)\n", color.YellowString("skipped"), p)
	}
	for _, f := range res.Failed {
		fmt.Fprintf(ctx.Out, "  %s   %s: %v\n", color.YellowString("failed"), f.Path, f.Err)
	}

	fmt.Fprintf(ctx.Out, "Rewound to %s: %d restored, %d deleted, %d directories removed, %d unchanged\n",
		color.CyanString("#%d", res.Target.ID),
		len(res.Restored), len(res.Deleted), len(res.RemovedDirs), res.Unchanged)
	return err
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
