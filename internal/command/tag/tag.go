package tag

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/keshon/ftt/internal/command"
	"github.com/keshon/ftt/internal/middleware"
	"github.com/keshon/ftt/internal/repo"
)

type Command struct {
	snapshot uint64
	label    string
	list     bool
}

func (c *Command) Name() string      { return "tag" }
func (c *Command) Aliases() []string { return []string{"label"} }
func (c *Command) Usage() string     { return "tag [path]" }
func (c *Command) Brief() string     { return "Name a snapshot, or list tags" }
func (c *Command) Help() string {
	return `Point a label at a snapshot. An existing label is moved.

Options:
      --snapshot <id>   Snapshot to tag.
      --label <name>    Tag label.
  -l, --list            List all tags.

Examples:
  ftt tag --snapshot 2 --label v1
  ftt tag --list`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.Uint64Var(&c.snapshot, "snapshot", 0, "snapshot id")
	fs.StringVar(&c.label, "label", "", "tag label")
	fs.BoolVarP(&c.list, "list", "l", false, "list tags")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := repo.OpenAt(ctx, ctx.Root(), nil)
	if err != nil {
		return err
	}
	defer r.Close()

	if c.list {
		tags, err := r.Tags(ctx)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Fprintln(ctx.Out, "No tags")
			return nil
		}
		for _, t := range tags {
			fmt.Fprintf(ctx.Out, "%-20s %s\n", t.Label, color.CyanString("#%d", t.SnapshotID))
		}
		return nil
	}

	if !ctx.Flags.Changed("snapshot") || c.label == "" {
		return errors.New("tag needs --snapshot and --label (or --list)")
	}
	res, err := r.Tag(ctx, c.label, c.snapshot)
	if err != nil {
		return err
	}
	if res.Moved {
		fmt.Fprintf(ctx.Out, "Moved tag %s from #%d to %s\n",
			color.YellowString(c.label), res.Previous, color.CyanString("#%d", c.snapshot))
		return nil
	}
	fmt.Fprintf(ctx.Out, "Tagged %s as %s\n", color.CyanString("#%d", c.snapshot), color.YellowString(c.label))
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
