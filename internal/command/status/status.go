package status

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/keshon/ftt/internal/command"
	"github.com/keshon/ftt/internal/command/diff"
	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/middleware"
	"github.com/keshon/ftt/internal/repo"
)

type Command struct {
	quiet bool
}

func (c *Command) Name() string      { return "status" }
func (c *Command) Aliases() []string { return []string{"st"} }
func (c *Command) Usage() string     { return "status [path]" }
func (c *Command) Brief() string     { return "Show changes since the latest snapshot" }
func (c *Command) Help() string {
	return `Compare the live tree with the latest snapshot without recording anything.

Options:
  -q, --quiet   Print nothing; exit status 0 when clean, 4 when changed.

Examples:
  ftt status
  ftt st ~/notes`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.quiet, "quiet", "q", false, "print nothing")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := repo.OpenAt(ctx, ctx.Root(), nil)
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := r.Status(ctx)
	if errors.Is(err, errs.ErrNoSnapshots) {
		if !c.quiet {
			fmt.Fprintln(ctx.Out, "No snapshots yet. Run `ftt save` first.")
		}
		return err
	}
	if err != nil {
		return err
	}
	if c.quiet {
		if !res.Clean() {
			return errs.ErrDirty
		}
		return nil
	}

	if res.Clean() {
		fmt.Fprintf(ctx.Out, "%s No changes since %s\n", color.GreenString("✔"), color.CyanString("#%d", res.Base.ID))
		return nil
	}
	fmt.Fprintf(ctx.Out, "Changes since %s:\n", color.CyanString("#%d", res.Base.ID))
	diff.PrintChanges(ctx.Out, res.Result)
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
