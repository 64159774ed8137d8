package initcmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/keshon/ftt/internal/command"
	"github.com/keshon/ftt/internal/middleware"
	"github.com/keshon/ftt/internal/repo"
)

type Command struct {
	quiet bool
}

func (c *Command) Name() string      { return "init" }
func (c *Command) Aliases() []string { return []string{"initialize"} }
func (c *Command) Usage() string     { return "init [path]" }
func (c *Command) Brief() string     { return "Start tracking a directory" }
func (c *Command) Help() string {
	return `Create the .ftt metadata directory under the given root (default: current
directory). Running init again on a tracked root is safe and keeps its history.

Options:
  -q, --quiet   Suppress normal output.

Examples:
  ftt init
  ftt init ~/notes`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.quiet, "quiet", "q", false, "suppress normal output")
}

func (c *Command) Run(ctx *command.Context) error {
	r, created, err := repo.InitAt(ctx, ctx.Root(), nil)
	if err != nil {
		return err
	}
	defer r.Close()

	if c.quiet {
		return nil
	}
	if created {
		fmt.Fprintf(ctx.Out, "%s Initialized ftt in %s\n", color.GreenString("✔"), r.Config.MetaPath())
	} else {
		fmt.Fprintf(ctx.Out, "Reinitialized existing ftt root in %s\n", r.Config.MetaPath())
	}
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
