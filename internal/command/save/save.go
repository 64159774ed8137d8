package save

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/keshon/ftt/internal/command"
	"github.com/keshon/ftt/internal/middleware"
	"github.com/keshon/ftt/internal/progress"
	"github.com/keshon/ftt/internal/repo"
)

type Command struct {
	quiet bool
}

func (c *Command) Name() string      { return "save" }
func (c *Command) Aliases() []string { return []string{"snapshot"} }
func (c *Command) Usage() string     { return "save [path]" }
func (c *Command) Brief() string     { return "Record the current tree as a new snapshot" }
func (c *Command) Help() string {
	return `Scan the root, store every new file content in the blob store and append a
snapshot to the index. Identical content is stored once.

Options:
  -q, --quiet   Print only the new snapshot id.

Examples:
  ftt save
  ftt save ~/notes`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.quiet, "quiet", "q", false, "print only the snapshot id")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := repo.OpenAt(ctx, ctx.Root(), &repo.Options{Progress: progress.Terminal(os.Stderr)})
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := r.Save(ctx)
	if err != nil {
		return err
	}

	if c.quiet {
		fmt.Fprintln(ctx.Out, res.Snapshot.ID)
		return nil
	}

	fmt.Fprintf(ctx.Out, "Snapshot %s saved: %d files, %d new blobs (%s)\n",
		color.CyanString("#%d", res.Snapshot.ID),
		len(res.Snapshot.Files),
		res.NewBlobs,
		humanize.Bytes(uint64(res.StoredBytes)),
	)
	ch := res.Changes
	if !ch.Empty() {
		fmt.Fprintf(ctx.Out, "  %s added, %s modified, %s deleted\n",
			color.GreenString("%d", len(ch.Added)),
			color.YellowString("%d", len(ch.Modified)),
			color.RedString("%d", len(ch.Deleted)),
		)
	}
	for _, p := range res.Dropped {
		fmt.Fprintf(ctx.Out, "  %s %s (unreadable, not recorded)\n", color.YellowString("skipped"), p)
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
