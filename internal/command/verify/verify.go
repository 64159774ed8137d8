package verify

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/keshon/ftt/internal/command"
	"github.com/keshon/ftt/internal/middleware"
	"github.com/keshon/ftt/internal/progress"
	"github.com/keshon/ftt/internal/repo"
)

type Command struct {
	verbose bool
}

func (c *Command) Name() string      { return "verify" }
func (c *Command) Aliases() []string { return []string{"check", "fsck"} }
func (c *Command) Usage() string     { return "verify [path]" }
func (c *Command) Brief() string     { return "Check the blob store and index for damage" }
func (c *Command) Help() string {
	return `Re-hash every blob the history references, recompute snapshot digests and
cross-check tags and descriptors. Stale temp files from interrupted saves are
removed. Exits non-zero when referenced content is missing or damaged.

Options:
  -v, --verbose   List orphan blobs and missing descriptors.

Examples:
  ftt verify
  ftt fsck -v ~/notes`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "list orphans and missing descriptors")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := repo.OpenAt(ctx, ctx.Root(), &repo.Options{Progress: progress.Terminal(os.Stderr)})
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := r.Verify(ctx)
	if err != nil {
		return err
	}

	for _, p := range res.Problems {
		fmt.Fprintf(ctx.Out, "  %s blob %s (used by snapshots %v)\n",
			color.RedString("%-8s", p.Status), p.Fingerprint, p.Snapshots)
	}
	for _, id := range res.BadDigests {
		fmt.Fprintf(ctx.Out, "  %s snapshot #%d files do not match its digest\n", color.RedString("corrupt "), id)
	}
	for _, t := range res.DanglingTags {
		fmt.Fprintf(ctx.Out, "  %s tag %q points at unknown snapshot #%d\n", color.RedString("dangling"), t.Label, t.SnapshotID)
	}
	if c.verbose {
		for _, fp := range res.Orphans {
			fmt.Fprintf(ctx.Out, "  %s blob %s\n", color.YellowString("orphan  "), fp)
		}
		for _, id := range res.MissingDescriptors {
			fmt.Fprintf(ctx.Out, "  %s descriptor for #%d\n", color.YellowString("missing "), id)
		}
	}

	fmt.Fprintf(ctx.Out, "Checked %d blobs across %d snapshots: %d problems, %d orphans, %d temp files removed\n",
		res.BlobsChecked, res.Snapshots, len(res.Problems)+len(res.BadDigests)+len(res.DanglingTags),
		len(res.Orphans), res.TempRemoved)
	if res.OK() {
		fmt.Fprintf(ctx.Out, "%s store is consistent\n", color.GreenString("✔"))
	}
	return res.Err()
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
