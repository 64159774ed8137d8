package middleware

import (
	"fmt"

	"github.com/keshon/ftt/internal/command"
	"github.com/keshon/ftt/internal/config"
	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/fs"
	"github.com/keshon/ftt/internal/repo/meta"
)

// WithRepoCheck refuses to run a command unless its root has been initialized.
func WithRepoCheck() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				cfg, err := config.NewRepoConfig(ctx.Root())
				if err != nil {
					return err
				}
				if !meta.IsMetaExists(cfg, fs.NewOSFS()) {
					return fmt.Errorf("%s: %w", cfg.Root, errs.ErrNotInitialized)
				}
				return cmd.Run(ctx)
			},
		}
	}
}
