package middleware

import (
	"log/slog"

	"github.com/keshon/ftt/internal/command"
)

// WithDebugArgsPrint logs the command name and its positional args at debug level.
func WithDebugArgsPrint() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				slog.DebugContext(ctx, "run command", "name", cmd.Name(), "args", ctx.Args)
				return cmd.Run(ctx)
			},
		}
	}
}
