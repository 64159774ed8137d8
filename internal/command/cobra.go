package command

import (
	"github.com/spf13/cobra"

	"github.com/keshon/ftt/internal/config"
)

// LogSetup configures process logging once the level is known.
type LogSetup func(level string) error

// NewRootCommand builds the ftt cobra tree from the registered commands.
// setup may be nil.
func NewRootCommand(version string, setup LogSetup) *cobra.Command {
	root := &cobra.Command{
		Use:           "ftt",
		Short:         "Filesystem time travel: snapshot, diff and rewind a directory",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if setup == nil {
			return nil
		}
		return setup(logLevel(cmd, args))
	}

	for _, c := range AllCommands() {
		root.AddCommand(toCobra(c))
	}
	return root
}

// logLevel picks the flag, then FTT_LOG_LEVEL or the root's config.json.
func logLevel(cmd *cobra.Command, args []string) string {
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		return f.Value.String()
	}
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	cfg, err := config.NewRepoConfig(root)
	if err != nil {
		return config.DefaultLogLevel
	}
	s, err := config.LoadSettings(cfg)
	if err != nil {
		return config.DefaultLogLevel
	}
	return s.LogLevel
}

func toCobra(c Command) *cobra.Command {
	cc := &cobra.Command{
		Use:     c.Usage(),
		Aliases: c.Aliases(),
		Short:   c.Brief(),
		Long:    c.Help(),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(&Context{
				Context: cmd.Context(),
				Args:    args,
				Flags:   cmd.Flags(),
				Out:     cmd.OutOrStdout(),
			})
		},
	}
	cc.Flags().SortFlags = false
	c.Flags(cc.Flags())
	for _, sub := range c.Subcommands() {
		cc.AddCommand(toCobra(sub))
	}
	return cc
}
