package command

import (
	"context"
	"io"

	"github.com/spf13/pflag"
)

// Command represents a cli command
type Command interface {
	Name() string
	Aliases() []string
	Usage() string
	Brief() string
	Help() string
	Subcommands() []Command
	Flags(fs *pflag.FlagSet)
	Run(ctx *Context) error
}

// Context represents a cli context
type Context struct {
	context.Context
	Args  []string
	Flags *pflag.FlagSet
	Out   io.Writer
}

// Root returns the tracked root named on the command line, or ".".
func (c *Context) Root() string {
	if len(c.Args) > 0 && c.Args[0] != "" {
		return c.Args[0]
	}
	return "."
}
