package command

var tree = NewTree()

// RegisterCommand adds a command to the global tree
func RegisterCommand(cmd Command) {
	tree.Register(cmd)
}

// GetCommand returns a command by name
func GetCommand(name string) (Command, bool) {
	return tree.Get(name)
}

// AllCommands returns all top-level commands sorted by name.
func AllCommands() []Command {
	return tree.Top()
}
