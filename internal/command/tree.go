package command

import "sort"

// Node represents a node in the command tree.
type Node struct {
	Cmd         Command
	Subcommands map[string]*Node
}

// CommandTree manages all commands and subcommands.
type CommandTree struct {
	root *Node
}

// NewTree creates a new empty command tree.
func NewTree() *CommandTree {
	return &CommandTree{
		root: &Node{Subcommands: make(map[string]*Node)},
	}
}

// Register inserts a command and all its subcommands recursively.
func (t *CommandTree) Register(cmd Command) {
	t.insert(t.root, cmd)
}

// Get returns a command by name or alias.
func (t *CommandTree) Get(name string) (Command, bool) {
	node, ok := t.root.Subcommands[name]
	if !ok {
		return nil, false
	}
	return node.Cmd, true
}

// Top returns the distinct top-level commands sorted by name.
func (t *CommandTree) Top() []Command {
	seen := make(map[string]struct{})
	var cmds []Command
	for _, node := range t.root.Subcommands {
		name := node.Cmd.Name()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		cmds = append(cmds, node.Cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	return cmds
}

func (t *CommandTree) insert(node *Node, cmd Command) {
	names := append([]string{cmd.Name()}, cmd.Aliases()...)
	sub := &Node{Cmd: cmd, Subcommands: make(map[string]*Node)}
	for _, sc := range cmd.Subcommands() {
		t.insert(sub, sc)
	}
	for _, n := range names {
		node.Subcommands[n] = sub
	}
}
