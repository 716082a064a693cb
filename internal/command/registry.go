package command

import (
	"fmt"
	"sort"
)

// Registry maps command names to commands.
type Registry struct {
	cmds map[string]Command
}

func NewRegistry() *Registry { return &Registry{cmds: map[string]Command{}} }

// Register adds cmd; names must be unique.
func (r *Registry) Register(cmd Command) error {
	name := cmd.Name()
	if _, dup := r.cmds[name]; dup {
		return fmt.Errorf("command %q already registered", name)
	}
	r.cmds[name] = cmd
	return nil
}

func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.cmds[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
