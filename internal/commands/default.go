// Package commands holds the built-in pipeline commands.
package commands

import "valpipe/internal/command"

// Default returns a registry holding every built-in command.
func Default() *command.Registry {
	r := command.NewRegistry()
	for _, c := range []command.Command{IntoBinary{}, DateHumanize{}} {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
	return r
}
