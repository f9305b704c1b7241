package registry

import (
	"errors"

	"github.com/rs/zerolog/log"
)

var (
	// ErrUnknownCommand means no command with that name was registered.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrArgumentIndex means the command exists but has no argument at the
	// requested position.
	ErrArgumentIndex = errors.New("argument index out of range")
)

// Argument is one positional argument of a command.
type Argument struct {
	// Names are the accepted call-time spellings for this position.
	Names []string
	// Index is the 0-based position in the command's declaration.
	Index int
	// Convert is derived by the checker: true only when every alias of this
	// argument appears in the conversion table.
	Convert bool
}

// Command is one dispatch-table entry with its arguments in declaration order.
type Command struct {
	Name string
	Args []*Argument
}

// Registry indexes extracted commands by name while preserving encounter
// order for deterministic iteration.
type Registry struct {
	byName map[string]*Command
	order  []*Command
}

func New() *Registry {
	return &Registry{byName: make(map[string]*Command)}
}

// Register builds a Command from its per-position alias lists and indexes it.
// A duplicate name is last-write-wins: the new declaration replaces the old
// one in place, keeping the first occurrence's position in iteration order.
func (r *Registry) Register(name string, aliasLists [][]string) *Command {
	cmd := &Command{Name: name, Args: make([]*Argument, 0, len(aliasLists))}
	for idx, names := range aliasLists {
		cmd.Args = append(cmd.Args, &Argument{Names: names, Index: idx})
	}

	if old, ok := r.byName[name]; ok {
		log.Warn().Str("command", name).Msg("Duplicate dispatch table entry, later declaration wins")
		for i, c := range r.order {
			if c == old {
				r.order[i] = cmd
				break
			}
		}
	} else {
		r.order = append(r.order, cmd)
	}
	r.byName[name] = cmd

	return cmd
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// LookupArgument resolves a (command, index) pair, distinguishing an unknown
// command from a known command with too few arguments.
func (r *Registry) LookupArgument(name string, idx int) (*Argument, error) {
	cmd, ok := r.byName[name]
	if !ok {
		return nil, ErrUnknownCommand
	}
	if idx < 0 || idx >= len(cmd.Args) {
		return nil, ErrArgumentIndex
	}
	return cmd.Args[idx], nil
}

// Commands returns all registered commands in encounter order.
func (r *Registry) Commands() []*Command {
	return r.order
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.order)
}
