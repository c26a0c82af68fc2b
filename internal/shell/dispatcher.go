package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Handler runs one shell command with its whitespace-separated arguments.
type Handler func(ctx context.Context, args []string) error

// ErrUnknownCommand is returned for names nothing was registered under.
var ErrUnknownCommand = errors.New("unknown command")

type command struct {
	name    string
	usage   string
	summary string
	handler Handler
}

// Dispatcher maps command names of one screen to their handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	commands map[string]command
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{commands: make(map[string]command)}
}

func (d *Dispatcher) Register(name, usage, summary string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands[name] = command{name: name, usage: usage, summary: summary, handler: handler}
}

func (d *Dispatcher) Execute(ctx context.Context, name string, args []string) error {
	d.mu.RLock()
	cmd, ok := d.commands[name]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd.handler(ctx, args)
}

// Help lists registered commands sorted by name.
func (d *Dispatcher) Help() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		cmd := d.commands[name]
		lines = append(lines, fmt.Sprintf("  %-22s %s", cmd.usage, cmd.summary))
	}
	return lines
}
