// Package terminal implements the decorative terminal widget: a closed set
// of skill categories, each revealed line by line on a fixed cadence as if
// typed at a prompt.
package terminal

import (
	"errors"
	"fmt"
)

// Category identifies one skill area shown by the terminal.
type Category string

// Categories shipped with the default portfolio content.
const (
	Vision Category = "vision"
	Web    Category = "web"
	Data   Category = "data"
	Micro  Category = "micro"
)

// Command is the static configuration for one category: the button title,
// the decorative invocation echoed at the prompt and the lines it prints.
type Command struct {
	Category   Category `yaml:"category" json:"category"`
	Invocation string   `yaml:"cmd" json:"cmd"`
	Title      string   `yaml:"title" json:"title"`
	Lines      []string `yaml:"lines" json:"lines"`
}

// Header returns the two transcript lines printed before any output.
func (c Command) Header() []string {
	return []string{"$ " + c.Invocation, ""}
}

// Transcript returns the fully revealed transcript for the command.
func (c Command) Transcript() []string {
	out := make([]string, 0, 2+len(c.Lines))
	out = append(out, c.Header()...)
	return append(out, c.Lines...)
}

// Catalog is an ordered, immutable set of commands keyed by category.
type Catalog struct {
	commands []Command
	index    map[Category]int
}

// NewCatalog validates commands and returns a catalog. The first command
// is the default category.
func NewCatalog(commands []Command) (*Catalog, error) {
	if len(commands) == 0 {
		return nil, errors.New("terminal: catalog needs at least one command")
	}
	c := &Catalog{
		commands: make([]Command, len(commands)),
		index:    make(map[Category]int, len(commands)),
	}
	for i, cmd := range commands {
		if cmd.Category == "" {
			return nil, fmt.Errorf("terminal: command %d has no category", i)
		}
		if _, dup := c.index[cmd.Category]; dup {
			return nil, fmt.Errorf("terminal: duplicate category %q", cmd.Category)
		}
		cmd.Lines = append([]string(nil), cmd.Lines...)
		c.commands[i] = cmd
		c.index[cmd.Category] = i
	}
	return c, nil
}

// Lookup returns the command for category.
func (c *Catalog) Lookup(category Category) (Command, bool) {
	i, ok := c.index[category]
	if !ok {
		return Command{}, false
	}
	return c.commands[i], true
}

// Commands returns the commands in display order.
func (c *Catalog) Commands() []Command {
	return append([]Command(nil), c.commands...)
}

// Default returns the category shown when nothing was selected.
func (c *Catalog) Default() Category {
	return c.commands[0].Category
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.commands) }

// At returns the i-th category in display order.
func (c *Catalog) At(i int) Category { return c.commands[i].Category }

// IndexOf returns the display position of category, or -1.
func (c *Catalog) IndexOf(category Category) int {
	i, ok := c.index[category]
	if !ok {
		return -1
	}
	return i
}
