// Package catalog holds the immutable vocabulary used for completion and
// hover: block names, commands, math commands, packages, snippets and
// descriptive records.
package catalog

import (
	"slices"
	"sync"
)

// Info describes a command or a block for hover.
type Info struct {
	Description string `json:"description" yaml:"description"`
	Syntax      string `json:"syntax" yaml:"syntax"`
	Example     string `json:"example,omitempty" yaml:"example,omitempty"`
	Package     string `json:"package,omitempty" yaml:"package,omitempty"`
}

// Snippet is a multi-line command skeleton. In Template every line after the
// first starts with one tab per indentation step relative to the line the
// snippet is inserted on, and every "{}" is a placeholder slot.
type Snippet struct {
	Label    string
	Detail   string
	Info     string
	Template string
}

// Extension adds entries to a catalog.
type Extension struct {
	Environments    []string
	Commands        []string
	MathCommands    []string
	Packages        []string
	CommandInfo     map[string]Info
	EnvironmentInfo map[string]Info
}

// Catalog is read-only once built. Slices returned by its accessors must not
// be modified.
type Catalog struct {
	environments []string
	commands     []string
	mathCommands []string
	packages     []string
	snippets     []Snippet
	commandInfo  map[string]Info
	envInfo      map[string]Info
}

var builtin = sync.OnceValue(func() *Catalog {
	return &Catalog{
		environments: environments,
		commands:     commands,
		mathCommands: mathCommands,
		packages:     packages,
		snippets:     snippets,
		commandInfo:  commandInfo,
		envInfo:      environmentInfo,
	}
})

// Default returns the built-in catalog.
func Default() *Catalog { return builtin() }

func (c *Catalog) Environments() []string { return c.environments }

func (c *Catalog) Commands() []string { return c.commands }

func (c *Catalog) MathCommands() []string { return c.mathCommands }

func (c *Catalog) Packages() []string { return c.packages }

func (c *Catalog) Snippets() []Snippet { return c.snippets }

// CommandInfo looks up a command by its full text, backslash included.
func (c *Catalog) CommandInfo(name string) (Info, bool) {
	info, ok := c.commandInfo[name]
	return info, ok
}

// EnvironmentInfo looks up a block by name.
func (c *Catalog) EnvironmentInfo(name string) (Info, bool) {
	info, ok := c.envInfo[name]
	return info, ok
}

// Extend returns a new catalog holding the entries of c followed by the new
// entries of ext. Info records of ext replace those of c.
func (c *Catalog) Extend(ext Extension) *Catalog {
	return &Catalog{
		environments: merge(c.environments, ext.Environments),
		commands:     merge(c.commands, ext.Commands),
		mathCommands: merge(c.mathCommands, ext.MathCommands),
		packages:     merge(c.packages, ext.Packages),
		snippets:     c.snippets,
		commandInfo:  mergeInfo(c.commandInfo, ext.CommandInfo),
		envInfo:      mergeInfo(c.envInfo, ext.EnvironmentInfo),
	}
}

func merge(base, extra []string) []string {
	out := slices.Clone(base)
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, s := range base {
		seen[s] = struct{}{}
	}
	for _, s := range extra {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func mergeInfo(base, extra map[string]Info) map[string]Info {
	out := make(map[string]Info, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
