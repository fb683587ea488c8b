// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMMAND NAMES
// =============================================================================

const (
	CmdOpen    = "/open"
	CmdUpload  = "/upload"
	CmdExport  = "/export"
	CmdHistory = "/history"
	CmdHelp    = "/help"
	CmdQuit    = "/quit"
)

// =============================================================================
// COMMAND
// =============================================================================

// ArgKind describes what a command's single argument refers to.
type ArgKind int

const (
	ArgNone ArgKind = iota // takes no argument
	ArgFile                // a filesystem path
)

// Command describes one slash command.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	Arg         ArgKind
	ArgRequired bool
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds the known commands indexed by name and alias.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]string
}

// NewRegistry returns a registry with the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
	for _, cmd := range builtins() {
		r.Register(cmd)
	}
	return r
}

func builtins() []*Command {
	return []*Command{
		{
			Name:        CmdOpen,
			Aliases:     []string{"/o", "/select"},
			Description: "Select a PDF to upload",
			Usage:       "/open <path>",
			Arg:         ArgFile,
			ArgRequired: true,
		},
		{
			Name:        CmdUpload,
			Aliases:     []string{"/u"},
			Description: "Upload the selected PDF",
			Usage:       "/upload",
		},
		{
			Name:        CmdExport,
			Aliases:     []string{"/save"},
			Description: "Write the conversation to a Markdown or JSON file",
			Usage:       "/export <path>",
			Arg:         ArgFile,
			ArgRequired: true,
		},
		{
			Name:        CmdHistory,
			Description: "Show how many turns the conversation holds",
			Usage:       "/history",
		},
		{
			Name:        CmdHelp,
			Aliases:     []string{"/h", "/?"},
			Description: "List commands",
			Usage:       "/help",
		},
		{
			Name:        CmdQuit,
			Aliases:     []string{"/q", "/exit"},
			Description: "Leave the chat",
			Usage:       "/quit",
		},
	}
}

// Register adds or replaces a command. Names are matched case-insensitively.
func (r *Registry) Register(cmd *Command) {
	name := strings.ToLower(cmd.Name)
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[strings.ToLower(alias)] = name
	}
}

// Get looks up a command by name or alias.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if canonical, ok := r.aliases[name]; ok {
		return r.commands[canonical]
	}
	return nil
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every command name and alias, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands)+len(r.aliases))
	for name := range r.commands {
		names = append(names, name)
	}
	for alias := range r.aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// HelpLines renders one aligned line per command.
func (r *Registry) HelpLines() []string {
	cmds := r.All()
	width := 0
	for _, cmd := range cmds {
		if len(cmd.Usage) > width {
			width = len(cmd.Usage)
		}
	}
	lines := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		lines = append(lines, cmd.Usage+strings.Repeat(" ", width-len(cmd.Usage)+2)+cmd.Description)
	}
	return lines
}
