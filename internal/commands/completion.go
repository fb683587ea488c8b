// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxFileCompletions caps path suggestions per call.
const maxFileCompletions = 20

// Completer suggests completed input lines.
type Completer struct {
	registry *Registry

	// Extensions limits file suggestions; directories are always offered.
	Extensions []string
}

// NewCompleter creates a completer over the given registry.
func NewCompleter(r *Registry, extensions []string) *Completer {
	return &Completer{registry: r, Extensions: extensions}
}

// Complete returns whole-line candidates for line. Only canonical names are
// offered for the command word; a path is completed once a file command and
// a space have been typed.
func (c *Completer) Complete(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}

	space := strings.IndexByte(line, ' ')
	if space == -1 {
		prefix := strings.ToLower(line)
		var out []string
		for _, cmd := range c.registry.All() {
			if strings.HasPrefix(cmd.Name, prefix) {
				suffix := ""
				if cmd.Arg != ArgNone {
					suffix = " "
				}
				out = append(out, cmd.Name+suffix)
			}
		}
		return out
	}

	cmd := c.registry.Get(line[:space])
	if cmd == nil || cmd.Arg != ArgFile {
		return nil
	}
	head := line[:space+1]
	partial := strings.TrimLeft(line[space+1:], " ")
	paths := c.completePath(partial)
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = head + p
	}
	return out
}

func (c *Completer) completePath(partial string) []string {
	dir, prefix := filepath.Split(partial)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil
	}

	lowerPrefix := strings.ToLower(prefix)
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(strings.ToLower(name), lowerPrefix) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if entry.IsDir() {
			out = append(out, dir+name+string(os.PathSeparator))
			continue
		}
		if !c.allowed(name) {
			continue
		}
		out = append(out, dir+name)
	}
	sort.Strings(out)
	if len(out) > maxFileCompletions {
		out = out[:maxFileCompletions]
	}
	return out
}

func (c *Completer) allowed(name string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// CommonPrefix returns the longest prefix shared by all candidates.
func CommonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := candidates[0]
	for _, s := range candidates[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
