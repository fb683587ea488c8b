// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult is the outcome of parsing one input line.
type ParseResult struct {
	IsCommand bool
	Command   *Command
	Args      []string
	RawArgs   string
	Err       error
}

// Arg returns the first argument or "".
func (r ParseResult) Arg() string {
	if len(r.Args) == 0 {
		return ""
	}
	return r.Args[0]
}

// =============================================================================
// PARSER
// =============================================================================

// Parser turns input lines into commands.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser over the given registry.
func NewParser(r *Registry) *Parser {
	return &Parser{registry: r}
}

// Parse inspects a line. Lines that do not start with a registered command
// name come back with IsCommand false and should be treated as questions.
func (p *Parser) Parse(input string) ParseResult {
	trimmed := strings.TrimSpace(input)
	name := ExtractCommandName(trimmed)
	if name == "" {
		return ParseResult{}
	}
	cmd := p.registry.Get(name)
	if cmd == nil {
		return ParseResult{}
	}

	raw := strings.TrimSpace(strings.TrimPrefix(trimmed, name))
	res := ParseResult{
		IsCommand: true,
		Command:   cmd,
		Args:      splitCommandLine(raw),
		RawArgs:   raw,
	}
	switch {
	case cmd.ArgRequired && len(res.Args) == 0:
		res.Err = errors.Errorf("usage: %s", cmd.Usage)
	case cmd.Arg == ArgNone && len(res.Args) > 0:
		res.Err = errors.Errorf("%s takes no arguments", cmd.Name)
	case len(res.Args) > 1:
		res.Err = errors.Errorf("usage: %s (quote paths that contain spaces)", cmd.Usage)
	}
	return res
}

// splitCommandLine splits on whitespace, honouring single and double quotes
// and backslash escapes inside quotes.
func splitCommandLine(input string) []string {
	var tokens []string
	var current strings.Builder
	inSingle, inDouble, quoted := false, false, false

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			quoted = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			quoted = true
		case r == '\\' && (inSingle || inDouble) && i+1 < len(runes):
			next := runes[i+1]
			if next == '"' || next == '\'' || next == '\\' {
				current.WriteRune(next)
				i++
			} else {
				current.WriteRune(r)
			}
		case unicode.IsSpace(r) && !inSingle && !inDouble:
			if current.Len() > 0 || quoted {
				tokens = append(tokens, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 || quoted {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// =============================================================================
// HELPERS
// =============================================================================

// IsCommand reports whether input starts with a slash.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName returns the leading "/word" of input, or "".
func ExtractCommandName(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ""
	}
	end := strings.IndexFunc(input, unicode.IsSpace)
	if end == -1 {
		return input
	}
	return input[:end]
}
