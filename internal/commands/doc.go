// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command set shared by the
// interactive front-ends.
//
// The package is front-end neutral: it names the commands, parses input
// lines into a ParseResult and completes partial input. Dispatch is left
// to the caller, which switches on Command.Name.
//
//	reg := commands.NewRegistry()
//	res := commands.NewParser(reg).Parse("/open \"My Paper.pdf\"")
//	if res.IsCommand && res.Err == nil {
//		switch res.Command.Name {
//		case commands.CmdOpen:
//			// res.Args[0] == "My Paper.pdf"
//		}
//	}
//
// Input that starts with "/" but does not name a registered command is not
// treated as a command, so a question such as "/etc/hosts looks odd?" is
// still sent to the backend.
package commands
