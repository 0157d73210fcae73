// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command-line framework of dutyroster.
//
// The central type is [Command]: a named node with optional
// [Command.Subcommands], a parameter struct whose tagged fields become
// pflag flags ([BindFlags]), and a Run function. [Command.Execute]
// routes positional arguments down the tree, parses flags, prints
// structured help, and suggests the closest command or flag name
// (Levenshtein distance at most 3) on a typo.
//
// Errors returned from Run may be categorized with [Validation],
// [Transient] and friends. The category chooses the process exit code
// ([ExitCodeFor]) and a [ToolError] may carry a one-line hint printed
// under the error. [ExitError] exits with a code and no message, for
// commands that already printed their own output.
package cli
