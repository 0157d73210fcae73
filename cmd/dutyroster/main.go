// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// dutyroster edits and exports a ward's monthly nurse duty roster.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/commands"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := commands.Root(commands.DefaultEnvironment()).Execute(ctx, os.Args[1:])
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	if hint := cli.HintOf(err); hint != "" {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
	return cli.ExitCodeFor(err)
}
