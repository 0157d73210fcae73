// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the dutyroster command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
	"github.com/dutymate/dutymate-v2-sub000/lib/clock"
	"github.com/dutymate/dutymate-v2-sub000/lib/config"
	"github.com/dutymate/dutymate-v2-sub000/lib/dutyclient"
	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/version"
)

// Environment is the process context commands run in. Tests replace
// the writers, the clock and the backend.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer

	// Clock defaults to clock.Real(). It decides the current month and
	// drives the session's sync timer.
	Clock clock.Clock

	// NewBackend connects to the duty API. Defaults to a dutyclient
	// built from the server section of the configuration.
	NewBackend func(cfg *config.Config, logger *slog.Logger) (editor.Backend, error)
}

// DefaultEnvironment is the real process environment.
func DefaultEnvironment() Environment {
	return Environment{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (env Environment) withDefaults() Environment {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}
	if env.Clock == nil {
		env.Clock = clock.Real()
	}
	if env.NewBackend == nil {
		env.NewBackend = newClientBackend
	}
	return env
}

// newClientBackend builds the HTTP client of the duty API.
func newClientBackend(cfg *config.Config, logger *slog.Logger) (editor.Backend, error) {
	token := cfg.ResolveToken()
	if token == "" {
		return nil, cli.Forbidden("no API token configured").
			WithHint(fmt.Sprintf("set %s, or server.token in %s", cfg.Server.TokenEnv, configPathHint(cfg)))
	}
	client, err := dutyclient.NewClient(dutyclient.Config{
		BaseURL:    cfg.Server.BaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: cfg.Server.Timeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, cli.Validation("%w", err).WithHint("check server.base_url")
	}
	return client, nil
}

func configPathHint(cfg *config.Config) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return config.DefaultPath()
}

// Root builds the complete command tree.
func Root(env Environment) *cli.Command {
	env = env.withDefaults()
	return &cli.Command{
		Name:       "dutyroster",
		HelpOutput: env.Stderr,
		Description: `dutyroster: edit and export a ward's monthly nurse duty roster.

"edit" opens the interactive grid editor; every other command works
headless against the same API and prints to stdout.`,
		Subcommands: []*cli.Command{
			editCommand(env),
			showCommand(env),
			exportCommand(env),
			historyCommand(env),
			resetCommand(env),
			autogenCommand(env),
			configCommand(env),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string) error {
					fmt.Fprintf(env.Stdout, "dutyroster %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{Description: "Edit this month's roster", Command: "dutyroster edit"},
			{Description: "Print next month's roster", Command: "dutyroster show 2026-11"},
			{Description: "Export a month to a spreadsheet", Command: "dutyroster export 2026-10 --output duty.xlsx"},
			{Description: "Render an exported archive without the network", Command: "dutyroster show --from duty-2026-10.cbor.zst"},
			{Description: "Auto-generate, ignoring the staffing check", Command: "dutyroster autogen 2026-11 --force"},
		},
	}
}
