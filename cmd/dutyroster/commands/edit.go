// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/rosterui"
)

type editParams struct {
	connectionParams
	Color string `json:"color" flag:"color" desc:"colour mode: auto, always or never" default:"auto"`
}

func editCommand(env Environment) *cli.Command {
	var params editParams
	return &cli.Command{
		Name:    "edit",
		Summary: "Edit a month's roster interactively",
		Usage:   "dutyroster edit [flags] [YYYY-MM]",
		Description: `Open the roster grid editor on a month, the current one by default.

Click or use the arrow keys to select a cell and type a shift letter
(D, E, N, O, or X to clear; the Korean 2-set keys ㅇ ㄷ ㅜ ㅐ ㅌ work
too). Edits are sent in batches once typing pauses. Press ? in
the editor for every key.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			period, err := parsePeriod(args, env)
			if err != nil {
				return err
			}
			if !cli.IsTerminal(env.Stdout) {
				return cli.Validation("the editor needs a terminal").
					WithHint("use \"dutyroster show\" or \"dutyroster export\" when output is redirected")
			}
			cfg, err := params.loadConfig()
			if err != nil {
				return err
			}
			profile, err := rosterui.ColorProfile(params.Color, env.Stdout)
			if err != nil {
				return cli.Validation("%w", err)
			}
			lipgloss.SetColorProfile(profile)

			// Records go to the status line while the alternate screen
			// owns the terminal.
			level, _ := cfg.LogLevel()
			handler := rosterui.NewTUILogHandler(level)
			logger := slog.New(handler)
			backend, err := env.NewBackend(cfg, logger)
			if err != nil {
				return err
			}

			bridge := &rosterui.EventBridge{}
			session := editor.New(editor.Config{
				Backend:        backend,
				Calendar:       cfg.RosterCalendar(),
				QuietPeriod:    cfg.Editor.QuietPeriod,
				MaxMonthsAhead: cfg.Editor.MaxMonthsAhead,
				OnEvent:        bridge.Forward,
				Clock:          env.Clock,
				Logger:         logger,
			})
			model := rosterui.NewModel(rosterui.Config{
				Session: session,
				Period:  period,
				Context: ctx,
				Render:  rosterui.RenderOptions{CellWidth: cfg.Editor.CellWidth},
				Logger:  logger,
			})
			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
				tea.WithOutput(env.Stdout),
			)
			bridge.SetProgram(program)
			handler.SetProgram(program)

			final, runErr := program.Run()
			// Close is a no-op when the model already drained the session.
			closeErr := session.Close()
			if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
				return cli.Internal("editor: %w", runErr)
			}
			if finished, ok := final.(rosterui.Model); ok && finished.CloseErr() != nil {
				closeErr = finished.CloseErr()
			}
			if closeErr != nil {
				return classify(closeErr, "saving edits")
			}
			return ctx.Err()
		},
	}
}
