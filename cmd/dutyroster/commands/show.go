// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
	"github.com/dutymate/dutymate-v2-sub000/lib/config"
	"github.com/dutymate/dutymate-v2-sub000/lib/export"
	"github.com/dutymate/dutymate-v2-sub000/lib/overlay"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
	"github.com/dutymate/dutymate-v2-sub000/lib/rosterui"
)

type showParams struct {
	connectionParams
	cli.JSONOutput
	From     string `json:"from"     flag:"from"     desc:"render an exported file (.json, .cbor, .cbor.zst, .cbor.lz4) instead of fetching"`
	Revision int    `json:"revision" flag:"revision" desc:"fetch this history revision instead of the latest (0 for latest)"`
	Color    string `json:"color"    flag:"color"    desc:"colour mode: auto, always or never" default:"auto"`
}

func showCommand(env Environment) *cli.Command {
	var params showParams
	return &cli.Command{
		Name:    "show",
		Summary: "Print a month's roster grid",
		Usage:   "dutyroster show [flags] [YYYY-MM]",
		Description: `Print the roster grid of a month with its per-nurse and per-day
statistics, the way the editor draws it. Violated cells are marked and
requested days underlined.

With --from, the grid comes from an exported file and no API call is
made. With --json, the export document is printed instead of the grid.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if params.Revision < 0 {
				return cli.Validation("--revision must not be negative")
			}
			cfg, frame, document, err := params.frame(ctx, env, args)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(env.Stdout, document); done {
				return err
			}
			profile, err := rosterui.ColorProfile(params.Color, env.Stdout)
			if err != nil {
				return cli.Validation("%w", err)
			}
			lipgloss.SetColorProfile(profile)
			_, err = io.WriteString(env.Stdout,
				rosterui.RenderGrid(frame, rosterui.DefaultTheme, rosterui.RenderOptions{CellWidth: cfg.Editor.CellWidth})+"\n")
			return err
		},
	}
}

// frame loads the grid either from --from or from the API.
func (params *showParams) frame(ctx context.Context, env Environment, args []string) (*config.Config, rosterui.Frame, export.Document, error) {
	cfg, err := params.loadConfig()
	if err != nil {
		return nil, rosterui.Frame{}, export.Document{}, err
	}
	calendar := cfg.RosterCalendar()

	if params.From != "" {
		if len(args) > 0 {
			return nil, rosterui.Frame{}, export.Document{}, cli.Validation("--from takes no month argument")
		}
		document, err := export.ReadFile(params.From)
		if err != nil {
			return nil, rosterui.Frame{}, export.Document{}, classify(err, "reading "+params.From)
		}
		rules := roster.DefaultRules()
		return cfg, rosterui.DocumentFrame(document, calendar, &rules), document, nil
	}

	period, err := parsePeriod(args, env)
	if err != nil {
		return nil, rosterui.Frame{}, export.Document{}, err
	}
	_, backend, logger, err := params.connect(env)
	if err != nil {
		return nil, rosterui.Frame{}, export.Document{}, err
	}
	var revision *int
	if params.Revision > 0 {
		revision = &params.Revision
	}
	snapshot, err := backend.FetchPeriod(ctx, period, revision)
	if err != nil {
		return nil, rosterui.Frame{}, export.Document{}, classify(err, "fetching "+period.String())
	}
	document := export.NewDocument(snapshot, calendar, env.Clock.Now())

	frame := rosterui.Frame{
		Snapshot: snapshot,
		Metrics:  document.Metrics,
		Calendar: calendar,
		OffDays:  document.OffDays,
	}
	// Rules and requests only decorate the grid; a failure is logged
	// and the grid printed without them.
	if rules, err := backend.FetchRules(ctx); err == nil {
		frame.Rules = &rules
	} else {
		logger.Warn("fetching ward rules failed", "error", err)
	}
	var requests []roster.RequestStatus
	if dated, err := backend.FetchRequests(ctx); err == nil {
		requests = roster.RequestsIn(period, dated)
	} else {
		logger.Warn("fetching shift requests failed", "error", err)
	}
	frame.Overlay = overlay.Build(snapshot.Grid.Days(), snapshot.Violations, requests)
	return cfg, frame, document, nil
}
