// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

type autogenParams struct {
	connectionParams
	cli.JSONOutput
	Force bool `json:"force" flag:"force" desc:"generate even when the ward is short of nurses"`
}

// autogenResult is the --json form of an auto-generate run.
type autogenResult struct {
	Period       string `json:"period"`
	Outcome      string `json:"outcome"`
	NeededNurses int    `json:"neededNurses,omitempty"`
	Progress     int    `json:"progress"`
	InvalidCount int    `json:"invalidCount"`
}

func autogenCommand(env Environment) *cli.Command {
	var params autogenParams
	return &cli.Command{
		Name:    "autogen",
		Summary: "Let the server generate a month's roster",
		Usage:   "dutyroster autogen [flags] [YYYY-MM]",
		Description: `Ask the server to fill a month according to the ward rules. Unsaved
state is replaced by what the server generates.

When the ward has too few nurses for its rules the command fails with
the shortfall; --force generates anyway.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			period, err := parsePeriod(args, env)
			if err != nil {
				return err
			}
			cfg, backend, logger, err := params.connect(env)
			if err != nil {
				return err
			}
			session, err := openSession(ctx, env, cfg, backend, logger, period)
			if err != nil {
				return err
			}
			defer session.Close()

			outcome, err := session.AutoGenerate(ctx, params.Force)
			if err != nil {
				return classify(err, "auto-generating "+period.String())
			}
			view := session.View()
			result := autogenResult{
				Period:       period.String(),
				Outcome:      outcome.Kind.String(),
				NeededNurses: outcome.NeededNurses,
				Progress:     view.Metrics.Progress,
				InvalidCount: view.Snapshot.InvalidCount,
			}
			if outcome.Kind == roster.OutcomeInsufficientStaff {
				return cli.Conflict("%s: %d more nurses are needed to meet the staffing rules", period, outcome.NeededNurses).
					WithHint("add nurses to the ward, or pass --force to generate anyway")
			}
			if done, err := params.EmitJSON(env.Stdout, result); done {
				return err
			}
			switch outcome.Kind {
			case roster.OutcomeAlreadyOptimal:
				fmt.Fprintf(env.Stdout, "%s already satisfies every rule; nothing regenerated\n", period)
			default:
				fmt.Fprintf(env.Stdout, "generated %s: %d%% complete, %d rule violations\n",
					period, result.Progress, result.InvalidCount)
			}
			return nil
		},
	}
}
