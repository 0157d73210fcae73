// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
)

type resetParams struct {
	connectionParams
	Yes bool `json:"yes" flag:"yes,y" desc:"confirm clearing every shift of the month"`
}

func resetCommand(env Environment) *cli.Command {
	var params resetParams
	return &cli.Command{
		Name:    "reset",
		Summary: "Clear every shift of a month",
		Usage:   "dutyroster reset --yes [YYYY-MM]",
		Description: `Ask the server to clear every assignment of a month. A month that is
already empty is left alone. Requires --yes.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			period, err := parsePeriod(args, env)
			if err != nil {
				return err
			}
			if !params.Yes {
				return cli.Validation("resetting %s clears every assignment", period).
					WithHint("pass --yes to confirm")
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

			if !session.HasAnyFilled() {
				fmt.Fprintf(env.Stdout, "%s is already empty\n", period)
				return nil
			}
			if err := session.Reset(ctx); err != nil {
				return classify(err, "resetting "+period.String())
			}
			fmt.Fprintf(env.Stdout, "reset %s\n", period)
			return nil
		},
	}
}
