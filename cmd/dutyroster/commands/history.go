// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
)

type historyParams struct {
	connectionParams
	cli.JSONOutput
}

func historyCommand(env Environment) *cli.Command {
	var params historyParams
	return &cli.Command{
		Name:    "history",
		Summary: "List the recorded changes of a month",
		Usage:   "dutyroster history [flags] [YYYY-MM]",
		Description: `List every cell change the server recorded for a month, oldest
first. The INDEX column is what "dutyroster show --revision" and
"dutyroster export --revision" take.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			period, err := parsePeriod(args, env)
			if err != nil {
				return err
			}
			_, backend, _, err := params.connect(env)
			if err != nil {
				return err
			}
			snapshot, err := backend.FetchPeriod(ctx, period, nil)
			if err != nil {
				return classify(err, "fetching "+period.String())
			}
			if done, err := params.EmitJSON(env.Stdout, snapshot.History); done {
				return err
			}
			if len(snapshot.History) == 0 {
				fmt.Fprintf(env.Stdout, "no changes recorded for %s\n", period)
				return nil
			}
			writer := tabwriter.NewWriter(env.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "INDEX\tNURSE\tDATE\tCHANGE\tSOURCE")
			for _, entry := range snapshot.History {
				source := "manual"
				if entry.Automatic {
					source = "auto"
				}
				fmt.Fprintf(writer, "%d\t%s\t%s\t%c → %c\t%s\n",
					entry.Index, entry.Name,
					period.Date(entry.Day).Format("01-02 Mon"),
					entry.Before.Letter(), entry.After.Letter(), source)
			}
			return writer.Flush()
		},
	}
}
