// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
	"github.com/dutymate/dutymate-v2-sub000/lib/export"
)

type exportParams struct {
	connectionParams
	Format   string `json:"format"   flag:"format,f" desc:"xlsx, json, cbor, cbor.zst or cbor.lz4 (default export.format, or the output suffix)"`
	Output   string `json:"output"   flag:"output,o" desc:"file to write, - for stdout (default duty-YYYY-MM.<format> in export.directory)"`
	Revision int    `json:"revision" flag:"revision" desc:"export this history revision instead of the latest (0 for latest)"`
}

// resolve picks the output format and path. An explicit --output
// decides the format by its suffix unless --format is also given, in
// which case the two must agree.
func (params *exportParams) resolve(defaultFormat export.Format) (export.Format, string, error) {
	format := defaultFormat
	if params.Format != "" {
		parsed, err := export.ParseFormat(params.Format)
		if err != nil {
			return 0, "", cli.Validation("%w", err)
		}
		format = parsed
	}
	switch params.Output {
	case "":
		return format, "", nil
	case "-":
		if format == export.FormatXLSX && params.Format == "" {
			return 0, "", cli.Validation("refusing to write a spreadsheet to stdout").
				WithHint("pass --format xlsx to insist, or choose json")
		}
		return format, "-", nil
	}
	suffixFormat, err := export.FormatOf(params.Output)
	if err != nil {
		return 0, "", cli.Validation("%w", err)
	}
	if params.Format != "" && suffixFormat != format {
		return 0, "", cli.Validation("--output %s does not end in %s", params.Output, format.Extension())
	}
	return suffixFormat, params.Output, nil
}

func exportCommand(env Environment) *cli.Command {
	var params exportParams
	return &cli.Command{
		Name:    "export",
		Summary: "Export a month's roster to a file",
		Usage:   "dutyroster export [flags] [YYYY-MM]",
		Description: `Fetch a month and write it with its statistics.

xlsx produces a formatted spreadsheet for printing and sharing. The
json and cbor formats are archives "dutyroster show --from" can render
again; cbor.zst and cbor.lz4 are compressed.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if params.Revision < 0 {
				return cli.Validation("--revision must not be negative")
			}
			period, err := parsePeriod(args, env)
			if err != nil {
				return err
			}
			cfg, backend, logger, err := params.connect(env)
			if err != nil {
				return err
			}
			format, path, err := params.resolve(cfg.ExportFormat())
			if err != nil {
				return err
			}

			var revision *int
			if params.Revision > 0 {
				revision = &params.Revision
			}
			snapshot, err := backend.FetchPeriod(ctx, period, revision)
			if err != nil {
				return classify(err, "fetching "+period.String())
			}
			document := export.NewDocument(snapshot, cfg.RosterCalendar(), env.Clock.Now())

			if path == "-" {
				return export.Write(env.Stdout, format, document)
			}
			if path == "" {
				if err := cfg.EnsureExportDirectory(); err != nil {
					return cli.Internal("%w", err)
				}
				path = filepath.Join(cfg.Export.Directory, export.FileName(period, format))
			}
			if err := export.WriteFile(path, document); err != nil {
				return cli.Internal("%w", err)
			}
			logger.Info("roster exported", "period", period.String(), "format", format.String(), "path", path)
			fmt.Fprintln(env.Stdout, path)
			return nil
		},
	}
}
