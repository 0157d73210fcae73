// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
	"github.com/dutymate/dutymate-v2-sub000/lib/config"
)

type configParams struct {
	Config string `json:"config" flag:"config,c" desc:"config file (default $DUTYROSTER_CONFIG, then the user config directory)"`
}

func configCommand(env Environment) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Inspect the resolved configuration",
		Subcommands: []*cli.Command{
			configShowCommand(env),
			configPathCommand(env),
		},
	}
}

func configShowCommand(env Environment) *cli.Command {
	var params configParams
	return &cli.Command{
		Name:    "show",
		Summary: "Print the effective configuration as YAML",
		Description: `Print the configuration after defaults, the config file and the
DUTYROSTER_* environment variables are applied. The token is redacted.`,
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			cfg, err := config.Load(params.Config)
			if err != nil {
				return cli.Validation("%w", err)
			}
			encoded, err := yaml.Marshal(displayConfig(cfg))
			if err != nil {
				return cli.Internal("encoding config: %w", err)
			}
			_, err = env.Stdout.Write(encoded)
			return err
		},
	}
}

func configPathCommand(env Environment) *cli.Command {
	var params configParams
	return &cli.Command{
		Name:    "path",
		Summary: "Print the config file in use",
		Params:  func() any { return &params },
		Run: func(_ context.Context, _ []string) error {
			cfg, err := config.Load(params.Config)
			if err != nil {
				return cli.Validation("%w", err)
			}
			if cfg.Path == "" {
				fmt.Fprintf(env.Stdout, "%s (not present, defaults apply)\n", config.DefaultPath())
				return nil
			}
			fmt.Fprintln(env.Stdout, cfg.Path)
			return nil
		},
	}
}

// displayConfig mirrors the file layout with durations in their
// string form and the token hidden.
func displayConfig(cfg *config.Config) map[string]any {
	token := ""
	if cfg.ResolveToken() != "" {
		token = "(set)"
	}
	holidays := make([]map[string]string, 0, len(cfg.Calendar.Holidays))
	for _, entry := range cfg.Calendar.Holidays {
		holiday := map[string]string{"date": entry.Date}
		if entry.Name != "" {
			holiday["name"] = entry.Name
		}
		holidays = append(holidays, holiday)
	}
	return map[string]any{
		"server": map[string]any{
			"base_url":  cfg.Server.BaseURL,
			"token":     token,
			"token_env": cfg.Server.TokenEnv,
			"timeout":   cfg.Server.Timeout.String(),
		},
		"editor": map[string]any{
			"quiet_period":     cfg.Editor.QuietPeriod.String(),
			"max_months_ahead": cfg.Editor.MaxMonthsAhead,
			"cell_width":       cfg.Editor.CellWidth,
		},
		"calendar": map[string]any{"holidays": holidays},
		"log":      map[string]any{"level": cfg.Log.Level},
		"export": map[string]any{
			"directory": cfg.Export.Directory,
			"format":    cfg.Export.Format,
		},
	}
}
