// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
	"github.com/dutymate/dutymate-v2-sub000/lib/config"
	"github.com/dutymate/dutymate-v2-sub000/lib/dutyclient"
	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// connectionParams are the flags every API command shares. Flags win
// over the environment, which wins over the config file.
type connectionParams struct {
	Config   string `json:"config"    flag:"config,c"  desc:"config file (default $DUTYROSTER_CONFIG, then the user config directory)"`
	BaseURL  string `json:"base_url"  flag:"base-url"  desc:"API root, overriding server.base_url"`
	Token    string `json:"-"         flag:"token"     desc:"bearer token, overriding server.token"`
	LogLevel string `json:"log_level" flag:"log-level" desc:"debug, info, warn or error"`
}

// loadConfig resolves the configuration and applies flag overrides.
func (params connectionParams) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(params.Config)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	overridden := false
	if params.BaseURL != "" {
		cfg.Server.BaseURL = params.BaseURL
		overridden = true
	}
	if params.Token != "" {
		cfg.Server.Token = params.Token
	}
	if params.LogLevel != "" {
		cfg.Log.Level = params.LogLevel
		overridden = true
	}
	if overridden {
		if err := cfg.Validate(); err != nil {
			return nil, cli.Validation("%w", err)
		}
	}
	return cfg, nil
}

// connect loads the configuration and builds the backend and a
// command logger on env.Stderr.
func (params connectionParams) connect(env Environment) (*config.Config, editor.Backend, *slog.Logger, error) {
	cfg, err := params.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	level, _ := cfg.LogLevel()
	logger := cli.NewCommandLogger(env.Stderr, level)
	backend, err := env.NewBackend(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, backend, logger, nil
}

// openSession starts an editing session on period for the headless
// commands. The caller closes it.
func openSession(ctx context.Context, env Environment, cfg *config.Config, backend editor.Backend, logger *slog.Logger, period roster.Period) (*editor.Session, error) {
	session := editor.New(editor.Config{
		Backend:        backend,
		Calendar:       cfg.RosterCalendar(),
		QuietPeriod:    cfg.Editor.QuietPeriod,
		MaxMonthsAhead: cfg.Editor.MaxMonthsAhead,
		Clock:          env.Clock,
		Logger:         logger,
	})
	if err := session.Open(ctx, period); err != nil {
		session.Close()
		return nil, classify(err, "loading "+period.String())
	}
	return session, nil
}

// parsePeriod reads an optional YYYY-MM argument; none means the
// current month.
func parsePeriod(args []string, env Environment) (roster.Period, error) {
	switch len(args) {
	case 0:
		return roster.PeriodOf(env.Clock.Now()), nil
	case 1:
		period, err := roster.ParsePeriod(args[0])
		if err != nil {
			return roster.Period{}, cli.Validation("%w", err).WithHint("months are written YYYY-MM, e.g. 2026-10")
		}
		return period, nil
	default:
		return roster.Period{}, cli.Validation("expected at most one month argument, got %d", len(args))
	}
}

// classify turns a backend failure into a categorized error.
func classify(err error, action string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case editor.IsAuthExpired(err), errors.Is(err, editor.ErrAuthExpired):
		return (&cli.ToolError{Category: cli.CategoryForbidden, Err: fmt.Errorf("%s: %w", action, err)}).
			WithHint("the login has expired; sign in to Dutymate again and update the token")
	case dutyclient.IsNotFound(err):
		return &cli.ToolError{Category: cli.CategoryNotFound, Err: fmt.Errorf("%s: %w", action, err)}
	case errors.Is(err, os.ErrNotExist):
		return &cli.ToolError{Category: cli.CategoryNotFound, Err: fmt.Errorf("%s: %w", action, err)}
	case dutyclient.IsRetryable(err):
		return (&cli.ToolError{Category: cli.CategoryTransient, Err: fmt.Errorf("%s: %w", action, err)}).
			WithHint("the server did not answer; try again shortly")
	default:
		return &cli.ToolError{Category: cli.CategoryInternal, Err: fmt.Errorf("%s: %w", action, err)}
	}
}
