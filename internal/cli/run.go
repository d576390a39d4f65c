package cli

import (
	"context"
	"fmt"

	"github.com/jongio/bwenv/bitwarden"
	"github.com/jongio/bwenv/cliout"
	"github.com/jongio/bwenv/config"
	"github.com/jongio/bwenv/envfile"
	"github.com/jongio/bwenv/generator"
	"github.com/jongio/bwenv/logutil"
	"github.com/jongio/bwenv/notify"
	"github.com/jongio/bwenv/pathutil"
	"github.com/jongio/bwenv/secrets"
)

var log = logutil.NewLogger("cli")

// Summary is the outcome of a run, printed as JSON with --output json.
type Summary struct {
	Project      string             `json:"project"`
	Grouping     string             `json:"grouping"`
	DryRun       bool               `json:"dryRun,omitempty"`
	Keys         []string           `json:"keys"`
	Environments []generator.Result `json:"environments"`
}

// Written counts the environment files that were written.
func (s *Summary) Written() int {
	n := 0
	for _, r := range s.Environments {
		if r.Written {
			n++
		}
	}
	return n
}

// Missing counts the missing secrets across all environments.
func (s *Summary) Missing() int {
	n := 0
	for _, r := range s.Environments {
		n += len(r.Missing)
	}
	return n
}

// execute runs one generation and prints the summary.
func execute(ctx context.Context, cfg *config.Config, deps Dependencies) error {
	summary, err := Run(ctx, cfg, deps)

	if cfg.Notify {
		n := notify.Summary(cfg.Project, summary.Written(), summary.Missing(), err)
		if nerr := deps.Notifier.Send(ctx, n); nerr != nil {
			log.Warn("desktop notification failed", "error", nerr)
		}
	}

	if err != nil {
		return err
	}

	return cliout.Print(summary, func() {
		if cfg.DryRun {
			cliout.Info("Dry run complete: %d environment(s) resolved, %d secret(s) missing.", len(summary.Environments), summary.Missing())
			return
		}
		if missing := summary.Missing(); missing > 0 {
			cliout.Warning("%d secret(s) missing; their variables were written with empty values.", missing)
		}
	})
}

// Run logs in, unlocks the vault, generates every environment file and locks
// the vault again. The vault is locked whenever unlocking succeeded, including
// when generation fails.
func Run(ctx context.Context, cfg *config.Config, deps Dependencies) (*Summary, error) {
	summary := &Summary{
		Project:  cfg.Project,
		Grouping: string(cfg.Grouping),
		DryRun:   cfg.DryRun,
	}

	runner := deps.Runner
	if runner == nil {
		executable, err := pathutil.ResolveExecutable(cfg.Executable)
		if err != nil {
			return summary, err
		}
		runner = bitwarden.NewExecRunner(executable)
	}
	client := bitwarden.NewClient(runner)
	sessions := bitwarden.NewSessionManager(client, deps.Prompter, cfg.SessionOptions())

	loggedIn, err := sessions.EnsureLogin(ctx)
	if err != nil {
		return summary, fmt.Errorf("login failed: %w", err)
	}
	if loggedIn {
		status("Logged in to Bitwarden.")
	}

	status("Unlocking vault...")
	session, err := sessions.Unlock(ctx)
	if err != nil {
		return summary, fmt.Errorf("unlock failed: %w", err)
	}
	defer func() {
		if err := sessions.Lock(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to lock vault", "error", err)
			if !cliout.IsJSON() {
				cliout.Warning("Failed to lock the vault: %v", err)
			}
			return
		}
		status("Vault locked.")
	}()

	keys, err := envfile.ParseExample(cfg.Example)
	if err != nil {
		return summary, err
	}
	summary.Keys = keys
	log.Debug("parsed template", "path", cfg.Example, "keys", len(keys))

	strategy, err := secrets.StrategyFor(string(cfg.Grouping))
	if err != nil {
		return summary, err
	}
	groups, err := secrets.BuildGroupingMap(ctx, client, session, strategy)
	if err != nil {
		return summary, err
	}

	gen := generator.New(secrets.NewResolver(client, strategy, groups), generator.Options{
		OutputDir: cfg.OutputDir,
		DryRun:    cfg.DryRun,
	})
	results, err := gen.Run(ctx, session, cfg.Project, cfg.Environments, keys)
	summary.Environments = results
	return summary, err
}

// status prints a progress line unless JSON output was requested.
func status(format string, args ...any) {
	if cliout.IsJSON() {
		return
	}
	cliout.Info(format, args...)
}
