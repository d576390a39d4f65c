package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/jongio/bwenv/bitwarden"
	"github.com/jongio/bwenv/cliout"
	"github.com/jongio/bwenv/envfile"
	"github.com/jongio/bwenv/fileutil"
	"github.com/jongio/bwenv/logutil"
	"github.com/jongio/bwenv/secrets"
)

var log = logutil.NewLogger("generator")

// ErrWriteFailed marks a failure to write one environment file. It is fatal
// for that environment only.
var ErrWriteFailed = errors.New("env file not written")

// Options configures a Generator.
type Options struct {
	// OutputDir is the directory receiving the .env.<env> files. Defaults to ".".
	OutputDir string
	// DryRun resolves every key without writing files.
	DryRun bool
	// Reporter receives progress notifications. Defaults to ConsoleReporter.
	Reporter Reporter
}

// Result describes the outcome for one environment.
type Result struct {
	Environment string   `json:"environment"`
	Path        string   `json:"path"`
	Keys        int      `json:"keys"`
	Missing     []string `json:"missing,omitempty"`
	Written     bool     `json:"written"`
	Error       string   `json:"error,omitempty"`
}

// Generator writes environment files from resolved secrets.
type Generator struct {
	resolver *secrets.Resolver
	opts     Options
}

// New creates a Generator.
func New(resolver *secrets.Resolver, opts Options) *Generator {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Reporter == nil {
		opts.Reporter = ConsoleReporter{}
	}
	return &Generator{resolver: resolver, opts: opts}
}

// WriteEnvFile resolves keys in order and atomically writes
// <OutputDir>/.env.<env> with one KEY=VALUE line per key. Missing secrets are
// written with an empty value.
func (g *Generator) WriteEnvFile(ctx context.Context, session bitwarden.Session, project, env string, keys []string) (*Result, error) {
	path := envfile.PathFor(g.opts.OutputDir, env)
	result := &Result{Environment: env, Path: path, Keys: len(keys)}

	resolutions, warnings, err := g.resolver.ResolveAll(ctx, session, project, env, keys)
	if err != nil {
		return result, err
	}

	missing := make(map[string]secrets.Warning, len(warnings))
	for _, w := range warnings {
		missing[w.Key] = w
	}

	entries := make([]envfile.Entry, 0, len(resolutions))
	for _, r := range resolutions {
		g.opts.Reporter.Resolving(env, r.Key)
		if !r.Found {
			if w, ok := missing[r.Key]; ok {
				g.opts.Reporter.SecretMissing(env, r.Key, w.Group)
			}
			result.Missing = append(result.Missing, r.Key)
		}
		entries = append(entries, envfile.Entry{Key: r.Key, Value: r.Value})
	}

	if g.opts.DryRun {
		printDryRun(env, resolutions)
		return result, nil
	}

	if err := fileutil.EnsureDir(g.opts.OutputDir); err != nil {
		return result, fmt.Errorf("%w: failed to create output directory: %w", ErrWriteFailed, err)
	}
	if err := envfile.Write(path, entries); err != nil {
		return result, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	result.Written = true
	log.WithEnvironment(env).Debug("env file written", "path", path, "keys", len(entries), "missing", len(result.Missing))
	g.opts.Reporter.FileWritten(env, path)
	return result, nil
}

// Run generates every environment in order. A failure to write a file is
// recorded on the environment's Result and the remaining environments are
// still processed; those errors are returned joined. Any other failure, such
// as a vault command error, stops the run immediately.
func (g *Generator) Run(ctx context.Context, session bitwarden.Session, project string, envs, keys []string) ([]Result, error) {
	results := make([]Result, 0, len(envs))
	var errs []error

	for _, env := range envs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := g.WriteEnvFile(ctx, session, project, env, keys)
		if err != nil {
			result.Error = err.Error()
			results = append(results, *result)
			if !errors.Is(err, ErrWriteFailed) {
				return results, fmt.Errorf("environment %s: %w", env, err)
			}
			log.WithEnvironment(env).Warn("environment skipped", "error", err)
			errs = append(errs, fmt.Errorf("environment %s: %w", env, err))
			continue
		}
		results = append(results, *result)
	}

	return results, errors.Join(errs...)
}

func printDryRun(env string, resolutions []secrets.Resolution) {
	if cliout.IsJSON() {
		return
	}
	rows := make([]cliout.TableRow, 0, len(resolutions))
	for _, r := range resolutions {
		status := "found"
		if !r.Found {
			status = "missing"
		}
		rows = append(rows, cliout.TableRow{"Key": r.Key, "Status": status})
	}
	cliout.Header(fmt.Sprintf("Dry run: %s", env))
	cliout.Table([]string{"Key", "Status"}, rows)
}
