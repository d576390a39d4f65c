// Package cli implements the bwenv command line.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jongio/bwenv/bitwarden"
	"github.com/jongio/bwenv/cliout"
	"github.com/jongio/bwenv/config"
	"github.com/jongio/bwenv/logutil"
	"github.com/jongio/bwenv/notify"
	"github.com/jongio/bwenv/version"
)

// Dependencies are the collaborators of a run. Nil fields select the real
// implementations.
type Dependencies struct {
	// Runner executes vault commands. Defaults to an ExecRunner for the
	// configured executable.
	Runner    bitwarden.Runner
	Prompter  bitwarden.CredentialPrompter
	Notifier  notify.Notifier
	Getwd     func() (string, error)
	LookupEnv func(string) (string, bool)
	// LogOutput receives log records. Defaults to os.Stderr.
	LogOutput io.Writer
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Prompter == nil {
		d.Prompter = bitwarden.NewTerminalPrompter()
	}
	if d.Notifier == nil {
		d.Notifier = notify.New(notify.DefaultConfig())
	}
	if d.Getwd == nil {
		d.Getwd = os.Getwd
	}
	if d.LookupEnv == nil {
		d.LookupEnv = os.LookupEnv
	}
	if d.LogOutput == nil {
		d.LogOutput = os.Stderr
	}
	return d
}

// flags holds the raw command-line values. Only flags the user set override
// the configuration file.
type flags struct {
	configFile string
	project    string
	envs       []string
	example    string
	outputDir  string
	grouping   config.GroupingMode
	loginMode  config.LoginMode
	email      string
	rawUnlock  bool
	executable string
	dryRun     bool
	notify     bool
	output     string
	debug      bool
	noColor    bool
}

// NewRootCommand builds the bwenv command tree.
func NewRootCommand(info *version.Info, deps Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "bwenv [environment...]",
		Short: "Generate .env files from secrets stored in Bitwarden",
		Long: `bwenv reads variable names from a .env.example template, looks up each
name in the Bitwarden vault and writes one .env.<environment> file per
environment.

Secrets are matched by item name inside the collection (or folder) named
"<project>/<environment>". The item's notes are used as the value, falling
back to the login password. Missing secrets are written with an empty value.

Environment variables:
  BW_PASSWORD       Master password used to unlock the vault
  BW_CLIENTID       API key client ID used to log in
  BW_CLIENTSECRET   API key client secret used to log in
  BWENV_DEBUG       Set to "true" to enable debug logging
  NO_COLOR          Disable colored output`,
		Example: `  bwenv
  bwenv --project myapp --envs dev,staging,prod
  bwenv staging --grouping folder --login-mode email --email me@example.com
  bwenv --dry-run --output json`,
		Args:          cobra.ArbitraryArgs,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if f.noColor {
				cliout.NoColor()
			}
			logutil.SetupLoggerWithWriter(deps.LogOutput, f.debug, false)
			return cliout.SetFormat(f.output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args, deps)
			if err != nil {
				return err
			}
			return execute(cmd.Context(), cfg, deps)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.output, "output", "o", "default", "Output format: default, json")
	pf.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&f.configFile, "config", config.DefaultFile, "Path to the bwenv config file")

	fs := cmd.Flags()
	fs.StringVarP(&f.project, "project", "p", "", "Project name (default: current folder name)")
	fs.StringSliceVarP(&f.envs, "envs", "e", nil, "Environments to generate (default: dev,prod)")
	fs.StringVar(&f.example, "example", "", "Path to the .env.example template (default: .env.example)")
	fs.StringVar(&f.outputDir, "output-dir", "", "Directory receiving the .env.<environment> files (default: .)")
	fs.Var(&f.grouping, "grouping", "Vault grouping holding the secrets: collection, folder (default: collection)")
	fs.Var(&f.loginMode, "login-mode", "Login method when not logged in: apikey, email (default: apikey)")
	fs.StringVar(&f.email, "email", "", "Account email for --login-mode email")
	fs.BoolVar(&f.rawUnlock, "raw-unlock", false, "Read the session token from \"bw unlock --raw\"")
	fs.StringVar(&f.executable, "bw", "", "Path to the Bitwarden CLI executable (default: bw)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Resolve secrets without writing files")
	fs.BoolVar(&f.notify, "notify", false, "Show a desktop notification when done")

	cmd.AddCommand(
		version.NewCommand(info),
		newInitCommand(f, deps),
	)
	return cmd
}

// Execute runs the root command until completion or until ctx is canceled.
func Execute(ctx context.Context, info *version.Info) error {
	return NewRootCommand(info, Dependencies{}).ExecuteContext(ctx)
}

// resolveConfig layers defaults, the config file, the environment and the
// flags that were set on the command line.
func resolveConfig(cmd *cobra.Command, f *flags, args []string, deps Dependencies) (*config.Config, error) {
	cwd, err := deps.Getwd()
	if err != nil {
		return nil, err
	}
	cwd, _ = filepath.Abs(cwd)

	cfg := config.Default(cwd)
	found, err := config.Load(f.configFile, cfg)
	if err != nil {
		return nil, err
	}
	if found {
		log.Debug("loaded config file", "path", f.configFile)
	}
	cfg.ApplyEnv(deps.LookupEnv)

	changed := cmd.Flags().Changed
	if changed("project") {
		cfg.Project = f.project
	}
	if changed("envs") {
		cfg.SetEnvironments(f.envs)
	}
	if len(args) > 0 {
		base := cfg.Environments
		if !changed("envs") {
			base = nil
		}
		cfg.SetEnvironments(append(append([]string(nil), base...), args...))
	}
	if changed("example") {
		cfg.Example = f.example
	}
	if changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if changed("grouping") {
		cfg.Grouping = f.grouping
	}
	if changed("login-mode") {
		cfg.Login.Mode = f.loginMode
	}
	if changed("email") {
		cfg.Login.Email = f.email
	}
	if changed("raw-unlock") {
		cfg.RawUnlock = f.rawUnlock
	}
	if changed("bw") {
		cfg.Executable = f.executable
	}
	if changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if changed("notify") {
		cfg.Notify = f.notify
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
