package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jongio/bwenv/bitwarden"
	"github.com/jongio/bwenv/envfile"
	"github.com/jongio/bwenv/fileutil"
	"github.com/jongio/bwenv/logutil"
	"github.com/jongio/bwenv/security"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".bwenv.yaml"

// DefaultEnvironments are generated when none are configured.
var DefaultEnvironments = []string{"dev", "prod"}

var (
	// ErrNoEnvironments indicates an empty environment list.
	ErrNoEnvironments = errors.New("at least one environment is required")
	// ErrConfigExists is returned by WriteSample when the file already exists.
	ErrConfigExists = errors.New("config file already exists")
)

var log = logutil.NewLogger("config")

// Login holds the non-secret login settings.
type Login struct {
	Mode  LoginMode `yaml:"mode"`
	Email string    `yaml:"email,omitempty"`
}

// Config holds the settings of one run.
type Config struct {
	Project      string       `yaml:"project"`
	Environments []string     `yaml:"environments"`
	Example      string       `yaml:"example"`
	OutputDir    string       `yaml:"outputDir"`
	Grouping     GroupingMode `yaml:"grouping"`
	Login        Login        `yaml:"login"`
	RawUnlock    bool         `yaml:"rawUnlock,omitempty"`
	Executable   string       `yaml:"executable"`
	Notify       bool         `yaml:"notify,omitempty"`

	// DryRun is set per invocation.
	DryRun bool `yaml:"-"`

	// Credentials come from the environment only.
	Credentials bitwarden.Credentials `yaml:"-"`
}

// Default returns the built-in settings for a project rooted at dir. The
// project name defaults to the directory's base name.
func Default(dir string) *Config {
	return &Config{
		Project:      filepath.Base(filepath.Clean(dir)),
		Environments: append([]string(nil), DefaultEnvironments...),
		Example:      envfile.DefaultExample,
		OutputDir:    ".",
		Grouping:     GroupingMode(groupingChoices[0]),
		Login:        Login{Mode: LoginMode(bitwarden.LoginAPIKey)},
		Executable:   bitwarden.DefaultExecutable,
	}
}

// Load overlays the YAML file at path onto cfg. A missing file leaves cfg
// untouched and reports false.
func Load(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("no config file", "path", path)
			return false, nil
		}
		return false, fmt.Errorf("failed to read config: %w", err)
	}

	if err := security.ValidateFilePermissions(path); errors.Is(err, security.ErrInsecureFilePermissions) {
		log.Warn("config file is writable by other users", "path", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

// ApplyEnv reads credentials from the environment through lookup, which
// normally is os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(bitwarden.PasswordEnv); ok {
		c.Credentials.MasterPassword = v
	}
	if v, ok := lookup(bitwarden.ClientIDEnv); ok {
		c.Credentials.ClientID = v
	}
	if v, ok := lookup(bitwarden.ClientSecretEnv); ok {
		c.Credentials.ClientSecret = v
	}
}

// SetEnvironments replaces the environment list. Each value may itself be a
// comma-separated list; blanks are dropped.
func (c *Config) SetEnvironments(values []string) {
	var envs []string
	for _, v := range values {
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				envs = append(envs, e)
			}
		}
	}
	c.Environments = envs
}

// Validate checks the settings before any vault command runs.
func (c *Config) Validate() error {
	if err := security.ValidateProjectName(c.Project); err != nil {
		return err
	}
	if len(c.Environments) == 0 {
		return ErrNoEnvironments
	}
	for _, env := range c.Environments {
		if err := security.ValidateEnvironmentName(env); err != nil {
			return err
		}
	}
	if c.Example == "" {
		return errors.New("example template path cannot be empty")
	}
	if c.Executable == "" {
		return errors.New("vault executable cannot be empty")
	}
	if _, err := choose(string(c.Grouping), groupingChoices); err != nil {
		return fmt.Errorf("grouping: %w", err)
	}
	if _, err := choose(string(c.Login.Mode), loginChoices); err != nil {
		return fmt.Errorf("login mode: %w", err)
	}
	return nil
}

// SessionOptions converts the settings for bitwarden.NewSessionManager.
func (c *Config) SessionOptions() bitwarden.SessionOptions {
	creds := c.Credentials
	creds.Email = c.Login.Email
	return bitwarden.SessionOptions{
		LoginMode:   bitwarden.LoginMode(c.Login.Mode),
		Credentials: creds,
		RawUnlock:   c.RawUnlock,
	}
}

// WriteSample writes cfg as a starter config file. An existing file is never
// overwritten.
func WriteSample(path string, cfg *Config) error {
	if fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := "# bwenv configuration. Secrets are read from BW_PASSWORD, BW_CLIENTID and\n# BW_CLIENTSECRET or prompted for; never store them here.\n"
	if err := fileutil.AtomicWriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
