package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jongio/bwenv/bitwarden"
	"github.com/jongio/bwenv/secrets"
)

// GroupingMode selects how vault items are scoped to an environment.
type GroupingMode string

// LoginMode selects how the vault account is authenticated.
type LoginMode string

var (
	_ pflag.Value = (*GroupingMode)(nil)
	_ pflag.Value = (*LoginMode)(nil)
)

var (
	groupingChoices = []string{secrets.GroupingCollection, secrets.GroupingFolder}
	loginChoices    = []string{string(bitwarden.LoginAPIKey), string(bitwarden.LoginEmail)}
)

func (g *GroupingMode) String() string { return string(*g) }

// Set implements pflag.Value.
func (g *GroupingMode) Set(s string) error {
	v, err := choose(s, groupingChoices)
	if err != nil {
		return err
	}
	*g = GroupingMode(v)
	return nil
}

// Type implements pflag.Value.
func (g *GroupingMode) Type() string { return "grouping" }

// UnmarshalYAML validates the mode when it is read from the config file.
func (g *GroupingMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return g.Set(s)
}

func (l *LoginMode) String() string { return string(*l) }

// Set implements pflag.Value.
func (l *LoginMode) Set(s string) error {
	v, err := choose(s, loginChoices)
	if err != nil {
		return err
	}
	*l = LoginMode(v)
	return nil
}

// Type implements pflag.Value.
func (l *LoginMode) Type() string { return "mode" }

// UnmarshalYAML validates the mode when it is read from the config file.
func (l *LoginMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return l.Set(s)
}

func choose(s string, choices []string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, c := range choices {
		if v == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid value %q (valid options: %s)", s, strings.Join(choices, ", "))
}
