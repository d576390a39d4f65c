package bitwarden

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Environment variables read by bw itself.
const (
	PasswordEnv     = "BW_PASSWORD"
	ClientIDEnv     = "BW_CLIENTID"
	ClientSecretEnv = "BW_CLIENTSECRET"
)

// LoginMode selects how EnsureLogin authenticates.
type LoginMode string

const (
	// LoginAPIKey logs in with a personal API key (client ID and secret).
	LoginAPIKey LoginMode = "apikey"
	// LoginEmail logs in with an account email and master password.
	LoginEmail LoginMode = "email"
)

var (
	// ErrSessionNotFound indicates unlock output without a session token.
	ErrSessionNotFound = errors.New("no session token in unlock output")
	// ErrMissingCredentials indicates an empty credential after prompting.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrUnsupportedLoginMode indicates an unknown LoginMode.
	ErrUnsupportedLoginMode = errors.New("unsupported login mode")
)

var quotedPattern = regexp.MustCompile(`"([^"]+)"`)

// Credentials are explicitly configured secrets. Empty fields are prompted for.
type Credentials struct {
	Email          string
	MasterPassword string
	ClientID       string
	ClientSecret   string
}

// SessionOptions configures a SessionManager.
type SessionOptions struct {
	LoginMode   LoginMode
	Credentials Credentials
	// RawUnlock uses "bw unlock --raw", whose output is the bare token.
	RawUnlock bool
}

// SessionManager handles the login, unlock and lock lifecycle.
type SessionManager struct {
	client   *Client
	prompter CredentialPrompter
	opts     SessionOptions
	password string
}

// NewSessionManager creates a session manager. An empty LoginMode defaults to LoginAPIKey.
func NewSessionManager(client *Client, prompter CredentialPrompter, opts SessionOptions) *SessionManager {
	if opts.LoginMode == "" {
		opts.LoginMode = LoginAPIKey
	}
	return &SessionManager{
		client:   client,
		prompter: prompter,
		opts:     opts,
		password: opts.Credentials.MasterPassword,
	}
}

// EnsureLogin logs in unless bw already holds an authenticated account.
// It reports whether a login was performed.
func (m *SessionManager) EnsureLogin(ctx context.Context) (bool, error) {
	status, err := m.client.Status(ctx)
	if err != nil {
		return false, err
	}
	if status.Authenticated() {
		log.Debug("already logged in", "status", status.Status)
		return false, nil
	}

	switch m.opts.LoginMode {
	case LoginAPIKey:
		err = m.loginAPIKey(ctx)
	case LoginEmail:
		err = m.loginEmail(ctx)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedLoginMode, m.opts.LoginMode)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *SessionManager) loginAPIKey(ctx context.Context) error {
	id, err := m.credential(m.opts.Credentials.ClientID, "Enter Bitwarden Client ID", false)
	if err != nil {
		return err
	}
	secret, err := m.credential(m.opts.Credentials.ClientSecret, "Enter Bitwarden Client Secret", true)
	if err != nil {
		return err
	}

	_, err = m.client.Exec(ctx, Call{
		Args: []string{"login", "--apikey"},
		Env:  []string{ClientIDEnv + "=" + id, ClientSecretEnv + "=" + secret},
	})
	return err
}

func (m *SessionManager) loginEmail(ctx context.Context) error {
	email, err := m.credential(m.opts.Credentials.Email, "Enter Bitwarden email", false)
	if err != nil {
		return err
	}
	password, err := m.masterPassword()
	if err != nil {
		return err
	}

	_, err = m.client.Exec(ctx, Call{
		Args: []string{"login", email, "--passwordenv", PasswordEnv},
		Env:  []string{PasswordEnv + "=" + password},
	})
	return err
}

// Unlock unlocks the vault and returns the session token.
func (m *SessionManager) Unlock(ctx context.Context) (Session, error) {
	password, err := m.masterPassword()
	if err != nil {
		return "", err
	}

	args := []string{"unlock", "--passwordenv", PasswordEnv}
	if m.opts.RawUnlock {
		args = []string{"unlock", "--raw", "--passwordenv", PasswordEnv}
	}
	out, err := m.client.Text(ctx, Call{Args: args, Env: []string{PasswordEnv + "=" + password}})
	if err != nil {
		return "", err
	}

	if m.opts.RawUnlock {
		if out == "" {
			return "", ErrSessionNotFound
		}
		return Session(out), nil
	}
	return ExtractSession(out)
}

// Lock locks the vault, invalidating every session token.
func (m *SessionManager) Lock(ctx context.Context) error {
	_, err := m.client.Exec(ctx, Call{Args: []string{"lock"}})
	return err
}

// ExtractSession returns the first double-quoted substring of the output of
// "bw unlock", which carries the token in its export hints.
func ExtractSession(output string) (Session, error) {
	match := quotedPattern.FindStringSubmatch(output)
	if match == nil {
		return "", ErrSessionNotFound
	}
	return Session(match[1]), nil
}

// masterPassword returns the configured or previously entered password,
// prompting at most once per manager.
func (m *SessionManager) masterPassword() (string, error) {
	if m.password != "" {
		return m.password, nil
	}
	password, err := m.credential("", "Enter Bitwarden master password", true)
	if err != nil {
		return "", err
	}
	m.password = password
	return password, nil
}

func (m *SessionManager) credential(configured, label string, secret bool) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if m.prompter == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingCredentials, strings.ToLower(strings.TrimPrefix(label, "Enter ")))
	}

	var value string
	var err error
	if secret {
		value, err = m.prompter.PromptSecret(label)
	} else {
		value, err = m.prompter.Prompt(label)
	}
	if err != nil {
		return "", err
	}
	if value = strings.TrimSpace(value); value == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingCredentials, strings.ToLower(strings.TrimPrefix(label, "Enter ")))
	}
	return value, nil
}
