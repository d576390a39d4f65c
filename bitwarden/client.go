package bitwarden

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jongio/bwenv/cmdutil"
	"github.com/jongio/bwenv/logutil"
	"github.com/jongio/bwenv/security"
)

// DefaultExecutable is the name of the Bitwarden CLI binary.
const DefaultExecutable = "bw"

const sessionFlag = "--session"

var (
	// ErrCommandFailed is wrapped by every *CommandError.
	ErrCommandFailed = errors.New("vault command failed")
	// ErrInvalidOutput indicates bw output that could not be decoded.
	ErrInvalidOutput = errors.New("invalid vault output")
)

var log = logutil.NewLogger("bitwarden")

// Session is the token returned by "bw unlock". It prints as redacted; use
// string(s) where the raw token is required.
type Session string

// String implements fmt.Stringer without exposing the token.
func (s Session) String() string {
	if s == "" {
		return ""
	}
	return security.Redacted
}

// Runner executes the vault binary. A non-zero exit must be reported through
// Output.ExitCode; the error is reserved for processes that could not run.
type Runner interface {
	Run(ctx context.Context, args []string, env []string) (*cmdutil.Output, error)
}

// ExecRunner runs a real bw process.
type ExecRunner struct {
	Executable string
}

// NewExecRunner returns a runner for the given executable, defaulting to "bw".
func NewExecRunner(executable string) *ExecRunner {
	if executable == "" {
		executable = DefaultExecutable
	}
	return &ExecRunner{Executable: executable}
}

// Run executes the binary with the given arguments and extra child environment.
func (r *ExecRunner) Run(ctx context.Context, args []string, env []string) (*cmdutil.Output, error) {
	return cmdutil.RunCapture(ctx, r.Executable, args, cmdutil.CaptureOptions{
		Env: env,
		OnStderrLine: func(line string) {
			log.Debug("bw stderr", "line", line)
		},
	})
}

// CommandError reports a vault command that exited with a non-zero status.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: exit status %d", DefaultExecutable, strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap allows errors.Is(err, ErrCommandFailed).
func (e *CommandError) Unwrap() error {
	return ErrCommandFailed
}

// Call describes one vault invocation.
type Call struct {
	Args []string
	// Session is appended as "--session <token>" when set.
	Session Session
	// Env holds KEY=VALUE entries passed to the child process only.
	Env []string
}

func (c Call) argv() []string {
	args := make([]string, 0, len(c.Args)+2)
	args = append(args, c.Args...)
	if c.Session != "" {
		args = append(args, sessionFlag, string(c.Session))
	}
	return args
}

// Client issues vault commands through a Runner.
type Client struct {
	runner Runner
}

// NewClient creates a client on top of runner.
func NewClient(runner Runner) *Client {
	return &Client{runner: runner}
}

// Exec runs a call and converts a non-zero exit into a *CommandError.
func (c *Client) Exec(ctx context.Context, call Call) (*cmdutil.Output, error) {
	args := call.argv()
	redacted := security.RedactArgs(args, sessionFlag)
	log.Debug("running vault command", "args", strings.Join(redacted, " "))

	out, err := c.runner.Run(ctx, args, call.Env)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", DefaultExecutable, strings.Join(redacted, " "), err)
	}
	if !out.Success() {
		return out, &CommandError{
			Args:     redacted,
			ExitCode: out.ExitCode,
			Stderr:   strings.TrimSpace(string(out.Stderr)),
		}
	}
	return out, nil
}

// Text runs a call and returns its trimmed stdout.
func (c *Client) Text(ctx context.Context, call Call) (string, error) {
	out, err := c.Exec(ctx, call)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out.Stdout)), nil
}

// JSON runs a call and decodes its stdout into target.
func (c *Client) JSON(ctx context.Context, call Call, target any) error {
	out, err := c.Exec(ctx, call)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out.Stdout, target); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidOutput, DefaultExecutable, strings.Join(call.Args, " "), err)
	}
	return nil
}

// Status returns the decoded "bw status" output.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.JSON(ctx, Call{Args: []string{"status"}}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListItems returns every item visible to the session.
func (c *Client) ListItems(ctx context.Context, session Session) ([]Item, error) {
	var items []Item
	if err := c.JSON(ctx, Call{Args: []string{"list", "items"}, Session: session}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListCollections returns every collection visible to the session.
func (c *Client) ListCollections(ctx context.Context, session Session) ([]Group, error) {
	return c.listGroups(ctx, session, "collections")
}

// ListFolders returns every folder, including the ID-less "No Folder" entry.
func (c *Client) ListFolders(ctx context.Context, session Session) ([]Group, error) {
	return c.listGroups(ctx, session, "folders")
}

func (c *Client) listGroups(ctx context.Context, session Session, kind string) ([]Group, error) {
	var groups []Group
	if err := c.JSON(ctx, Call{Args: []string{"list", kind}, Session: session}, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
