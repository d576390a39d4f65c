package bitwarden

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput indicates that the input stream ended before a value was entered.
var ErrNoInput = errors.New("no input")

// CredentialPrompter asks the user for credentials.
type CredentialPrompter interface {
	// Prompt reads a visible value.
	Prompt(label string) (string, error)
	// PromptSecret reads a value without echoing it when possible.
	PromptSecret(label string) (string, error)
}

// TerminalPrompter prompts on a console. Secret input is hidden when the input
// is a terminal and read as a plain line otherwise, so piped input works.
type TerminalPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminalPrompter prompts on stderr and reads from stdin.
func NewTerminalPrompter() *TerminalPrompter {
	return NewPrompter(os.Stdin, os.Stderr)
}

// NewPrompter prompts on out and reads from in.
func NewPrompter(in *os.File, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

// Prompt prints "label: " and reads one line.
func (p *TerminalPrompter) Prompt(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine()
}

// PromptSecret prints "label: " and reads one line without echo.
func (p *TerminalPrompter) PromptSecret(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)

	// #nosec G115 -- file descriptors fit in int
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.readLine()
	}

	value, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(string(value)), nil
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
