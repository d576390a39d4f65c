package bitwarden

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jongio/bwenv/cmdutil"
)

// MockResponse is a canned result for MockRunner.
type MockResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// MockCall records one invocation of MockRunner.
type MockCall struct {
	Args []string
	Env  []string
}

// MockRunner is a Runner for tests. Responses are keyed by the space-joined
// arguments (including "--session <token>"). When several responses are
// registered for a key they are returned in order and the last one repeats.
type MockRunner struct {
	mu        sync.Mutex
	responses map[string][]MockResponse
	calls     []MockCall
}

// NewMockRunner returns an empty MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{responses: make(map[string][]MockResponse)}
}

// On registers responses for the given argument line, e.g. "list items --session tok".
func (m *MockRunner) On(args string, responses ...MockResponse) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[args] = append(m.responses[args], responses...)
	return m
}

// Run implements Runner.
func (m *MockRunner) Run(_ context.Context, args []string, env []string) (*cmdutil.Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Args: append([]string(nil), args...), Env: append([]string(nil), env...)})

	key := strings.Join(args, " ")
	queue, ok := m.responses[key]
	if !ok || len(queue) == 0 {
		return nil, errors.New("command not configured in mock: " + key)
	}
	resp := queue[0]
	if len(queue) > 1 {
		m.responses[key] = queue[1:]
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &cmdutil.Output{
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
		ExitCode: resp.ExitCode,
	}, nil
}

// Calls returns the recorded invocations.
func (m *MockRunner) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// CallCount returns how many times the given argument line was run.
func (m *MockRunner) CallCount(args string) int {
	n := 0
	for _, c := range m.Calls() {
		if strings.Join(c.Args, " ") == args {
			n++
		}
	}
	return n
}

// MockPrompter is a CredentialPrompter for tests that answers by label.
type MockPrompter struct {
	Answers map[string]string
	Err     error
	Asked   []string
}

// Prompt implements CredentialPrompter.
func (p *MockPrompter) Prompt(label string) (string, error) {
	p.Asked = append(p.Asked, label)
	if p.Err != nil {
		return "", p.Err
	}
	return p.Answers[label], nil
}

// PromptSecret implements CredentialPrompter.
func (p *MockPrompter) PromptSecret(label string) (string, error) {
	return p.Prompt(label)
}
