package bitwarden

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	unauthenticated = `{"serverUrl":null,"status":"unauthenticated"}`
	locked          = `{"serverUrl":null,"userEmail":"dev@example.com","status":"locked"}`
	unlockOutput    = "Your vault is now unlocked!\n\nTo unlock your vault, set your session key to the `BW_SESSION` environment variable. ex:\n$ export BW_SESSION=\"abc123==\"\n> $env:BW_SESSION=\"abc123==\"\n"
)

func TestEnsureLoginAlreadyAuthenticated(t *testing.T) {
	runner := NewMockRunner().On("status", MockResponse{Stdout: locked})
	prompter := &MockPrompter{}
	m := NewSessionManager(NewClient(runner), prompter, SessionOptions{})

	performed, err := m.EnsureLogin(context.Background())
	require.NoError(t, err)
	assert.False(t, performed)
	assert.Empty(t, prompter.Asked)
	assert.Equal(t, 0, runner.CallCount("login --apikey"))
}

func TestEnsureLoginAPIKey(t *testing.T) {
	runner := NewMockRunner().
		On("status", MockResponse{Stdout: unauthenticated}).
		On("login --apikey", MockResponse{Stdout: "You are logged in!"})
	prompter := &MockPrompter{Answers: map[string]string{
		"Enter Bitwarden Client ID":     "user.1234",
		"Enter Bitwarden Client Secret": "s3cr3t",
	}}
	m := NewSessionManager(NewClient(runner), prompter, SessionOptions{LoginMode: LoginAPIKey})

	performed, err := m.EnsureLogin(context.Background())
	require.NoError(t, err)
	assert.True(t, performed)

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"login", "--apikey"}, calls[1].Args)
	assert.ElementsMatch(t, []string{"BW_CLIENTID=user.1234", "BW_CLIENTSECRET=s3cr3t"}, calls[1].Env)
}

func TestEnsureLoginIsIdempotent(t *testing.T) {
	runner := NewMockRunner().
		On("status", MockResponse{Stdout: unauthenticated}, MockResponse{Stdout: locked}).
		On("login --apikey", MockResponse{})
	prompter := &MockPrompter{Answers: map[string]string{
		"Enter Bitwarden Client ID":     "id",
		"Enter Bitwarden Client Secret": "secret",
	}}
	m := NewSessionManager(NewClient(runner), prompter, SessionOptions{})

	first, err := m.EnsureLogin(context.Background())
	require.NoError(t, err)
	second, err := m.EnsureLogin(context.Background())
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.Len(t, prompter.Asked, 2, "credentials are prompted for exactly once")
	assert.Equal(t, 1, runner.CallCount("login --apikey"))
}

func TestEnsureLoginConfiguredCredentialsSkipPrompt(t *testing.T) {
	runner := NewMockRunner().
		On("status", MockResponse{Stdout: unauthenticated}).
		On("login --apikey", MockResponse{})
	prompter := &MockPrompter{}
	m := NewSessionManager(NewClient(runner), prompter, SessionOptions{
		Credentials: Credentials{ClientID: "id", ClientSecret: "secret"},
	})

	_, err := m.EnsureLogin(context.Background())
	require.NoError(t, err)
	assert.Empty(t, prompter.Asked)
}

func TestEnsureLoginEmailReusesPasswordForUnlock(t *testing.T) {
	runner := NewMockRunner().
		On("status", MockResponse{Stdout: unauthenticated}).
		On("login dev@example.com --passwordenv BW_PASSWORD", MockResponse{}).
		On("unlock --passwordenv BW_PASSWORD", MockResponse{Stdout: unlockOutput})
	prompter := &MockPrompter{Answers: map[string]string{
		"Enter Bitwarden email":           "dev@example.com",
		"Enter Bitwarden master password": "correct horse",
	}}
	m := NewSessionManager(NewClient(runner), prompter, SessionOptions{LoginMode: LoginEmail})

	_, err := m.EnsureLogin(context.Background())
	require.NoError(t, err)
	session, err := m.Unlock(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Session("abc123=="), session)
	assert.Equal(t, []string{"Enter Bitwarden email", "Enter Bitwarden master password"}, prompter.Asked)
	for _, call := range runner.Calls()[1:] {
		assert.Equal(t, []string{"BW_PASSWORD=correct horse"}, call.Env)
	}
}

func TestEnsureLoginEmptyCredential(t *testing.T) {
	runner := NewMockRunner().On("status", MockResponse{Stdout: unauthenticated})
	prompter := &MockPrompter{Answers: map[string]string{"Enter Bitwarden Client ID": "  "}}
	m := NewSessionManager(NewClient(runner), prompter, SessionOptions{})

	_, err := m.EnsureLogin(context.Background())
	assert.True(t, errors.Is(err, ErrMissingCredentials))
}

func TestEnsureLoginWithoutPrompter(t *testing.T) {
	runner := NewMockRunner().On("status", MockResponse{Stdout: unauthenticated})
	m := NewSessionManager(NewClient(runner), nil, SessionOptions{})

	_, err := m.EnsureLogin(context.Background())
	assert.True(t, errors.Is(err, ErrMissingCredentials))
}

func TestEnsureLoginUnsupportedMode(t *testing.T) {
	runner := NewMockRunner().On("status", MockResponse{Stdout: unauthenticated})
	m := NewSessionManager(NewClient(runner), &MockPrompter{}, SessionOptions{LoginMode: "sso"})

	_, err := m.EnsureLogin(context.Background())
	assert.True(t, errors.Is(err, ErrUnsupportedLoginMode))
}

func TestEnsureLoginFailure(t *testing.T) {
	runner := NewMockRunner().
		On("status", MockResponse{Stdout: unauthenticated}).
		On("login --apikey", MockResponse{ExitCode: 1, Stderr: "client_id or client_secret is incorrect"})
	m := NewSessionManager(NewClient(runner), nil, SessionOptions{
		Credentials: Credentials{ClientID: "id", ClientSecret: "bad"},
	})

	_, err := m.EnsureLogin(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCommandFailed))
	assert.NotContains(t, err.Error(), "bad", "credentials travel in the environment, not in args")
}

func TestUnlock(t *testing.T) {
	t.Run("quoted output", func(t *testing.T) {
		runner := NewMockRunner().On("unlock --passwordenv BW_PASSWORD", MockResponse{Stdout: unlockOutput})
		m := NewSessionManager(NewClient(runner), nil, SessionOptions{
			Credentials: Credentials{MasterPassword: "pw"},
		})

		session, err := m.Unlock(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Session("abc123=="), session)
		assert.Equal(t, []string{"BW_PASSWORD=pw"}, runner.Calls()[0].Env)
	})

	t.Run("raw output", func(t *testing.T) {
		runner := NewMockRunner().On("unlock --raw --passwordenv BW_PASSWORD", MockResponse{Stdout: "rawtoken\n"})
		m := NewSessionManager(NewClient(runner), nil, SessionOptions{
			Credentials: Credentials{MasterPassword: "pw"},
			RawUnlock:   true,
		})

		session, err := m.Unlock(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Session("rawtoken"), session)
	})

	t.Run("raw output empty", func(t *testing.T) {
		runner := NewMockRunner().On("unlock --raw --passwordenv BW_PASSWORD", MockResponse{Stdout: "\n"})
		m := NewSessionManager(NewClient(runner), nil, SessionOptions{
			Credentials: Credentials{MasterPassword: "pw"},
			RawUnlock:   true,
		})

		_, err := m.Unlock(context.Background())
		assert.True(t, errors.Is(err, ErrSessionNotFound))
	})

	t.Run("no quoted token", func(t *testing.T) {
		runner := NewMockRunner().On("unlock --passwordenv BW_PASSWORD", MockResponse{Stdout: "Your vault is now unlocked!"})
		m := NewSessionManager(NewClient(runner), nil, SessionOptions{
			Credentials: Credentials{MasterPassword: "pw"},
		})

		_, err := m.Unlock(context.Background())
		assert.True(t, errors.Is(err, ErrSessionNotFound))
	})

	t.Run("prompts for password once", func(t *testing.T) {
		runner := NewMockRunner().On("unlock --passwordenv BW_PASSWORD", MockResponse{Stdout: unlockOutput})
		prompter := &MockPrompter{Answers: map[string]string{"Enter Bitwarden master password": "pw"}}
		m := NewSessionManager(NewClient(runner), prompter, SessionOptions{})

		_, err := m.Unlock(context.Background())
		require.NoError(t, err)
		_, err = m.Unlock(context.Background())
		require.NoError(t, err)
		assert.Len(t, prompter.Asked, 1)
	})

	t.Run("wrong password", func(t *testing.T) {
		runner := NewMockRunner().On("unlock --passwordenv BW_PASSWORD", MockResponse{ExitCode: 1, Stderr: "Invalid master password."})
		m := NewSessionManager(NewClient(runner), nil, SessionOptions{
			Credentials: Credentials{MasterPassword: "wrong"},
		})

		_, err := m.Unlock(context.Background())
		assert.True(t, errors.Is(err, ErrCommandFailed))
	})
}

func TestLock(t *testing.T) {
	runner := NewMockRunner().On("lock", MockResponse{Stdout: "Your vault is locked."})
	m := NewSessionManager(NewClient(runner), nil, SessionOptions{})

	require.NoError(t, m.Lock(context.Background()))
	assert.Equal(t, 1, runner.CallCount("lock"))
}

func TestExtractSession(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    Session
		wantErr bool
	}{
		{"export hint", `$ export BW_SESSION="tok=="`, "tok==", false},
		{"first quoted wins", `"first" then "second"`, "first", false},
		{"no quotes", "unlocked", "", true},
		{"empty quotes", `BW_SESSION=""`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSession(tt.output)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrSessionNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
