package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	title, message, icon string
}

func stubBeeep(t *testing.T, err error) *[]sent {
	t.Helper()
	var calls []sent
	orig := beeepNotify
	beeepNotify = func(title, message, icon string) error {
		calls = append(calls, sent{title, message, icon})
		return err
	}
	t.Cleanup(func() { beeepNotify = orig })
	return &calls
}

func TestBeeepNotifierSend(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		title  string
		want   string
	}{
		{"prefixed title", DefaultConfig(), "myapp", "bwenv: myapp"},
		{"app name only", DefaultConfig(), "", "bwenv"},
		{"no app name", Config{}, "myapp", "myapp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubBeeep(t, nil)
			err := New(tt.config).Send(context.Background(), Notification{Title: tt.title, Message: "done"})
			require.NoError(t, err)
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.want, (*calls)[0].title)
			assert.Equal(t, "done", (*calls)[0].message)
		})
	}
}

func TestBeeepNotifierPassesIcon(t *testing.T) {
	calls := stubBeeep(t, nil)
	n := New(Config{AppName: "bwenv", Icon: "/tmp/icon.png"})
	require.NoError(t, n.Send(context.Background(), Notification{Message: "x"}))
	assert.Equal(t, "/tmp/icon.png", (*calls)[0].icon)
}

func TestBeeepNotifierError(t *testing.T) {
	stubBeeep(t, errors.New("dbus unavailable"))
	err := New(DefaultConfig()).Send(context.Background(), Notification{Message: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotificationFailed))
	assert.Contains(t, err.Error(), "dbus unavailable")
}

func TestBeeepNotifierCanceled(t *testing.T) {
	calls := stubBeeep(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(DefaultConfig()).Send(ctx, Notification{Message: "x"})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, *calls)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		written  int
		missing  int
		err      error
		severity string
		message  string
	}{
		{"success", 2, 0, nil, SeverityInfo, "2 env file(s) written"},
		{"missing secrets", 2, 3, nil, SeverityWarning, "2 env file(s) written, 3 secret(s) missing"},
		{"failure", 0, 0, errors.New("vault locked"), SeverityError, "Failed: vault locked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Summary("myapp", tt.written, tt.missing, tt.err)
			assert.Equal(t, "myapp", n.Title)
			assert.Equal(t, tt.severity, n.Severity)
			assert.Equal(t, tt.message, n.Message)
		})
	}
}
