// Package notify sends desktop notifications when a run finishes.
package notify

import (
	"context"
	"errors"
	"fmt"
)

// Severity levels understood by Summary.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ErrNotificationFailed wraps errors from the OS notification system.
var ErrNotificationFailed = errors.New("failed to send notification")

// Notification is a message shown by the desktop.
type Notification struct {
	Title    string
	Message  string
	Severity string
}

// Notifier delivers notifications.
type Notifier interface {
	Send(ctx context.Context, notification Notification) error
}

// Config contains notification settings.
type Config struct {
	// AppName prefixes every notification title.
	AppName string
	// Icon is an optional path to an icon file.
	Icon string
}

// DefaultConfig returns the bwenv notification settings.
func DefaultConfig() Config {
	return Config{AppName: "bwenv"}
}

// New creates a notifier backed by the platform notification center.
func New(config Config) Notifier {
	return newBeeepNotifier(config)
}

// Summary builds the completion notification for a run over project.
func Summary(project string, written, missing int, err error) Notification {
	switch {
	case err != nil:
		return Notification{
			Title:    project,
			Message:  fmt.Sprintf("Failed: %v", err),
			Severity: SeverityError,
		}
	case missing > 0:
		return Notification{
			Title:    project,
			Message:  fmt.Sprintf("%d env file(s) written, %d secret(s) missing", written, missing),
			Severity: SeverityWarning,
		}
	default:
		return Notification{
			Title:    project,
			Message:  fmt.Sprintf("%d env file(s) written", written),
			Severity: SeverityInfo,
		}
	}
}
