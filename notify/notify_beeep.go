package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
)

// beeepNotify is replaced in tests.
var beeepNotify = func(title, message, icon string) error {
	return beeep.Notify(title, message, icon)
}

// beeepNotifier implements Notifier using the cross-platform beeep library.
type beeepNotifier struct {
	config Config
}

func newBeeepNotifier(config Config) *beeepNotifier {
	return &beeepNotifier{config: config}
}

// Send sends a notification using beeep.
func (n *beeepNotifier) Send(ctx context.Context, notification Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	title := notification.Title
	if n.config.AppName != "" {
		if title == "" {
			title = n.config.AppName
		} else {
			title = n.config.AppName + ": " + title
		}
	}

	if err := beeepNotify(title, notification.Message, n.config.Icon); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return nil
}
