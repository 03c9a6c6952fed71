// Package notify sends best-effort desktop notifications for watch mode.
package notify

import (
	"fmt"
	"sync"

	"github.com/agentx-labs/bulkren/internal/branding"
	"github.com/agentx-labs/bulkren/internal/logging"
	"github.com/gen2brain/beeep"
)

type notifyFunc func(title, message string, icon any) error

var (
	mu       sync.Mutex
	notifier notifyFunc = beeep.Notify
)

// SetNotifier replaces the function used to deliver notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	mu.Lock()
	defer mu.Unlock()
	notifier = fn
}

// ResetNotifier restores the desktop notifier.
func ResetNotifier() {
	SetNotifier(beeep.Notify)
}

// Send delivers a desktop notification. Failures are logged and returned.
func Send(title, message string) error {
	mu.Lock()
	fn := notifier
	mu.Unlock()

	log := logging.WithComponent("notify")
	log.Debug("sending notification", "title", title, "message", message)
	if err := fn(title, message, ""); err != nil {
		log.Warn("notification failed", "error", err)
		return err
	}
	return nil
}

// Applied reports a finished apply for the directory named dir.
func Applied(dir string, renamed, warnings int) error {
	msg := fmt.Sprintf("%s: %d renamed", dir, renamed)
	if warnings > 0 {
		msg += fmt.Sprintf(", %d skipped (count changed)", warnings)
	}
	return Send(branding.DisplayName(), msg)
}

// Failed reports an apply that stopped with err.
func Failed(dir string, err error) error {
	return Send(branding.DisplayName()+" failed", fmt.Sprintf("%s: %v", dir, err))
}
