package system

import (
	"fmt"

	"github.com/julianstephens/learnlit/internal/cli"
	"github.com/julianstephens/learnlit/internal/notifier"
)

// NotifyCmd sends a message to the tray app, for checking the setup.
type NotifyCmd struct {
	Message string `arg:"" optional:"" help:"Text to send. Defaults to the active goal's progress."`
	DryRun  bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		ctx.Println("Notifications are disabled in settings.")
		return nil
	}

	text := c.Message
	if text == "" {
		session, err := ctx.Session()
		if err != nil {
			return err
		}
		snap := session.Tracker.Snapshot()
		text = fmt.Sprintf("%s: %d/%d days learned", session.Goal, snap.LearnedCount, snap.Threshold)
	}

	if c.DryRun {
		ctx.Println(text)
		return nil
	}

	sender := ctx.Notifier
	if sender == nil {
		sender = notifier.New()
	}
	if err := sender.Notify(text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	ctx.Println("✓ Notification sent")
	return nil
}
