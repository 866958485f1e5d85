package system

import (
	"fmt"

	"github.com/julianstephens/focusday/internal/cli"
	"github.com/julianstephens/focusday/internal/notifier"
)

// NotifyCmd sends one notification through the configured channel.
type NotifyCmd struct {
	Title  string `default:"focusday" help:"Notification title."`
	Body   string `arg:"" optional:"" default:"Notifications are working." help:"Notification text."`
	DryRun bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	n := notifier.Notification{Title: c.Title, Body: c.Body}
	if c.DryRun {
		fmt.Printf("[DryRun] %s: %s\n", n.Title, n.Body)
		return nil
	}
	if err := ctx.NewDeliverer().Deliver(n); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
