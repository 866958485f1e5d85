package quotes

import (
	"fmt"

	"github.com/julianstephens/focusday/internal/cli"
	"github.com/julianstephens/focusday/internal/notifier"
	"github.com/julianstephens/focusday/internal/quotes"
)

type QuotesCmd struct {
	Enable        QuotesEnableCmd        `cmd:"" help:"Turn on motivational quote reminders."`
	Disable       QuotesDisableCmd       `cmd:"" help:"Turn off quote reminders."`
	Status        QuotesStatusCmd        `cmd:"" default:"1" help:"Show whether reminders are on."`
	Show          QuotesShowCmd          `cmd:"" help:"Print a random quote."`
	Notifications QuotesNotificationsCmd `cmd:"" help:"Turn all reminders on or off."`
}

// service runs against a throwaway scheduler. Reminders are only delivered
// while the timer is open, which reschedules them on start.
func service(ctx *cli.Context) (*quotes.Service, func()) {
	sched := notifier.NewLocalScheduler(notifier.LogDeliverer{}, ctx.Clock)
	return quotes.NewService(ctx.Store, sched, ctx.Clock), sched.Close
}

type QuotesEnableCmd struct{}

func (c *QuotesEnableCmd) Run(ctx *cli.Context) error {
	svc, done := service(ctx)
	defer done()
	if err := svc.SetEnabled(true); err != nil {
		return err
	}
	fmt.Println("✓ Quote reminders enabled")
	if on, err := svc.NotificationsEnabled(); err == nil && !on {
		fmt.Println("  Notifications are off, so none will be shown. Run 'focusday quotes notifications on'.")
	}
	return nil
}

type QuotesDisableCmd struct{}

func (c *QuotesDisableCmd) Run(ctx *cli.Context) error {
	svc, done := service(ctx)
	defer done()
	if err := svc.SetEnabled(false); err != nil {
		return err
	}
	fmt.Println("✓ Quote reminders disabled")
	return nil
}

type QuotesStatusCmd struct{}

func (c *QuotesStatusCmd) Run(ctx *cli.Context) error {
	svc, done := service(ctx)
	defer done()

	notifications, err := svc.NotificationsEnabled()
	if err != nil {
		return err
	}
	active, err := svc.Enabled()
	if err != nil {
		return err
	}
	fmt.Printf("Notifications:    %s\n", onOff(notifications))
	fmt.Printf("Quote reminders:  %s\n", onOff(active))
	return nil
}

type QuotesShowCmd struct{}

func (c *QuotesShowCmd) Run(ctx *cli.Context) error {
	svc, done := service(ctx)
	defer done()
	q, err := svc.Random()
	if err != nil {
		return err
	}
	fmt.Println(q)
	return nil
}

type QuotesNotificationsCmd struct {
	State string `arg:"" enum:"on,off" help:"on or off."`
}

func (c *QuotesNotificationsCmd) Run(ctx *cli.Context) error {
	svc, done := service(ctx)
	defer done()
	if err := svc.SetNotificationsEnabled(c.State == "on"); err != nil {
		return err
	}
	fmt.Printf("✓ Notifications %s\n", c.State)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
