package notifier

import "github.com/julianstephens/focusday/internal/logger"

// LogDeliverer writes notifications to the application log. It is used when
// desktop notifications are disabled or no tray is available.
type LogDeliverer struct{}

func (LogDeliverer) Deliver(n Notification) error {
	logger.Info("Notification", "title", n.Title, "body", n.Body)
	return nil
}

// Fallback tries Primary and hands the notification to Secondary if that fails.
type Fallback struct {
	Primary   Deliverer
	Secondary Deliverer
}

func (f Fallback) Deliver(n Notification) error {
	err := f.Primary.Deliver(n)
	if err == nil {
		return nil
	}
	logger.Debug("Primary notification delivery failed, falling back", "error", err)
	return f.Secondary.Deliver(n)
}
