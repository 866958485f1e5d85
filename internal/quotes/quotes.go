// Package quotes schedules periodic motivational reminders from an embedded
// quote bank.
package quotes

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/constants"
	"github.com/julianstephens/focusday/internal/logger"
	"github.com/julianstephens/focusday/internal/notifier"
)

//go:embed quotes.yaml
var bankYAML []byte

const reminderTitle = "Motivation Boost"

type Quote struct {
	Content string `yaml:"q"`
	Author  string `yaml:"a"`
}

func (q Quote) String() string {
	return fmt.Sprintf("%q - %s", q.Content, q.Author)
}

// Bank returns the embedded quotes.
func Bank() ([]Quote, error) {
	var bank []Quote
	if err := yaml.Unmarshal(bankYAML, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse quote bank: %w", err)
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("quote bank is empty")
	}
	return bank, nil
}

// Prefs is where the notification toggles are stored.
type Prefs interface {
	GetValue(key string) ([]byte, bool, error)
	SetValue(key string, value []byte) error
}

type Scheduler interface {
	Schedule(req notifier.Request) error
	Cancel(ids ...string)
}

// Service keeps the quote reminders in line with the preferences.
type Service struct {
	prefs     Prefs
	scheduler Scheduler
	clock     clock.Clock
	pick      func(n int) int
}

func NewService(prefs Prefs, scheduler Scheduler, c clock.Clock) *Service {
	if c == nil {
		c = clock.System{}
	}
	return &Service{
		prefs:     prefs,
		scheduler: scheduler,
		clock:     c,
		pick:      rand.IntN,
	}
}

// ReminderIDs lists the notification ids owned by the service.
func ReminderIDs() []string {
	ids := make([]string, constants.QuoteNotificationCount)
	for i := range ids {
		ids[i] = constants.QuoteNotificationPrefix + strconv.Itoa(i+1)
	}
	return ids
}

func (s *Service) boolPref(key string, def bool) (bool, error) {
	raw, ok, err := s.prefs.GetValue(key)
	if err != nil {
		return def, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		return def, nil
	}
	return v, nil
}

// NotificationsEnabled reports the global notifications preference.
func (s *Service) NotificationsEnabled() (bool, error) {
	return s.boolPref(constants.SettingNotificationsEnabled, constants.DefaultNotificationsEnabled)
}

// SetNotificationsEnabled stores the global toggle and reschedules.
func (s *Service) SetNotificationsEnabled(enabled bool) error {
	value := []byte(strconv.FormatBool(enabled))
	if err := s.prefs.SetValue(constants.SettingNotificationsEnabled, value); err != nil {
		return fmt.Errorf("failed to save notification preference: %w", err)
	}
	_, err := s.Recheck()
	return err
}

// Enabled reports whether both notifications and quote reminders are on.
func (s *Service) Enabled() (bool, error) {
	notifications, err := s.NotificationsEnabled()
	if err != nil {
		return false, err
	}
	if !notifications {
		return false, nil
	}
	return s.boolPref(constants.SettingQuoteNotificationsEnabled, false)
}

// SetEnabled stores the quote toggle and reschedules accordingly.
func (s *Service) SetEnabled(enabled bool) error {
	value := []byte(strconv.FormatBool(enabled))
	if err := s.prefs.SetValue(constants.SettingQuoteNotificationsEnabled, value); err != nil {
		return fmt.Errorf("failed to save quote preference: %w", err)
	}
	_, err := s.Recheck()
	return err
}

// Recheck cancels every pending reminder and, when enabled, schedules a
// fresh batch. It returns the number scheduled.
func (s *Service) Recheck() (int, error) {
	s.Cancel()

	enabled, err := s.Enabled()
	if err != nil {
		return 0, err
	}
	if !enabled {
		return 0, nil
	}

	bank, err := Bank()
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	scheduled := 0
	for i, id := range ReminderIDs() {
		quote := bank[s.pick(len(bank))]
		req := notifier.Request{
			ID:     id,
			Title:  reminderTitle,
			Body:   quote.String(),
			FireAt: now.Add(time.Duration(i+1) * constants.QuoteNotificationEvery),
		}
		if err := s.scheduler.Schedule(req); err != nil {
			logger.Warn("Failed to schedule quote reminder", "id", id, "error", err)
			continue
		}
		scheduled++
	}
	logger.Debug("Scheduled quote reminders", "count", scheduled)
	return scheduled, nil
}

// Random picks one quote from the bank.
func (s *Service) Random() (Quote, error) {
	bank, err := Bank()
	if err != nil {
		return Quote{}, err
	}
	return bank[s.pick(len(bank))], nil
}

// Cancel removes all pending quote reminders.
func (s *Service) Cancel() {
	s.scheduler.Cancel(ReminderIDs()...)
}
