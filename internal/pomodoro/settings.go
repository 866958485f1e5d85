package pomodoro

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/focusday/internal/clock"
	"github.com/julianstephens/focusday/internal/constants"
	"github.com/julianstephens/focusday/internal/logger"
	"github.com/julianstephens/focusday/internal/models"
)

// KVStore persists small preference blobs.
type KVStore interface {
	GetValue(key string) ([]byte, bool, error)
	SetValue(key string, value []byte) error
}

// Manager owns the persisted timer settings and cumulative session
// statistics. Each is stored as one JSON blob so a write is never partial.
type Manager struct {
	mu       sync.Mutex
	store    KVStore
	clock    clock.Clock
	settings models.TimerSettings
	session  models.TimerSession
}

// NewManager loads settings and session from store. Missing or undecodable
// blobs fall back to defaults.
func NewManager(store KVStore, c clock.Clock) *Manager {
	if c == nil {
		c = clock.System{}
	}
	m := &Manager{
		store:    store,
		clock:    c,
		settings: models.DefaultTimerSettings(),
	}

	var settings models.TimerSettings
	if m.load(constants.SettingPomodoroSettings, &settings) && settings.Validate() == nil {
		m.settings = settings
	}
	var session models.TimerSession
	if m.load(constants.SettingPomodoroSession, &session) {
		m.session = session
	}
	return m
}

func (m *Manager) load(key string, v any) bool {
	data, ok, err := m.store.GetValue(key)
	if err != nil {
		logger.Warn("Failed to read timer preference, using defaults", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (m *Manager) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := m.store.SetValue(key, data); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func (m *Manager) Settings() models.TimerSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

func (m *Manager) Session() models.TimerSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// SaveSettings validates and stores s. The in-memory copy is updated even
// when persisting fails; the error is returned for the caller to report.
func (m *Manager) SaveSettings(s models.TimerSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return m.save(constants.SettingPomodoroSettings, s)
}

// RecordFocus counts a completed focus phase of length d.
func (m *Manager) RecordFocus(d time.Duration) models.TimerSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	m.session.CompletedFocus++
	m.session.TotalFocus += d
	m.session.LastCompletedAt = &now
	m.persistSession()
	return m.session
}

// RecordBreak counts a completed short or long break.
func (m *Manager) RecordBreak(long bool) models.TimerSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if long {
		m.session.CompletedLongBreak++
	} else {
		m.session.CompletedShortBreak++
	}
	m.persistSession()
	return m.session
}

// ResetSession zeroes the statistics.
func (m *Manager) ResetSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = models.TimerSession{}
	return m.save(constants.SettingPomodoroSession, m.session)
}

func (m *Manager) persistSession() {
	if err := m.save(constants.SettingPomodoroSession, m.session); err != nil {
		logger.Warn("Failed to persist timer session", "error", err)
	}
}
