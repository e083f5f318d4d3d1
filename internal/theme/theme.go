// Package theme tracks the light/dark display preference.
package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MarcoPoloResearchLab/jigong/internal/events"
	"github.com/MarcoPoloResearchLab/jigong/internal/prefs"
	"go.uber.org/zap"
)

// PreferenceKey is the prefs key the theme is stored under.
const PreferenceKey = "theme"

// Theme is a display theme name.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ErrUnknownTheme is returned by Set for names other than light and dark.
var ErrUnknownTheme = errors.New("theme: unknown theme")

// Parse accepts "light" or "dark" case-insensitively.
func Parse(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, raw)
	}
}

// Manager holds the current theme and persists changes to the preference store.
type Manager struct {
	mu      sync.Mutex
	prefs   *prefs.Store
	bus     *events.Bus
	logger  *zap.Logger
	current Theme
}

// NewManager returns a manager defaulting to Light. prefs and bus may be nil.
func NewManager(store *prefs.Store, bus *events.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{prefs: store, bus: bus, logger: logger, current: Light}
}

// Init loads the saved theme. Missing or unrecognised values fall back to Light.
func (m *Manager) Init() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Light
	if m.prefs == nil {
		return m.current
	}
	saved, ok := m.prefs.GetString(PreferenceKey)
	if !ok {
		return m.current
	}
	parsed, err := Parse(saved)
	if err != nil {
		m.logger.Warn("ignoring saved theme", zap.String("theme", saved), zap.Error(err))
		return m.current
	}
	m.current = parsed
	return m.current
}

func (m *Manager) Current() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Toggle switches between light and dark and returns the new theme.
func (m *Manager) Toggle() Theme {
	m.mu.Lock()
	next := Dark
	if m.current == Dark {
		next = Light
	}
	m.apply(next)
	m.mu.Unlock()
	m.announce(next)
	return next
}

// Set switches to the named theme.
func (m *Manager) Set(raw string) (Theme, error) {
	next, err := Parse(raw)
	if err != nil {
		return m.Current(), err
	}
	m.mu.Lock()
	m.apply(next)
	m.mu.Unlock()
	m.announce(next)
	return next, nil
}

// apply records next as current and persists it. Callers hold mu. A failed save keeps the
// in-memory theme; the preference store has already logged the failure.
func (m *Manager) apply(next Theme) {
	m.current = next
	if m.prefs != nil {
		m.prefs.Set(PreferenceKey, string(next))
	}
}

func (m *Manager) announce(next Theme) {
	m.bus.Publish(events.Message{Topic: events.TopicThemeChanged, Value: string(next)})
}
