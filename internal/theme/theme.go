// Package theme keeps the display mode preference and, when auto mode is on,
// derives it from the time of day.
package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/pennywise/internal/calendar"
	"github.com/MrJamesThe3rd/pennywise/internal/kv"
)

// Key is the storage entry holding the settings.
const Key = "theme-storage"

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Light mode runs from DayStart (inclusive) to NightStart (exclusive), local time.
const (
	DayStart   = 6
	NightStart = 20
)

type Settings struct {
	Mode      Mode `json:"mode"`
	AutoTheme bool `json:"autoTheme"`
}

// TimeBased returns the mode for the hour of t.
func TimeBased(t time.Time) Mode {
	if h := t.Hour(); h >= DayStart && h < NightStart {
		return Light
	}

	return Dark
}

type Service struct {
	kv     kv.Store
	clock  calendar.Clock
	logger *slog.Logger

	mu       sync.Mutex
	settings Settings
}

func NewService(store kv.Store, clock calendar.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		kv:       store,
		clock:    clock,
		logger:   logger,
		settings: Settings{Mode: Light},
	}
}

type envelope struct {
	State   Settings `json:"state"`
	Version int      `json:"version"`
}

// Load reads the stored settings and applies auto mode once. Missing or
// unreadable settings fall back to light mode with auto off.
func (s *Service) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, Key)

	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		return fmt.Errorf("reading %s: %w", Key, err)
	default:
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			s.logger.Warn("ignoring unreadable theme settings", "error", err)
			break
		}

		if env.State.Mode != Light && env.State.Mode != Dark {
			env.State.Mode = Light
		}

		s.mu.Lock()
		s.settings = env.State
		s.mu.Unlock()
	}

	_, err = s.Apply(ctx)

	return err
}

func (s *Service) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings
}

func (s *Service) Mode() Mode {
	return s.Settings().Mode
}

// SetMode picks a mode explicitly, which turns auto mode off.
func (s *Service) SetMode(ctx context.Context, mode Mode) error {
	if mode != Light && mode != Dark {
		return fmt.Errorf("invalid theme mode %q", mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = Settings{Mode: mode, AutoTheme: false}

	return s.saveLocked(ctx)
}

// Toggle switches between light and dark, turning auto mode off.
func (s *Service) Toggle(ctx context.Context) error {
	next := Dark
	if s.Mode() == Dark {
		next = Light
	}

	return s.SetMode(ctx, next)
}

// SetAuto turns auto mode on or off. Turning it on sets the mode for the current hour.
func (s *Service) SetAuto(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.AutoTheme = enabled
	if enabled {
		s.settings.Mode = TimeBased(s.clock.Now())
	}

	return s.saveLocked(ctx)
}

// Apply re-evaluates the mode when auto mode is on and reports whether it changed.
// Calling it repeatedly is safe.
func (s *Service) Apply(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settings.AutoTheme {
		return false, nil
	}

	mode := TimeBased(s.clock.Now())
	if mode == s.settings.Mode {
		return false, nil
	}

	s.settings.Mode = mode

	return true, s.saveLocked(ctx)
}

func (s *Service) saveLocked(ctx context.Context) error {
	raw, err := json.Marshal(envelope{State: s.settings})
	if err != nil {
		return fmt.Errorf("encoding theme settings: %w", err)
	}

	if err := s.kv.Set(ctx, Key, raw); err != nil {
		return fmt.Errorf("writing %s: %w", Key, err)
	}

	return nil
}
