package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/desk-clock/internal/domain/alarm"
	"github.com/oshokin/desk-clock/internal/fsm"
	"github.com/oshokin/desk-clock/internal/logger"
)

// Config holds the settings of the desk clock.
type Config struct {
	// LogLevel is the level of the application log.
	LogLevel string `yaml:"log_level"`
	// SchedulerLogLevel overrides LogLevel for the scheduler; empty inherits it.
	SchedulerLogLevel string `yaml:"scheduler_log_level,omitempty"`
	// InitialState is the state the clock starts in.
	InitialState fsm.State `yaml:"initial_state"`
	// LookupPolicy governs missing table entries.
	LookupPolicy fsm.Policy `yaml:"lookup_policy"`
	// IdleYield is the sleep of a cycle without events; zero only yields the processor.
	IdleYield time.Duration `yaml:"idle_yield"`
	// Button holds the push-button settings.
	Button Button `yaml:"button"`
	// Timeouts holds the inactivity timeouts of the editing screens.
	Timeouts Timeouts `yaml:"timeouts"`
	// Display holds the rendering settings.
	Display Display `yaml:"display"`
	// Alarm is the alarm restored on start.
	Alarm Alarm `yaml:"alarm"`
	// Clock holds the microsecond clock settings.
	Clock Clock `yaml:"clock"`
	// Metrics holds the metrics settings.
	Metrics Metrics `yaml:"metrics"`
}

// Button holds the push-button settings.
type Button struct {
	// LongPress is the hold time that turns a press into a long press; zero disables it.
	LongPress time.Duration `yaml:"long_press"`
	// Debounce is the minimum spacing of accepted edges; zero disables it.
	Debounce time.Duration `yaml:"debounce"`
	// ActiveLow means a low pin level is the pressed state.
	ActiveLow bool `yaml:"active_low"`
}

// Timeouts holds the inactivity timeouts that return to the time screen.
type Timeouts struct {
	// SetTime is the timeout of the time setting screen.
	SetTime time.Duration `yaml:"set_time"`
	// Alarm is the timeout of the alarm screens.
	Alarm time.Duration `yaml:"alarm"`
}

// Display holds the rendering settings.
type Display struct {
	// BlinkInterval is the half-period of the blinking time while setting it.
	BlinkInterval time.Duration `yaml:"blink_interval"`
	// Color is the digit color; empty selects the display default.
	Color string `yaml:"color,omitempty"`
}

// Alarm is the alarm restored on start.
type Alarm struct {
	// Time is when the alarm goes off.
	Time alarm.TimeOfDay `yaml:"time"`
	// Enabled arms the alarm.
	Enabled bool `yaml:"enabled"`
}

// State returns the alarm as a domain value.
func (a Alarm) State() alarm.State {
	return alarm.State{
		Time:      a.Time,
		IsEnabled: a.Enabled,
	}
}

// Clock holds the microsecond clock settings.
type Clock struct {
	// WrapOffset is added to every reading; values near 2^32 exercise the wraparound early.
	WrapOffset uint32 `yaml:"wrap_offset"`
}

// Metrics holds the metrics settings.
type Metrics struct {
	// Enabled turns on the Prometheus recorder and the shutdown summary.
	Enabled bool `yaml:"enabled"`
}

const (
	// DefaultConfigFilename is the default filename for the clock settings.
	DefaultConfigFilename = "desk-clock.yaml"

	// DefaultIdleYield is the default sleep of an idle cycle.
	DefaultIdleYield = time.Millisecond

	// DefaultLongPress is the default long-press threshold.
	DefaultLongPress = time.Second

	// DefaultDebounce is the default debounce window.
	DefaultDebounce = 20 * time.Millisecond

	// DefaultTimeout is the default inactivity timeout of the editing screens.
	DefaultTimeout = 5 * time.Second

	// DefaultBlinkInterval is the default blink half-period.
	DefaultBlinkInterval = 500 * time.Millisecond

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeDuration is returned when a duration setting is below zero.
	errNegativeDuration = errors.New("duration must not be negative")
	// errInvalidLogLevel is returned for an unknown log level name.
	errInvalidLogLevel = errors.New("invalid log level")
	// errInvalidAlarmTime is returned when the alarm time is out of range.
	errInvalidAlarmTime = errors.New("invalid alarm time")
)

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		InitialState: fsm.ShowCurrentTime,
		LookupPolicy: fsm.PolicyStrict,
		IdleYield:    DefaultIdleYield,
		Button: Button{
			LongPress: DefaultLongPress,
			Debounce:  DefaultDebounce,
			ActiveLow: true,
		},
		Timeouts: Timeouts{
			SetTime: DefaultTimeout,
			Alarm:   DefaultTimeout,
		},
		Display: Display{
			BlinkInterval: DefaultBlinkInterval,
		},
		Alarm: Alarm{
			Time: alarm.TimeOfDay{Hours: 7},
		},
		Metrics: Metrics{
			Enabled: true,
		},
	}
}

// Load reads configuration from the provided path over the defaults and validates it.
// With an empty path a missing default file yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills the defaults of unset required fields.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	for _, level := range []string{settings.LogLevel, settings.SchedulerLogLevel} {
		if _, ok := logger.ParseLogLevel(level); !ok {
			return fmt.Errorf("%w: %q", errInvalidLogLevel, level)
		}
	}

	if settings.InitialState == fsm.Invalid {
		settings.InitialState = fsm.ShowCurrentTime
	}

	durations := map[string]time.Duration{
		"idle_yield":             settings.IdleYield,
		"button.long_press":      settings.Button.LongPress,
		"button.debounce":        settings.Button.Debounce,
		"timeouts.set_time":      settings.Timeouts.SetTime,
		"timeouts.alarm":         settings.Timeouts.Alarm,
		"display.blink_interval": settings.Display.BlinkInterval,
	}

	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s: %w: %s", name, errNegativeDuration, d)
		}
	}

	// Set default timeouts if not specified
	if settings.Timeouts.SetTime == 0 {
		settings.Timeouts.SetTime = DefaultTimeout
	}

	if settings.Timeouts.Alarm == 0 {
		settings.Timeouts.Alarm = DefaultTimeout
	}

	if settings.Display.BlinkInterval == 0 {
		settings.Display.BlinkInterval = DefaultBlinkInterval
	}

	if !settings.Alarm.Time.Valid() {
		return fmt.Errorf("%w: %d:%d", errInvalidAlarmTime, settings.Alarm.Time.Hours, settings.Alarm.Time.Minutes)
	}

	return nil
}
