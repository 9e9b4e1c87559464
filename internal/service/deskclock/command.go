package deskclock

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/desk-clock/internal/clock"
	"github.com/oshokin/desk-clock/internal/config"
	"github.com/oshokin/desk-clock/internal/display"
	"github.com/oshokin/desk-clock/internal/event"
	"github.com/oshokin/desk-clock/internal/fsm"
	"github.com/oshokin/desk-clock/internal/logger"
	"github.com/oshokin/desk-clock/internal/metrics"
	"github.com/oshokin/desk-clock/internal/platform/sim"
	"github.com/oshokin/desk-clock/internal/scheduler"
	"github.com/oshokin/desk-clock/internal/source"
	"github.com/oshokin/desk-clock/internal/version"
)

// Options controls how the desk clock starts.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// LogLevel overrides the configured log level.
	LogLevel string
	// InitialState overrides the configured initial state.
	InitialState string
	// LookupPolicy overrides the configured lookup policy.
	LookupPolicy string
	// Input supplies the keys; nil reads standard input.
	Input io.Reader
	// Output receives the display frames; nil writes to standard output.
	Output io.Writer
	// Now reads the wall clock; nil selects time.Now.
	Now func() time.Time
}

// tapMargin keeps a simulated short press longer than the debounce window.
const tapMargin = 2

// Run starts the clock and blocks until the quit key, the end of input or ctx cancellation.
//
//nolint:funlen // Wiring reads best top to bottom.
func Run(ctx context.Context, opts *Options) error {
	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Command line arguments override the config.
	if err = applyOverrides(cfg, opts); err != nil {
		return err
	}

	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)

	in, out := opts.Input, opts.Output
	if in == nil {
		in = os.Stdin
	}

	if out == nil {
		out = os.Stdout
	}

	// Raw mode delivers keys without waiting for Enter. It swaps the global logger, so it precedes naming.
	restore, raw := enterRawMode(ctx, in)
	defer restore()

	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "desk-clock")

	clk := clock.NewMonotonic(clock.WithOffset(cfg.Clock.WrapOffset))
	board := sim.NewBoard(cfg.Button.ActiveLow)

	button := source.NewButtonSource(clk, board,
		source.WithActiveLow(cfg.Button.ActiveLow),
		source.WithLongPress(cfg.Button.LongPress),
		source.WithDebounce(cfg.Button.Debounce))
	button.Attach(board)

	timer := source.NewTimerSource(clk, cfg.Timeouts.Alarm)

	var displayOpts []display.TerminalOption
	if raw {
		displayOpts = append(displayOpts, display.WithRawMode())
	}

	controller := NewController(&ControllerConfig{
		Display:        display.NewTerminal(out, cfg.Display.Color, displayOpts...),
		Timekeeper:     NewTimekeeper(opts.Now),
		Timer:          timer,
		Blinker:        NewBlinker(clk, cfg.Display.BlinkInterval),
		Alarm:          cfg.Alarm.State(),
		SetTimeTimeout: cfg.Timeouts.SetTime,
		AlarmTimeout:   cfg.Timeouts.Alarm,
	})

	table, err := BuildTable(controller, fsm.WithPolicy(cfg.LookupPolicy))
	if err != nil {
		return err
	}

	var (
		registry *prometheus.Registry
		recorder metrics.Recorder = metrics.NoopRecorder{}
	)

	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	sched := scheduler.New(
		scheduler.Sources{
			Button:   button,
			Rotation: source.NewRotationSource(clk, board),
			Timer:    timer,
		},
		scheduler.WithRecorder(recorder),
		scheduler.WithIdleYield(cfg.IdleYield),
		scheduler.WithObserver(func(from, to fsm.State, ev event.Event) {
			if from != to {
				logger.InfoKV(ctx, "Screen changed", "from", from.String(), "to", to.String(), "event", ev.Kind.String())
			}
		}),
	)

	if err = sched.Setup(table, cfg.InitialState); err != nil {
		return fmt.Errorf("set up scheduler: %w", err)
	}

	keyboard := sim.NewKeyboard(board, in,
		sim.WithTap(tapMargin*cfg.Button.Debounce),
		sim.WithHold(cfg.Button.LongPress+cfg.Button.LongPress/5))

	logger.InfoKV(ctx, "Desk clock started",
		"version", version.Short(),
		"initial_state", cfg.InitialState.String(),
		"policy", cfg.LookupPolicy.String(),
		"alarm", controller.Alarm().Time.String(),
		"interactive", raw)

	group, groupCtx := errgroup.WithContext(ctx)

	// The keyboard ends the session: quitting cancels the scheduler.
	runCtx, stop := context.WithCancel(groupCtx)
	defer stop()

	group.Go(func() error {
		defer stop()

		return keyboard.Run(runCtx)
	})

	group.Go(func() error {
		defer stop()

		return sched.Run(schedulerContext(runCtx, cfg.SchedulerLogLevel))
	})

	err = group.Wait()

	final := controller.Alarm()
	logger.InfoKV(ctx, "Desk clock stopped",
		"state", sched.Current().String(),
		"alarm", final.Time.String(),
		"alarm_enabled", final.IsEnabled)

	if registry != nil {
		logSummary(ctx, registry)
	}

	if err != nil {
		return fmt.Errorf("run desk clock: %w", err)
	}

	return nil
}

// applyOverrides copies non-empty command line values into cfg.
func applyOverrides(cfg *config.Config, opts *Options) error {
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if opts.InitialState != "" {
		state, err := fsm.ParseState(opts.InitialState)
		if err != nil {
			return fmt.Errorf("initial state: %w", err)
		}

		cfg.InitialState = state
	}

	if opts.LookupPolicy != "" {
		policy, err := fsm.ParsePolicy(opts.LookupPolicy)
		if err != nil {
			return fmt.Errorf("lookup policy: %w", err)
		}

		cfg.LookupPolicy = policy
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	return nil
}

// enterRawMode switches an interactive input to raw mode and routes the log through a CRLF writer.
// The returned function undoes both; raw reports whether raw mode is on.
func enterRawMode(ctx context.Context, in io.Reader) (func(), bool) {
	file, ok := in.(*os.File)
	if !ok || !isatty.IsTerminal(file.Fd()) {
		return func() {}, false
	}

	restoreTerminal, err := sim.EnterRawMode(file.Fd())
	if err != nil {
		logger.WarnKV(ctx, "Keyboard stays in line mode", "error", err)

		return func() {}, false
	}

	previous := logger.Logger()
	logger.SetLogger(logger.NewWithSink(nil, zapcore.Lock(zapcore.AddSync(sim.NewCRLFWriter(os.Stderr)))))

	return func() {
		logger.SetLogger(previous)

		if err := restoreTerminal(); err != nil {
			logger.WarnKV(ctx, "Restore terminal", "error", err)
		}
	}, true
}

// schedulerContext applies the scheduler's own log level, if any.
func schedulerContext(ctx context.Context, level string) context.Context {
	if level == "" {
		return ctx
	}

	lvl, _ := logger.ParseLogLevel(level)

	return logger.OverrideLevel(ctx, lvl)
}

// logSummary logs the counters gathered during the run.
func logSummary(ctx context.Context, registry *prometheus.Registry) {
	totals, err := metrics.Totals(registry)
	if err != nil {
		logger.WarnKV(ctx, "Gather metrics", "error", err)

		return
	}

	kvs := make([]any, 0, 2*len(totals))
	for name, value := range totals {
		kvs = append(kvs, name, value)
	}

	logger.InfoKV(ctx, "Metrics summary", kvs...)
}
