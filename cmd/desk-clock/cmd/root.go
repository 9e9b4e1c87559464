package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/desk-clock/internal/config"
	"github.com/oshokin/desk-clock/internal/logger"
	"github.com/oshokin/desk-clock/internal/service/deskclock"
	"github.com/oshokin/desk-clock/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// initialState overrides the configured initial state.
	initialState string
	// lookupPolicy overrides the configured lookup policy.
	lookupPolicy string

	// rootCmd represents the base command running the clock.
	rootCmd = &cobra.Command{
		Use:   "desk-clock",
		Short: "Run the desk clock in the terminal.",
		Long: `Desk clock driven by a push-button and a rotary encoder, simulated on the keyboard.

The clock has four screens: current time, time setting, alarm time and alarm
status. A short press on the time screen starts setting the time, the knob
changes it, and another press commits it. Turning the knob on the time screen
opens the alarm screens; a long press toggles the alarm.

Keys:
  space, enter   short press
  l              long press
  + = k ]        turn clockwise
  - j [          turn counter-clockwise
  q, Ctrl-C      quit

Settings are read from the configuration file; a missing default file means defaults.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			return deskclock.Run(ctx, &deskclock.Options{
				ConfigPath:   configPath,
				LogLevel:     logLevel,
				InitialState: initialState,
				LookupPolicy: lookupPolicy,
			})
		},
	}
)

// Execute runs the desk-clock CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Config path is shared by every subcommand.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to configuration file (default "+config.DefaultConfigFilename+" if present)")

	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVarP(&initialState, "initial-state", "s", "", "screen to start on, e.g. show-alarm-time")
	rootCmd.Flags().StringVar(&lookupPolicy, "policy", "", "table lookup policy: strict or fallback")

	rootCmd.AddCommand(tableCmd, initConfigCmd)
}
