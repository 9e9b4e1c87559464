package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/desk-clock/internal/config"
)

// errConfigExists is returned when init-config would overwrite a file without --force.
var errConfigExists = errors.New("configuration file already exists")

// force allows init-config to overwrite an existing file.
//
//nolint:gochecknoglobals // Cobra flag storage.
var force bool

// initConfigCmd writes the default settings to the configuration file.
//
//nolint:gochecknoglobals // Cobra commands are package-level by convention.
var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default configuration file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultConfigFilename
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%w: %s", errConfigExists, path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat settings: %w", err)
		}

		if err := config.Save(path, config.Default()); err != nil {
			return err
		}

		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

		return err
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initConfigCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
}
