// Package cli provides the drive-etl command line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driving"
	"github.com/custodia-labs/drive-etl/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services wires the CLI to its adapters.
type Services struct {
	// OpenConfigStore opens the config store in dir; empty dir means the default.
	OpenConfigStore func(dir string) (driven.ConfigStore, error)

	// NewExtractor builds an extractor for one run. keyFile is the credential
	// path chosen by flag or config; empty lets the resolver fall back to
	// the environment.
	NewExtractor func(store driven.ConfigStore, keyFile string) driving.Extractor

	// ExportDefaults returns the export map used by --export-defaults.
	ExportDefaults func() map[string]string
}

var services *Services

// SetServices sets the adapters used by every command.
func SetServices(s *Services) {
	services = s
}

var rootCmd = &cobra.Command{
	Use:   "drive-etl",
	Short: "Extract and transform files from a Google Drive folder",
	Long: `drive-etl lists the files of a Google Drive folder, downloads them one at a
time and converts them on the way: Markdown becomes HTML, JSON is compacted
and everything else passes through unchanged.

Results are printed as JSON lines, or written to a directory with --output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.drive-etl)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openStore opens the config store selected by --config-dir.
// It returns nil without error when no store is wired.
func openStore() (driven.ConfigStore, error) {
	if services == nil || services.OpenConfigStore == nil {
		return nil, nil
	}
	return services.OpenConfigStore(configDir)
}

func requireStore() (driven.ConfigStore, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("config store not configured")
	}
	return store, nil
}
