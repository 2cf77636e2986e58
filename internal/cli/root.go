// Package cli defines the cobra command tree for ckn.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jfavela/checkin-normalizer/internal/config"
	"github.com/jfavela/checkin-normalizer/internal/prompt"
)

var (
	flagSettings string
	flagVerbose  bool
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ckn",
		Short:         "Normalize monthly visitor check-in CSV files",
		Long:          "A tool to normalize monthly visitor check-in CSV files. Groups check-ins by visitor, tops up visitors below their configured visit quota with randomized synthetic check-ins, and writes a sorted, normalized CSV per input file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagSettings, "settings", "settings.yaml", "path to the settings file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)

	return root
}

// loadSettings loads the settings file named by the --settings flag.
func loadSettings() (*config.Settings, error) {
	return config.Load(flagSettings)
}

// newQuotaSource builds the quota resolver: interactive when the settings
// ask for it, otherwise configured entries with defaults.
func newQuotaSource(s *config.Settings) prompt.Source {
	if s.AskForMissingEntries {
		return prompt.NewInteractive(s.QuotaFor, s.DefaultQuota(), os.Stdin, os.Stdout)
	}
	return prompt.NewStatic(s.QuotaFor, s.DefaultQuota())
}
