package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mandar-Sonkusare/esg/internal/scoring"
)

var version = "1.0.0"

// rootFlags are shared by every subcommand
type rootFlags struct {
	configPath string
}

// loadConfig returns the tables from --config, or the defaults
func (f *rootFlags) loadConfig() (scoring.Config, error) {
	if f.configPath == "" {
		return scoring.DefaultConfig(), nil
	}
	return scoring.LoadConfig(f.configPath)
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:           "esgscore",
		Short:         "Score ESG submissions offline and inspect the scoring tables",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "YAML scoring config layered over the defaults")

	root.AddCommand(newScoreCmd(f))
	root.AddCommand(newBenchmarksCmd(f))

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
