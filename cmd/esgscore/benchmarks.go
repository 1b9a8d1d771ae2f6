package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newBenchmarksCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "benchmarks",
		Short: "Print the active emission factors, benchmark ranges and weights as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.loadConfig()
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
