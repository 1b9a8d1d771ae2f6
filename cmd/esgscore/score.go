package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Mandar-Sonkusare/esg/internal/scoring"
	"github.com/Mandar-Sonkusare/esg/internal/validation"
)

func newScoreCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "score <input-file>",
		Short: "Validate and score one submission (JSON, or YAML by extension)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.loadConfig()
			if err != nil {
				return err
			}

			result, err := scoreFile(scoring.New(cfg), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

// scoreFile runs a file through the same validation as the API
func scoreFile(engine *scoring.Engine, path string) (scoring.Result, error) {
	raw, err := readInput(path)
	if err != nil {
		return scoring.Result{}, err
	}

	in, err := validation.Decode(raw)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("%s: %w", path, err)
	}

	return engine.ComputeScores(in), nil
}

// readInput returns the file as JSON, converting YAML documents first
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return json.Marshal(doc)
	default:
		return data, nil
	}
}
