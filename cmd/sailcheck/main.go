// Command sailcheck is the checker's external driver. It reads a
// JSON-encoded definition stream (the parser boundary this engine sits
// behind), runs the top-level checker, and reports either the checked
// program's summary or the structured, colorized diagnostic for the first
// failing definition.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sail-lang/sailcheck/internal/config"
	"github.com/sail-lang/sailcheck/internal/env"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "sailcheck",
		Short: "Type-checker for Sail definition streams",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a sailcheck.yaml config file")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newConfigCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads cfgPath if set, otherwise returns the default config
// (no sources, the default solver, the default policy).
func loadConfig() (config.Config, error) {
	if cfgPath == "" {
		return config.Config{Policy: config.PolicyConfig{ConstraintSynonyms: true}}, nil
	}
	return config.Load(cfgPath)
}

// newSession builds an env.Session from a loaded config, wiring its
// policy and oracle solver choice.
func newSession(cfg config.Config) (*env.Session, error) {
	policy := cfg.Policy.ToPolicy()
	s, err := env.NewSession(policy, cfg.Solver)
	if err != nil {
		return nil, fmt.Errorf("initializing checker session: %w", err)
	}
	return s, nil
}

func newConfigCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "config init",
		Short: "Write a starter sailcheck.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(config.Config{
				Solver:  "omega",
				Policy:  config.PolicyConfig{ConstraintSynonyms: true},
				Sources: []string{"module.json"},
			})
			if err != nil {
				return err
			}
			if outPath == "-" || outPath == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(outPath, data, 0644)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "sailcheck.yaml", "output path, or - for stdout")
	return cmd
}
