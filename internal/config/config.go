// Package config loads the checker's run configuration from a YAML file,
// the way an agent process loads its config block: a typed struct with
// yaml tags, defaults applied after parse, and every field also settable
// from an environment variable so a CI job can override one knob without
// checking in a new file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sail-lang/sailcheck/internal/env"
)

// Config is the on-disk shape of a sailcheck.yaml project file.
type Config struct {
	// Solver names the oracle backend to use; "" selects the default.
	Solver string `yaml:"solver"`

	// Policy carries the five process-wide checker toggles.
	Policy PolicyConfig `yaml:"policy"`

	// Sources lists the Sail source files to check, in order.
	Sources []string `yaml:"sources"`
}

// PolicyConfig mirrors env.Policy with yaml tags; ToPolicy converts it.
type PolicyConfig struct {
	TCDebug            bool `yaml:"tc_debug"`
	NoEffects          bool `yaml:"no_effects"`
	NoLExprBoundsCheck bool `yaml:"no_lexpr_bounds_check"`
	ConstraintSynonyms bool `yaml:"constraint_synonyms"`
	ExpandValSpec      bool `yaml:"expand_valspec"`
}

func (p PolicyConfig) ToPolicy() env.Policy {
	return env.Policy{
		TCDebug:            p.TCDebug,
		NoEffects:          p.NoEffects,
		NoLExprBoundsCheck: p.NoLExprBoundsCheck,
		ConstraintSynonyms: p.ConstraintSynonyms,
		ExpandValSpec:      p.ExpandValSpec,
	}
}

// defaults applied after parsing, mirroring Sail's own default policy: all
// toggles off, the default (Omega) solver, constraint-synonym expansion on
// since most specs declare at least one.
func defaults() Config {
	return Config{
		Solver: "",
		Policy: PolicyConfig{ConstraintSynonyms: true},
	}
}

// Load reads and parses the YAML file at path, applying defaults for
// unset fields and then environment-variable overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides lets SAILCHECK_SOLVER and the SAILCHECK_POLICY_* family
// override the parsed file without editing it, the pattern a deployed
// checker needs for one-off CI tweaks.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SAILCHECK_SOLVER"); v != "" {
		cfg.Solver = v
	}
	boolEnv("SAILCHECK_POLICY_TC_DEBUG", &cfg.Policy.TCDebug)
	boolEnv("SAILCHECK_POLICY_NO_EFFECTS", &cfg.Policy.NoEffects)
	boolEnv("SAILCHECK_POLICY_NO_LEXPR_BOUNDS_CHECK", &cfg.Policy.NoLExprBoundsCheck)
	boolEnv("SAILCHECK_POLICY_CONSTRAINT_SYNONYMS", &cfg.Policy.ConstraintSynonyms)
	boolEnv("SAILCHECK_POLICY_EXPAND_VALSPEC", &cfg.Policy.ExpandValSpec)
}

func boolEnv(name string, dst *bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}

// Marshal renders cfg back to YAML, used by `sailcheck config init` to
// write out a starter file.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
