package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the CONCURBENCH_ prefix) to the flag
// it corresponds to and a function that applies the env value. Values that
// fail to parse are ignored.
type envOverride struct {
	envKey string
	flag   string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"STRATEGY", "", func(c *AppConfig, v string) {
		c.Strategy = v
	}},
	{"POOL_SIZE", "pool-size", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.PoolSize = parsed
		}
	}},
	{"SCALE", "scale", func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Scale = parsed
		}
	}},
	{"FAIL_OP", "fail-op", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.FailOp = parsed
		}
	}},

	{"TIMEOUT", "timeout", func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	{"FAIL_POLICY", "fail-policy", func(c *AppConfig, v string) {
		c.FailurePolicy = v
	}},
	{"THEME", "theme", func(c *AppConfig, v string) {
		c.Theme = v
	}},
	{"METRICS_ADDR", "metrics-addr", func(c *AppConfig, v string) {
		c.MetricsAddr = v
	}},

	{"VERBOSE", "verbose", func(c *AppConfig, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"QUIET", "quiet", func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"WORKERS", "workers", func(c *AppConfig, v string) {
		c.ShowWorkers = parseBoolEnv(v, c.ShowWorkers)
	}},
	{"JSON", "json", func(c *AppConfig, v string) {
		c.JSON = parseBoolEnv(v, c.JSON)
	}},
	{"NO_COLOR", "no-color", func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"TUI", "tui", func(c *AppConfig, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
// An override without a flag (STRATEGY, a positional argument) applies only
// while the field still holds its default.
func applyEnvOverrides(config *AppConfig, fs *pflag.FlagSet) {
	for _, o := range envOverrides {
		if o.flag != "" && fs != nil && fs.Changed(o.flag) {
			continue
		}
		if o.flag == "" && !isDefault(*config, o.envKey) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}

func isDefault(c AppConfig, envKey string) bool {
	switch envKey {
	case "STRATEGY":
		return c.Strategy == Default().Strategy
	}
	return true
}
