// Package config holds run configuration for chatcost.
//
// Values are layered: DefaultConfig, then an optional TOML, YAML or JSON
// file, then CHATCOST_* environment variables, then command-line flags.
// Call Validate before use; the resulting Pricing is fixed for the run.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/chatcost/model"
	"github.com/randalmurphal/chatcost/tokens"
)

// ErrInvalidConfig indicates a configuration value failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds settings for a replay run.
type Config struct {
	// InputRate and OutputRate are dollars per million tokens. Nil means
	// unset: the Model's list price is used, or the defaults (3 and 15).
	InputRate  *float64 `json:"input_rate,omitempty" yaml:"input_rate" toml:"input_rate"`
	OutputRate *float64 `json:"output_rate,omitempty" yaml:"output_rate" toml:"output_rate"`

	// Model selects list pricing by family or full name, e.g. "opus" or
	// "claude-sonnet-4-20250514". Explicit rates take precedence.
	Model string `json:"model,omitempty" yaml:"model" toml:"model"`

	// Estimator names the token counter: "whitespace" (default) or "chars".
	Estimator string `json:"estimator" yaml:"estimator" toml:"estimator"`

	// CharsPerToken tunes the "chars" estimator. 0 uses its default ratio.
	CharsPerToken float64 `json:"chars_per_token,omitempty" yaml:"chars_per_token" toml:"chars_per_token"`

	// Format is the report format: "text" or "json".
	Format string `json:"format" yaml:"format" toml:"format"`

	// Detailed prints per-message breakdowns and per-conversation costs.
	Detailed bool `json:"detailed" yaml:"detailed" toml:"detailed"`

	// Totals prints a grand total across all replayed conversations.
	Totals bool `json:"totals" yaml:"totals" toml:"totals"`

	// Parallel is the number of conversations replayed at once.
	// 0 or 1 replays sequentially.
	Parallel int `json:"parallel" yaml:"parallel" toml:"parallel"`

	// LogLevel is a slog level name: debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// DefaultConfig returns a Config with default settings.
func DefaultConfig() Config {
	return Config{
		Estimator: tokens.EstimatorWhitespace,
		Format:    FormatText,
		LogLevel:  "warn",
	}
}

// LoadFile merges settings from a config file into c. The format is chosen
// by extension: .toml, .yaml/.yml or .json.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parse toml config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse json config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the CHATCOST_ prefix and take precedence over
// existing values. Unparsable numbers are ignored.
//
// Supported variables:
//   - CHATCOST_INPUT_RATE: Input dollars per million tokens
//   - CHATCOST_OUTPUT_RATE: Output dollars per million tokens
//   - CHATCOST_MODEL: Model pricing preset
//   - CHATCOST_ESTIMATOR: Token estimator name
//   - CHATCOST_CHARS_PER_TOKEN: Ratio for the chars estimator
//   - CHATCOST_FORMAT: Report format
//   - CHATCOST_DETAILED: Per-message breakdown (true/false)
//   - CHATCOST_TOTALS: Grand total (true/false)
//   - CHATCOST_PARALLEL: Conversations replayed at once
//   - CHATCOST_LOG_LEVEL: Log level
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("CHATCOST_INPUT_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.InputRate = &f
		}
	}
	if v := os.Getenv("CHATCOST_OUTPUT_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.OutputRate = &f
		}
	}
	if v := os.Getenv("CHATCOST_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("CHATCOST_ESTIMATOR"); v != "" {
		c.Estimator = v
	}
	if v := os.Getenv("CHATCOST_CHARS_PER_TOKEN"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.CharsPerToken = f
		}
	}
	if v := os.Getenv("CHATCOST_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("CHATCOST_DETAILED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Detailed = b
		}
	}
	if v := os.Getenv("CHATCOST_TOTALS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Totals = b
		}
	}
	if v := os.Getenv("CHATCOST_PARALLEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Parallel = n
		}
	}
	if v := os.Getenv("CHATCOST_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Pricing resolves the rates for the run.
func (c *Config) Pricing() (model.Pricing, error) {
	p := model.DefaultPricing()
	if c.Model != "" {
		preset, err := model.LookupPricing(c.Model)
		if err != nil {
			return model.Pricing{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		p = preset
	}
	if c.InputRate != nil {
		p.InputPerMillion = *c.InputRate
	}
	if c.OutputRate != nil {
		p.OutputPerMillion = *c.OutputRate
	}
	if err := p.Validate(); err != nil {
		return model.Pricing{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// Counter builds the configured token estimator.
func (c *Config) Counter() (tokens.Counter, error) {
	if c.CharsPerToken < 0 || math.IsNaN(c.CharsPerToken) || math.IsInf(c.CharsPerToken, 0) {
		return nil, fmt.Errorf("%w: chars_per_token must be a finite number >= 0, got %v", ErrInvalidConfig, c.CharsPerToken)
	}
	counter, err := tokens.NewCounter(c.Estimator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, ok := counter.(*tokens.EstimatingCounter); ok && c.CharsPerToken > 0 {
		return tokens.NewEstimatingCounterWithRatio(c.CharsPerToken), nil
	}
	return counter, nil
}

// Level returns the parsed log level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return lvl, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Pricing(); err != nil {
		return err
	}
	if _, err := c.Counter(); err != nil {
		return err
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: format must be %q or %q, got %q", ErrInvalidConfig, FormatText, FormatJSON, c.Format)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("%w: parallel must be >= 0, got %d", ErrInvalidConfig, c.Parallel)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}
