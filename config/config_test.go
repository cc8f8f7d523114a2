package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/chatcost/model"
	"github.com/randalmurphal/chatcost/tokens"
)

func ptr(f float64) *float64 { return &f }

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	p, err := cfg.Pricing()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPricing(), p)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "whitespace", cfg.Estimator)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestConfig_Pricing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    model.Pricing
		wantErr bool
	}{
		{
			name: "model preset",
			cfg:  Config{Model: "claude-opus-4-5-20251101"},
			want: model.Pricing{InputPerMillion: 15, OutputPerMillion: 75},
		},
		{
			name: "explicit rate overrides preset",
			cfg:  Config{Model: "opus", OutputRate: ptr(60)},
			want: model.Pricing{InputPerMillion: 15, OutputPerMillion: 60},
		},
		{
			name: "explicit zero rate",
			cfg:  Config{InputRate: ptr(0)},
			want: model.Pricing{InputPerMillion: 0, OutputPerMillion: 15},
		},
		{
			name:    "unknown model",
			cfg:     Config{Model: "gpt-4o"},
			wantErr: true,
		},
		{
			name:    "negative rate",
			cfg:     Config{InputRate: ptr(-3)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Pricing()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"json format", func(c *Config) { c.Format = FormatJSON }, false},
		{"chars estimator", func(c *Config) { c.Estimator = "chars" }, false},
		{"negative output rate", func(c *Config) { c.OutputRate = ptr(-1) }, true},
		{"unknown format", func(c *Config) { c.Format = "csv" }, true},
		{"unknown estimator", func(c *Config) { c.Estimator = "bpe" }, true},
		{"negative parallel", func(c *Config) { c.Parallel = -2 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"negative chars per token", func(c *Config) { c.CharsPerToken = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			}
		})
	}
}

func TestConfig_LoadFile(t *testing.T) {
	t.Run("toml", func(t *testing.T) {
		path := writeConfig(t, "chatcost.toml", `
input_rate = 2.5
model = "sonnet"
detailed = true
parallel = 4
log_level = "debug"
`)
		cfg := DefaultConfig()
		require.NoError(t, cfg.LoadFile(path))

		require.NotNil(t, cfg.InputRate)
		assert.Equal(t, 2.5, *cfg.InputRate)
		assert.Nil(t, cfg.OutputRate)
		assert.Equal(t, "sonnet", cfg.Model)
		assert.True(t, cfg.Detailed)
		assert.Equal(t, 4, cfg.Parallel)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, FormatText, cfg.Format, "unset keys keep defaults")
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeConfig(t, "chatcost.yml", "output_rate: 75\nformat: json\ntotals: true\n")
		cfg := DefaultConfig()
		require.NoError(t, cfg.LoadFile(path))

		require.NotNil(t, cfg.OutputRate)
		assert.Equal(t, 75.0, *cfg.OutputRate)
		assert.Equal(t, FormatJSON, cfg.Format)
		assert.True(t, cfg.Totals)
	})

	t.Run("json", func(t *testing.T) {
		path := writeConfig(t, "chatcost.json", `{"estimator": "chars", "input_rate": 1}`)
		cfg := DefaultConfig()
		require.NoError(t, cfg.LoadFile(path))

		assert.Equal(t, "chars", cfg.Estimator)
		require.NotNil(t, cfg.InputRate)
		assert.Equal(t, 1.0, *cfg.InputRate)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfig(t, "chatcost.ini", "x=1")
		cfg := DefaultConfig()
		assert.Error(t, cfg.LoadFile(path))
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeConfig(t, "chatcost.toml", "input_rate = = 1")
		cfg := DefaultConfig()
		assert.Error(t, cfg.LoadFile(path))
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.LoadFile(filepath.Join(t.TempDir(), "none.toml"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("CHATCOST_INPUT_RATE", "1.25")
	t.Setenv("CHATCOST_OUTPUT_RATE", "not-a-number")
	t.Setenv("CHATCOST_MODEL", "haiku")
	t.Setenv("CHATCOST_ESTIMATOR", "chars")
	t.Setenv("CHATCOST_FORMAT", "json")
	t.Setenv("CHATCOST_LOG_LEVEL", "info")
	t.Setenv("CHATCOST_CHARS_PER_TOKEN", "3.5")
	t.Setenv("CHATCOST_DETAILED", "true")
	t.Setenv("CHATCOST_TOTALS", "1")
	t.Setenv("CHATCOST_PARALLEL", "6")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	require.NotNil(t, cfg.InputRate)
	assert.Equal(t, 1.25, *cfg.InputRate)
	assert.Nil(t, cfg.OutputRate, "unparsable numbers are ignored")
	assert.Equal(t, "haiku", cfg.Model)
	assert.Equal(t, "chars", cfg.Estimator)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3.5, cfg.CharsPerToken)
	assert.True(t, cfg.Detailed)
	assert.True(t, cfg.Totals)
	assert.Equal(t, 6, cfg.Parallel)

	p, err := cfg.Pricing()
	require.NoError(t, err)
	assert.Equal(t, 1.25, p.InputPerMillion)
	assert.Equal(t, model.ModelPrices[model.ModelHaiku].OutputPerMillion, p.OutputPerMillion)
}

func TestConfig_LoadFromEnv_OverridesFile(t *testing.T) {
	path := writeConfig(t, "chatcost.toml", "parallel = 2\ndetailed = true\n")
	t.Setenv("CHATCOST_PARALLEL", "8")
	t.Setenv("CHATCOST_DETAILED", "false")
	t.Setenv("CHATCOST_TOTALS", "maybe")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFile(path))
	cfg.LoadFromEnv()

	assert.Equal(t, 8, cfg.Parallel)
	assert.False(t, cfg.Detailed)
	assert.False(t, cfg.Totals, "unparsable booleans are ignored")
}

func TestConfig_Counter(t *testing.T) {
	t.Run("whitespace ignores ratio", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CharsPerToken = 2
		c, err := cfg.Counter()
		require.NoError(t, err)
		assert.IsType(t, &tokens.WhitespaceCounter{}, c)
		assert.Equal(t, 2, c.Count("abcd efgh"))
	})

	t.Run("chars with default ratio", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Estimator = tokens.EstimatorChars
		c, err := cfg.Counter()
		require.NoError(t, err)
		assert.Equal(t, 2, c.Count("abcdefgh"))
	})

	t.Run("chars with custom ratio", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Estimator = tokens.EstimatorChars
		cfg.CharsPerToken = 2
		c, err := cfg.Counter()
		require.NoError(t, err)
		assert.Equal(t, 4, c.Count("abcdefgh"))
	})

	t.Run("unknown estimator", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Estimator = "bpe"
		_, err := cfg.Counter()
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})
}
