// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads cmdbind settings from an optional YAML file and
// command-line flags.
package config

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/cmdbind/internal/command"
	"github.com/holomush/cmdbind/internal/logging"
)

// Error codes.
const (
	CodeLoadFailed    = "CONFIG_LOAD_FAILED"
	CodeInvalidConfig = "INVALID_CONFIG"
)

// Default values.
const (
	DefaultLogFormat = logging.FormatText
	DefaultLogLevel  = "warn"
)

// Config holds all cmdbind settings. Keys match flag names; nested keys use
// "." as the delimiter (rate-limit.burst).
type Config struct {
	LogFormat   string          `koanf:"log-format"`
	LogLevel    string          `koanf:"log-level"`
	MetricsAddr string          `koanf:"metrics-addr"`
	Prefix      string          `koanf:"prefix"`
	Scripts     []string        `koanf:"scripts"`
	RateLimit   RateLimitConfig `koanf:"rate-limit"`
}

// RateLimitConfig configures per-sender dispatch rate limiting.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	Burst   int     `koanf:"burst"`
	Rate    float64 `koanf:"rate"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogFormat: DefaultLogFormat,
		LogLevel:  DefaultLogLevel,
		RateLimit: RateLimitConfig{
			Burst: command.DefaultBurstCapacity,
			Rate:  command.DefaultSustainedRate,
		},
	}
}

// RegisterFlags adds a flag for every configuration key to fs, with the
// built-in defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("log-format", d.LogFormat, "log format (json or text)")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.String("metrics-addr", d.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("prefix", d.Prefix, "prefix stripped from command names, such as /")
	fs.StringSlice("scripts", d.Scripts, "command pack directories to load")
	fs.Bool("rate-limit.enabled", d.RateLimit.Enabled, "rate limit player senders")
	fs.Int("rate-limit.burst", d.RateLimit.Burst, "commands a sender may issue in a burst")
	fs.Float64("rate-limit.rate", d.RateLimit.Rate, "sustained commands per second")
}

// Load reads path (if not empty) and then fs (if not nil). Flags the user set
// override the file; flag defaults only fill keys the file left out.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.In("config").Code(CodeLoadFailed).
				With("path", path).
				Wrapf(err, "load config file")
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Config{}, oops.In("config").Code(CodeLoadFailed).Wrapf(err, "load flags")
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, oops.In("config").Code(CodeLoadFailed).
			With("path", path).
			Wrapf(err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c Config) Validate() error {
	invalid := oops.In("config").Code(CodeInvalidConfig)

	if c.LogFormat != logging.FormatJSON && c.LogFormat != logging.FormatText {
		return invalid.With("log-format", c.LogFormat).
			Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid.With("log-level", c.LogLevel).
			Errorf("log-level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if strings.IndexFunc(c.Prefix, unicode.IsSpace) >= 0 {
		return invalid.With("prefix", c.Prefix).Errorf("prefix must not contain whitespace")
	}
	for _, dir := range c.Scripts {
		if strings.TrimSpace(dir) == "" {
			return invalid.Errorf("scripts entries must not be empty")
		}
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Burst <= 0 {
			return invalid.With("rate-limit.burst", c.RateLimit.Burst).
				Errorf("rate-limit.burst must be positive")
		}
		if c.RateLimit.Rate < command.MinSustainedRate {
			return invalid.With("rate-limit.rate", c.RateLimit.Rate).
				Errorf("rate-limit.rate must be at least %v", command.MinSustainedRate)
		}
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c Config) Level() slog.Level {
	lvl, _ := logging.ParseLevel(c.LogLevel)
	return lvl
}

// RateLimiterConfig converts the rate-limit section for command.NewRateLimiter.
func (c Config) RateLimiterConfig() command.RateLimiterConfig {
	return command.RateLimiterConfig{
		BurstCapacity: c.RateLimit.Burst,
		SustainedRate: c.RateLimit.Rate,
	}
}
