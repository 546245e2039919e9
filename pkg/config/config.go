// Package config loads scribe settings with the precedence
// defaults < config file < SCRIBE_* environment < command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/praetorian-inc/scribe/pkg/report"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SCRIBE"

// Config is the resolved configuration threaded into every component.
type Config struct {
	Root          string
	IgnoreFile    string
	PageSize      int
	MaxFileSize   int64
	IncludeHidden bool
	Workers       int

	// Token limit overrides are kept raw and parsed leniently by Limits.
	ClaudeTokenLimit string
	GPTTokenLimit    string

	EditMode bool
	Exec     ExecConfig
	Cache    CacheConfig

	LogLevel  string
	LogFormat string
}

// ExecConfig controls the execute_command tool.
type ExecConfig struct {
	Enabled bool
	Timeout time.Duration
}

// CacheConfig controls the optional enumeration snapshot cache.
type CacheConfig struct {
	Enabled bool
	Size    int
	TTL     time.Duration
}

// Limits returns the token budgets, falling back to defaults for unusable overrides.
func (c *Config) Limits() report.Limits {
	return report.ParseLimits(c.ClaudeTokenLimit, c.GPTTokenLimit)
}

// NewViper returns a viper instance carrying the defaults and environment bindings.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("root", ".")
	v.SetDefault("ignore_file", "")
	v.SetDefault("page_size", 99000)
	v.SetDefault("max_file_size", 10*1024*1024)
	v.SetDefault("include_hidden", true)
	v.SetDefault("workers", 0)
	v.SetDefault("claude_token_limit", "")
	v.SetDefault("gpt_token_limit", "")
	v.SetDefault("edit_mode", true)
	v.SetDefault("exec.enabled", false)
	v.SetDefault("exec.timeout", 60*time.Second)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Unprefixed names are honoured for the token limits as well.
	_ = v.BindEnv("claude_token_limit", "SCRIBE_CLAUDE_TOKEN_LIMIT", "CLAUDE_TOKEN_LIMIT")
	_ = v.BindEnv("gpt_token_limit", "SCRIBE_GPT_TOKEN_LIMIT", "GPT_TOKEN_LIMIT")

	return v
}

// LoadDotEnv loads environment files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			logrus.WithError(err).WithField("file", f).Warn("reading env file")
		}
	}
}

// ReadFile reads configFile into v, or searches $HOME/.config/scribe and the
// working directory for scribe.{yaml,toml,json} when configFile is empty.
// A missing default config file is not an error.
func ReadFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "scribe"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("scribe")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logrus.Debug("no config file found, using defaults, environment and flags")
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	logrus.WithField("file", v.ConfigFileUsed()).Debug("using config file")
	return nil
}

// FromViper resolves v into a validated Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Root:             v.GetString("root"),
		IgnoreFile:       v.GetString("ignore_file"),
		PageSize:         v.GetInt("page_size"),
		MaxFileSize:      v.GetInt64("max_file_size"),
		IncludeHidden:    v.GetBool("include_hidden"),
		Workers:          v.GetInt("workers"),
		ClaudeTokenLimit: v.GetString("claude_token_limit"),
		GPTTokenLimit:    v.GetString("gpt_token_limit"),
		EditMode:         v.GetBool("edit_mode"),
		Exec: ExecConfig{
			Enabled: v.GetBool("exec.enabled"),
			Timeout: v.GetDuration("exec.timeout"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			Size:    v.GetInt("cache.size"),
			TTL:     v.GetDuration("cache.ttl"),
		},
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative, got %d", c.MaxFileSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Exec.Timeout <= 0 {
		return fmt.Errorf("exec.timeout must be positive, got %s", c.Exec.Timeout)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log_format: %q", c.LogFormat)
	}
	return nil
}

// ResolveRoot returns the absolute form of Root.
func (c *Config) ResolveRoot() (string, error) {
	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", c.Root, err)
	}
	return abs, nil
}
