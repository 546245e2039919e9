package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/praetorian-inc/scribe"
	"github.com/praetorian-inc/scribe/pkg/config"
	"github.com/praetorian-inc/scribe/pkg/enum"
)

var (
	configFile string
	verbose    bool
	quiet      bool

	v   = config.NewViper()
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Scribe - paginated codebase digests for language models",
	Long: `Scribe turns a codebase into a Markdown digest split into pages that fit
a model's context window, and serves it together with sandboxed file tools
over MCP or NDJSON.

Settings are read from scribe.yaml, SCRIBE_* environment variables and flags,
in increasing order of precedence.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default $HOME/.config/scribe/scribe.yaml or ./scribe.yaml)")
	pf.String("root", ".", "Codebase root directory")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text, json")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	bindFlags(v, map[string]string{
		"root":       "root",
		"log_level":  "log-level",
		"log_format": "log-format",
	}, rootCmd)
}

// bindFlags binds viper keys to the named flags of cmd.
func bindFlags(v *viper.Viper, keys map[string]string, cmd *cobra.Command) {
	for key, flag := range keys {
		f := cmd.PersistentFlags().Lookup(flag)
		if f == nil {
			f = cmd.Flags().Lookup(flag)
		}
		_ = v.BindPFlag(key, f)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()
	if err := config.ReadFile(v, configFile); err != nil {
		return err
	}
	c, err := config.FromViper(v)
	if err != nil {
		return err
	}
	switch {
	case verbose:
		c.LogLevel = "debug"
	case quiet:
		c.LogLevel = "error"
	}
	if err := config.ConfigureLogging(c, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	cfg = c
	return nil
}

// currentConfig returns the loaded configuration, or the defaults when a
// command runs without the root pre-run hook.
func currentConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	return config.FromViper(config.NewViper())
}

// newService builds a service for target, which may be a directory or a git
// URL. The returned cleanup function must always be called.
func newService(ctx context.Context, target string) (*scribe.Service, func(), error) {
	c, err := currentConfig()
	if err != nil {
		return nil, func() {}, err
	}
	local := *c
	cleanup := func() {}

	switch {
	case target == "":
	case enum.IsGitURL(target):
		dir, done, err := enum.CloneRepository(ctx, target)
		if err != nil {
			return nil, func() {}, err
		}
		local.Root = dir
		cleanup = done
	default:
		local.Root = target
	}

	svc, err := scribe.New(&local)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return svc, cleanup, nil
}

// commandContext returns cmd's context, or a background context for a command
// that was invoked directly rather than through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
