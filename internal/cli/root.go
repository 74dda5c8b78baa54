// Package cli wires the usermgmt commands: the web server, one-shot user
// commands and the interactive terminal loop.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-usermgmt/internal/config"
	"github.com/goliatone/go-usermgmt/internal/logging"
	"github.com/goliatone/go-usermgmt/internal/metrics"
	"github.com/goliatone/go-usermgmt/pkg/apiclient"
	"github.com/goliatone/go-usermgmt/pkg/fields"
	"github.com/goliatone/go-usermgmt/pkg/query"
	"github.com/goliatone/go-usermgmt/pkg/renderers/tui"
)

// Option customises the command tree, mainly for tests.
type Option func(*app)

// WithPromptDriver replaces the survey driver.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// WithOutput redirects command output and logs.
func WithOutput(out io.Writer) Option {
	return func(a *app) {
		if out != nil {
			a.out = out
		}
	}
}

// WithWidth fixes the terminal width instead of probing stdout.
func WithWidth(width int) Option {
	return func(a *app) {
		a.width = width
	}
}

// app carries the flags and the dependencies built from them.
type app struct {
	configPath string
	logLevel   string
	apiURL     string

	out    io.Writer
	driver tui.PromptDriver
	width  int

	cfg      *config.Config
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	registry *fields.Registry
	users    *query.Users
	prompter *tui.Prompter
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{out: os.Stdout, width: -1}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:           "usermgmt",
		Short:         "Manage users of the users REST service",
		Long:          `usermgmt lists, adds, edits and deletes users from a browser page or the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setUp(cmd)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log", "", "sets the log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "base URL of the users REST service")

	root.AddCommand(newServeCommand(a), newUsersCommand(a), newTUICommand(a))
	return root
}

// Execute runs the command tree against os.Args.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setUp loads configuration, applies flag overrides and builds the shared
// dependencies.
func (a *app) setUp(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger = logging.Setup(cfg.Log.Level, cfg.Log.Pretty, cmd.ErrOrStderr())

	registry, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	a.registry = registry

	a.metrics = metrics.New(true)
	clientOpts := append(cfg.ClientOptions(),
		apiclient.WithLogger(a.logger.With().Str("component", "apiclient").Logger()),
		apiclient.WithObserver(a.metrics),
	)
	client, err := apiclient.New(cfg.API.BaseURL, clientOpts...)
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	cache := query.NewCache(
		query.WithCacheObserver(a.metrics),
		query.WithCacheLogger(a.logger.With().Str("component", "cache").Logger()),
	)
	a.users = query.NewUsers(client, cache, query.WithUsersLogger(a.logger.With().Str("component", "query").Logger()))

	promptOpts := []tui.Option{tui.WithOutput(cmd.OutOrStdout())}
	if a.driver != nil {
		promptOpts = append(promptOpts, tui.WithPromptDriver(a.driver))
	}
	a.prompter = tui.New(promptOpts...)
	return nil
}
