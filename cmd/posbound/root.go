package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"posbound/internal/agentdb"
	"posbound/internal/config"
	"posbound/internal/extrema"
	"posbound/internal/format"
	"posbound/internal/logging"
	"posbound/internal/store"
)

// app carries state resolved once per invocation and shared by all commands.
type app struct {
	flags struct {
		config    string
		db        string
		cache     string
		workers   int
		output    string
		logLevel  string
		logFormat string
	}
	cfg    config.Config
	sentry bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "posbound",
		Short: "Exact position bounds for frozen and chilled agents",
		Long: "posbound computes the leftmost and rightmost position an agent can reach\n" +
			"after a number of ticks, given the ticks at which it may be frozen.",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	def := config.Default()
	f := root.PersistentFlags()
	f.StringVar(&a.flags.config, "config", "", "YAML config file")
	f.StringVar(&a.flags.db, "db", "", "Agent database YAML (default: bundled)")
	f.StringVar(&a.flags.cache, "cache", "", "SQLite result cache, e.g. "+store.DefaultDBPath+" (default: no cache)")
	f.IntVar(&a.flags.workers, "workers", def.Workers, "Goroutines evaluating speed intervals")
	f.StringVarP(&a.flags.output, "output", "o", def.Output, "Output format (ascii, markdown, json)")
	f.StringVar(&a.flags.logLevel, "log-level", def.Log.Level, "Log level (debug, info, warn, error)")
	f.StringVar(&a.flags.logFormat, "log-format", def.Log.Format, "Log format (text, json)")

	root.AddCommand(newBoundsCmd(a))
	root.AddCommand(newBatchCmd(a))
	root.AddCommand(newAgentsCmd(a))
	root.AddCommand(newCacheCmd(a))
	return root
}

// setup resolves configuration in order: defaults, config file, environment, flags.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.flags.config != "" {
		var err error
		if cfg, err = config.LoadFromPath(a.flags.config); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("db") {
		cfg.Database = a.flags.db
	}
	if f.Changed("cache") {
		cfg.Cache = a.flags.cache
	}
	if f.Changed("workers") {
		cfg.Workers = a.flags.workers
	}
	if f.Changed("output") {
		cfg.Output = a.flags.output
	}
	if f.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if f.Changed("log-format") {
		cfg.Log.Format = a.flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.Init(level, cfg.Log.Format, cmd.ErrOrStderr())

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Release: "posbound@" + version}); err != nil {
			logging.New("cli").Warn("sentry disabled", "error", err)
		} else {
			a.sentry = true
		}
	}
	return nil
}

// database loads the configured agent database.
func (a *app) database() (*agentdb.Registry, error) {
	if a.cfg.Database == "" {
		return agentdb.Default()
	}
	return agentdb.LoadFromPath(a.cfg.Database)
}

func (a *app) engine(reg *agentdb.Registry) *extrema.Engine {
	return extrema.New(reg, extrema.WithWorkers(a.cfg.Workers))
}

// openStore returns the configured cache, or nil when caching is off.
func (a *app) openStore() (store.Store, error) {
	if a.cfg.Cache == "" {
		return nil, nil
	}
	return store.Open(a.cfg.Cache)
}

// render writes v as indented JSON, or calls table with the configured Mode.
func (a *app) render(w io.Writer, v any, table func(format.Mode) string) error {
	if a.cfg.Output == config.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	mode, err := format.ParseMode(a.cfg.Output)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table(mode))
	return err
}
