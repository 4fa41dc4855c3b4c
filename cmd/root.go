package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/codenav/internal/config"
	"github.com/zjrosen/codenav/internal/log"
	"github.com/zjrosen/codenav/internal/tracing"
)

// Default config location relative to the working directory.
const localConfigPath = ".codenav/config.yaml"

var version = "dev"

// app is the state shared by every command of one root.
type app struct {
	v *viper.Viper

	cfgFile  string
	debug    bool
	language string
	lexer    string
	asJSON   bool
	noColor  bool

	cfg      config.Config
	provider *tracing.Provider
	closeLog func()
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "codenav",
		Short: "Token-level code navigation, indentation and selection expansion",
		Long: `codenav navigates C++, R and R Markdown sources by token: it matches
brackets, finds statement and scope boundaries, computes the indentation
of the next line and grows a selection over structural units.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ~/.config/codenav/config.yaml)")
	flags.BoolVarP(&a.debug, "debug", "d", false, "write debug logs to the configured log file")
	flags.StringVarP(&a.language, "language", "l", "", "language name (default: from the file extension)")
	flags.StringVar(&a.lexer, "lexer", "", `lexer engine, "simple" or "chroma"`)
	flags.BoolVar(&a.asJSON, "json", false, "print results as JSON")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	_ = a.v.BindPFlag("lexer.engine", flags.Lookup("lexer"))

	root.AddCommand(
		newIndentCmd(a),
		newReindentCmd(a),
		newExpandCmd(a),
		newMatchCmd(a),
		newOutlineCmd(a),
		newTokensCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
	)
	return root
}

// initConfig seeds defaults, finds the config file and unmarshals it.
func (a *app) initConfig() error {
	v := a.v
	defaults := config.Defaults()
	v.SetDefault("indent.tab_size", defaults.Indent.TabSize)
	v.SetDefault("indent.soft_tabs", defaults.Indent.SoftTabs)
	v.SetDefault("indent.vertically_align_args", defaults.Indent.VerticallyAlignArgs)
	v.SetDefault("indent.print_margin_column", defaults.Indent.PrintMarginColumn)
	v.SetDefault("indent.macro_backslash_column", defaults.Indent.MacroBackslashColumn)
	v.SetDefault("indent.max_lookback_rows", defaults.Indent.MaxLookbackRows)
	v.SetDefault("indent.naked_lookback_rows", defaults.Indent.NakedLookbackRows)
	v.SetDefault("expand.history_limit", defaults.Expand.HistoryLimit)
	v.SetDefault("lexer.engine", defaults.Lexer.Engine)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("log_file", defaults.LogFile)

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		// Config lookup order:
		// 1. .codenav/config.yaml (current directory)
		// 2. ~/.config/codenav/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			v.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "codenav"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// No config file anywhere: create the default one and carry on
			// with defaults if that fails.
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				v.SetConfigFile(localConfigPath)
				_ = v.ReadInConfig()
			}
		case errors.Is(err, os.ErrNotExist):
			// An explicit --config that does not exist yet.
		default:
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if a.cfg.Tracing.FilePath == "" {
		a.cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	return a.cfg.Validate()
}

// configPath is the file `config` subcommands edit.
func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.initConfig(); err != nil {
		return err
	}

	if a.debug || os.Getenv("CODENAV_DEBUG") != "" {
		logPath := a.cfg.LogFile
		if logPath == "" {
			logPath = config.DefaultLogFilePath()
		}
		closeLog, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		a.closeLog = closeLog
		log.Info(log.CatCLI, "command started", "command", cmd.CommandPath(), "config", a.v.ConfigFileUsed())
	}

	provider, err := tracing.NewProvider(a.cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	a.provider = provider

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(tracing.ContextWithTracer(ctx, provider.Tracer()))
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	var err error
	if a.provider != nil {
		err = a.provider.Shutdown(ctx)
		a.provider = nil
	}
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
	return err
}

// run adapts a traced command body to cobra.
func (a *app) run(name string, fn tracing.RunFunc) func(*cobra.Command, []string) error {
	wrapped := tracing.WrapCommand(name, fn)
	return func(cmd *cobra.Command, args []string) error {
		err := wrapped(cmd.Context(), args)
		if err != nil {
			log.ErrorErr(log.CatCLI, "command failed", err, "command", name)
		}
		return err
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
