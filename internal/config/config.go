// Package config provides configuration types and defaults for codenav.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/codenav/internal/log"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration options for codenav.
type Config struct {
	Indent  IndentConfig  `mapstructure:"indent"`
	Expand  ExpandConfig  `mapstructure:"expand"`
	Lexer   LexerConfig   `mapstructure:"lexer"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Cache   CacheConfig   `mapstructure:"cache"`
	LogFile string        `mapstructure:"log_file"`
}

// IndentConfig drives the indentation engines.
type IndentConfig struct {
	TabSize  int  `mapstructure:"tab_size"`
	SoftTabs bool `mapstructure:"soft_tabs"` // Indent with spaces instead of "\t"

	// VerticallyAlignArgs aligns continuation lines with the first argument
	// after an unmatched opener instead of indenting one level.
	VerticallyAlignArgs bool `mapstructure:"vertically_align_args"`

	PrintMarginColumn    int `mapstructure:"print_margin_column"`
	MacroBackslashColumn int `mapstructure:"macro_backslash_column"`

	// Row caps for backward heuristic searches.
	MaxLookbackRows   int `mapstructure:"max_lookback_rows"`
	NakedLookbackRows int `mapstructure:"naked_lookback_rows"`
}

// Tab returns the string for one level of indentation.
func (c IndentConfig) Tab() string {
	if !c.SoftTabs {
		return "\t"
	}
	return strings.Repeat(" ", c.TabSize)
}

// BackslashColumn is the column trailing macro backslashes are aligned to.
func (c IndentConfig) BackslashColumn() int {
	return min(c.MacroBackslashColumn, c.PrintMarginColumn)
}

// ExpandConfig holds selection expansion options.
type ExpandConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// LexerConfig selects the tokenizer.
type LexerConfig struct {
	Engine string `mapstructure:"engine"` // "simple" (default) or "chroma"
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	Enabled bool `mapstructure:"enabled"`

	// Exporter specifies the trace export backend: "none", "file", "stdout", "otlp".
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output path for the file exporter.
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the OTLP collector endpoint (for otlp exporter).
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate is the sampling rate from 0.0 to 1.0.
	SampleRate float64 `mapstructure:"sample_rate"`
}

// WatchConfig holds options for `codenav watch`.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// CacheConfig holds code model cache options.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// DefaultTracesFilePath returns the default path for trace files.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "codenav", "traces", "traces.jsonl")
}

// DefaultLogFilePath returns the default debug log path.
func DefaultLogFilePath() string {
	return "debug.log"
}

// ValidateIndent checks indentation options.
func ValidateIndent(indent IndentConfig) error {
	if indent.TabSize <= 0 {
		return fmt.Errorf("%w: indent.tab_size must be positive, got %d", ErrInvalidConfig, indent.TabSize)
	}
	if indent.PrintMarginColumn <= 0 {
		return fmt.Errorf("%w: indent.print_margin_column must be positive, got %d", ErrInvalidConfig, indent.PrintMarginColumn)
	}
	if indent.MacroBackslashColumn <= 0 {
		return fmt.Errorf("%w: indent.macro_backslash_column must be positive, got %d", ErrInvalidConfig, indent.MacroBackslashColumn)
	}
	if indent.MaxLookbackRows <= 0 || indent.NakedLookbackRows <= 0 {
		return fmt.Errorf("%w: indent lookback rows must be positive", ErrInvalidConfig)
	}
	return nil
}

// ValidateLexer checks the lexer engine name.
func ValidateLexer(lexer LexerConfig) error {
	switch lexer.Engine {
	case "", "simple", "chroma":
		return nil
	}
	return fmt.Errorf("%w: lexer.engine must be \"simple\" or \"chroma\", got %q", ErrInvalidConfig, lexer.Engine)
}

// ValidateTracing validates tracing configuration.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("%w: tracing.sample_rate must be between 0.0 and 1.0, got %v", ErrInvalidConfig, tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("%w: tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", ErrInvalidConfig, tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("%w: tracing.file_path is required when exporter is \"file\"", ErrInvalidConfig)
		}

		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("%w: tracing.otlp_endpoint is required when exporter is \"otlp\"", ErrInvalidConfig)
		}
	}

	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateIndent(c.Indent); err != nil {
		return err
	}
	if c.Expand.HistoryLimit <= 0 {
		return fmt.Errorf("%w: expand.history_limit must be positive, got %d", ErrInvalidConfig, c.Expand.HistoryLimit)
	}
	if err := ValidateLexer(c.Lexer); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 || c.Cache.TTL < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	return ValidateTracing(c.Tracing)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Indent: IndentConfig{
			TabSize:              2,
			SoftTabs:             true,
			VerticallyAlignArgs:  true,
			PrintMarginColumn:    80,
			MacroBackslashColumn: 62,
			MaxLookbackRows:      200,
			NakedLookbackRows:    20,
		},
		Expand: ExpandConfig{
			HistoryLimit: 100,
		},
		Lexer: LexerConfig{
			Engine: "simple",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		LogFile: DefaultLogFilePath(),
	}
}

// DefaultConfigTemplate returns the default config as a commented YAML
// template.
func DefaultConfigTemplate() string {
	return `# codenav configuration

# Indentation
indent:
  tab_size: 2                   # Width of one indent level
  soft_tabs: true               # Indent with spaces instead of tabs
  vertically_align_args: true   # Align continuation lines with the first argument
  print_margin_column: 80       # Editor print margin
  macro_backslash_column: 62    # Macro backslashes align to min(this, print margin)
  max_lookback_rows: 200        # Cap for backward searches (comment starts, statement starts)
  naked_lookback_rows: 20       # Cap for unbraced if/else/for chains

# Selection expansion
expand:
  history_limit: 100   # Ranges remembered for shrinking

# Tokenizer engine: "simple" (default) or "chroma"
lexer:
  engine: simple

# File watching for 'codenav watch'
watch:
  debounce: 100ms

# Parsed code model cache
cache:
  ttl: 5m

# Debug log file (written when --debug or CODENAV_DEBUG is set)
# log_file: debug.log

# Distributed tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/codenav/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
