// Package config provides configuration loading and validation for Codeloom.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/codeloom/pkg/persist"
	"github.com/Sumatoshi-tech/codeloom/pkg/safeconv"
)

// Errors reported for rejected configuration values.
var (
	ErrInvalidMaxFileSize    = errors.New("invalid max file size")
	ErrInvalidSnapshotFormat = errors.New("invalid snapshot format")
	ErrInvalidSampleRatio    = errors.New("sample ratio must be between 0 and 1")
	ErrInvalidLogLevel       = errors.New("invalid log level")
)

const (
	defaultMaxFileSize    = "500KiB"
	defaultSnapshotDir    = "."
	defaultSnapshotFormat = "json"
)

// Config holds all configuration for the Codeloom tool.
type Config struct {
	Ingest        IngestConfig        `mapstructure:"ingest"`
	Resolver      ResolverConfig      `mapstructure:"resolver"`
	Snapshot      SnapshotConfig      `mapstructure:"snapshot"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	MCP           MCPConfig           `mapstructure:"mcp"`
}

// IngestConfig holds directory intake configuration.
type IngestConfig struct {
	MaxFileSize string   `mapstructure:"max_file_size"`
	IgnoreDirs  []string `mapstructure:"ignore_dirs"`
}

// MaxFileSizeBytes parses the human-readable size cap into bytes.
func (c IngestConfig) MaxFileSizeBytes() (int64, error) {
	size, err := humanize.ParseBytes(c.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w for max_file_size: %s", ErrInvalidMaxFileSize, c.MaxFileSize)
	}

	capped, ok := safeconv.Uint64ToInt64(size)
	if !ok {
		return 0, fmt.Errorf("%w for max_file_size: %s", ErrInvalidMaxFileSize, c.MaxFileSize)
	}

	return capped, nil
}

// ResolverConfig holds import resolution configuration.
type ResolverConfig struct {
	Suffixes []string `mapstructure:"suffixes"`
}

// SnapshotConfig holds workspace snapshot configuration.
type SnapshotConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// LoggingConfig shapes the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// SlogLevel maps the configured level name onto its slog severity.
func (c LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Level)
	}
}

// ObservabilityConfig holds OTLP export configuration.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	// MetricsAddr enables the diagnostics HTTP listener when non-empty.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// LoadConfig resolves configuration from a YAML file and CODELOOM_*
// environment variables, env winning over file. An empty configPath
// probes the usual locations; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()
	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/codeloom")
	}

	viperCfg.SetEnvPrefix("CODELOOM")
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if err := viperCfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("ingest.max_file_size", defaultMaxFileSize)
	viperCfg.SetDefault("ingest.ignore_dirs", []string{".git", "node_modules", "dist", "build"})

	viperCfg.SetDefault("resolver.suffixes", []string{".py", ".js", ".ts", ".tsx", "/index.ts", "/index.js"})

	viperCfg.SetDefault("snapshot.dir", defaultSnapshotDir)
	viperCfg.SetDefault("snapshot.format", defaultSnapshotFormat)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "json")
	viperCfg.SetDefault("logging.output", "stderr")

	viperCfg.SetDefault("observability.sample_ratio", 1.0)
	viperCfg.SetDefault("observability.otlp_insecure", true)
}

// validateConfig rejects values the rest of the program would choke on
// later: unparseable size caps, unknown snapshot formats or log levels,
// and out-of-range sampling ratios.
func validateConfig(cfg *Config) error {
	if _, err := cfg.Ingest.MaxFileSizeBytes(); err != nil {
		return err
	}

	if _, err := persist.ForFormat(cfg.Snapshot.Format); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSnapshotFormat, cfg.Snapshot.Format)
	}

	if _, err := cfg.Logging.SlogLevel(); err != nil {
		return err
	}

	if cfg.Observability.SampleRatio < 0 || cfg.Observability.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, cfg.Observability.SampleRatio)
	}

	return nil
}
