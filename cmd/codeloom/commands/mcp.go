package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeloom/pkg/config"
	"github.com/Sumatoshi-tech/codeloom/pkg/mcp"
	"github.com/Sumatoshi-tech/codeloom/pkg/observability"
	"github.com/Sumatoshi-tech/codeloom/pkg/version"
)

// MCPCommand holds configuration for the mcp command.
type MCPCommand struct {
	debug       bool
	metricsAddr string
}

// NewMCPCommand creates the mcp command that serves workspace tools
// over stdio transport.
func NewMCPCommand() *cobra.Command {
	mc := &MCPCommand{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Starts a Model Context Protocol server exposing project ingestion,
dependency graphs, and document editing as tools over stdio. Trace
export is configured from the config file or the standard
OTEL_EXPORTER_OTLP_* environment variables.`,
		RunE: mc.run,
	}

	flags := cmd.Flags()
	flags.BoolVar(&mc.debug, "debug", false, "enable debug logging and span logging")
	flags.StringVar(&mc.metricsAddr, "metrics-addr", "", "serve /healthz, /readyz, and /metrics on this address (default from config)")

	return cmd
}

func (mc *MCPCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	obsCfg, err := observabilityConfig(cfg, observability.ModeMCP, mc.debug)
	if err != nil {
		return err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		if shutdownErr := providers.Shutdown(context.Background()); shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	metrics, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	addr := mc.metricsAddr
	if addr == "" {
		addr = cfg.MCP.MetricsAddr
	}

	if addr != "" {
		diag, diagErr := observability.NewDiagnosticsServer(addr)
		if diagErr != nil {
			return diagErr
		}

		defer func() {
			if closeErr := diag.Close(); closeErr != nil {
				providers.Logger.Warn("diagnostics server close failed", "error", closeErr)
			}
		}()

		providers.Logger.Info("diagnostics server listening", "addr", diag.Addr())
	}

	intake, err := intakeOptions(cfg, "", nil)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(mcp.ServerDeps{
		Logger:   providers.Logger,
		Metrics:  metrics,
		Tracer:   providers.Tracer,
		Intake:   intake,
		Suffixes: cfg.Resolver.Suffixes,
	})

	providers.Logger.Info("mcp server starting",
		"transport", "stdio",
		"tools", len(srv.ListToolNames()),
		"version", version.Version,
	)

	return srv.Run(cmd.Context())
}

// observabilityConfig assembles the observability configuration for a
// long-running command. The standard OTEL environment variables win
// over the config file so deploy-time wiring needs no file edits.
func observabilityConfig(cfg *config.Config, mode observability.AppMode, debug bool) (observability.Config, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.DebugTrace = cfg.Observability.DebugTrace
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	obsCfg.LogLevel = level

	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		obsCfg.OTLPEndpoint = endpoint
	}

	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	if headers := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); headers != "" {
		obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(headers)
	}

	if insecure := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); insecure != "" {
		obsCfg.OTLPInsecure = insecure == "true"
	}

	if debug {
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.DebugTrace = true
	}

	return obsCfg, nil
}
