// Package observability provides OpenTelemetry-based tracing, metrics,
// and structured logging for all Codeloom application modes.
package observability

import "log/slog"

// AppMode tags telemetry with how the process was started.
type AppMode string

const (
	// ModeCLI marks one-shot command invocations.
	ModeCLI AppMode = "cli"
	// ModeMCP marks the stdio MCP server.
	ModeMCP AppMode = "mcp"
	// ModeWatch marks the filesystem watch loop.
	ModeWatch AppMode = "watch"
)

const (
	defaultServiceName        = "codeloom"
	defaultShutdownTimeoutSec = 5
)

// Config controls what telemetry Init wires up.
type Config struct {
	// ServiceName names the service in exported telemetry.
	ServiceName string

	// ServiceVersion is stamped onto the OTel resource.
	ServiceVersion string

	// Environment tags telemetry with the deployment environment.
	Environment string

	// Mode records how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the collector's gRPC address. Leave empty to run
	// with no-op providers.
	OTLPEndpoint string

	// OTLPHeaders carries extra gRPC metadata to the collector.
	OTLPHeaders map[string]string

	// OTLPInsecure turns off TLS on the collector connection.
	OTLPInsecure bool

	// DebugTrace samples every trace.
	DebugTrace bool

	// SampleRatio sets head sampling when DebugTrace is off. Zero means
	// parent-based always-on.
	SampleRatio float64

	// LogLevel is the minimum slog severity emitted.
	LogLevel slog.Level

	// LogJSON switches log output from text to JSON.
	LogJSON bool

	// ShutdownTimeoutSec bounds the telemetry flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config with defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
