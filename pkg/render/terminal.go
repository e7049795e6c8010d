// Package render provides terminal-aware text tables and standalone
// HTML chart pages for report output.
package render

import (
	"os"
	"strconv"
)

// Width bounds for text reports. Tables clamp to this range no matter
// what the terminal claims.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 120
)

// Config captures the terminal capabilities reports render against.
type Config struct {
	Width   int
	NoColor bool
}

// NewConfig detects terminal capabilities from the environment.
// NO_COLOR disables color output per the informal standard.
func NewConfig() Config {
	return Config{
		Width:   DetectWidth(),
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// DetectWidth reads the terminal width from COLUMNS, clamped to the
// report bounds. A missing or unparseable value falls back to
// DefaultWidth.
func DetectWidth() int {
	columns, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil || columns <= 0 {
		return DefaultWidth
	}

	return min(max(columns, MinWidth), MaxWidth)
}
