// Package cli formats diagnostics for the terminal.
package cli

import (
	"os"

	"github.com/mattn/go-isatty"
)

// OutputMode determines how diagnostics are formatted.
type OutputMode int

const (
	// ModeTTY enables colored output for interactive terminals.
	ModeTTY OutputMode = iota
	// ModePlain outputs plain text without colors (for pipes/CI).
	ModePlain
)

// Config holds CLI output configuration.
type Config struct {
	Mode OutputMode
}

// DefaultConfig returns the auto-detected configuration.
// Rules:
//   - If stderr is a TTY and NO_COLOR is not set -> ModeTTY
//   - Otherwise, or with TERM=dumb -> ModePlain
func DefaultConfig() *Config {
	mode := ModePlain

	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		mode = ModeTTY
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		mode = ModePlain
	}

	if os.Getenv("TERM") == "dumb" {
		mode = ModePlain
	}

	return &Config{Mode: mode}
}

// IsTTY returns true if running in interactive terminal mode.
func (c *Config) IsTTY() bool {
	return c.Mode == ModeTTY
}

var defaultCfg *Config

// Default returns the global configuration, detecting it on first use.
func Default() *Config {
	if defaultCfg == nil {
		defaultCfg = DefaultConfig()
	}
	return defaultCfg
}

// SetDefault sets the global configuration.
func SetDefault(cfg *Config) {
	defaultCfg = cfg
}

// EnableColors returns true if colors should be used.
func EnableColors() bool {
	return Default().IsTTY()
}
