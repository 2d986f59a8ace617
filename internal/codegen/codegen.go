// Package codegen resolves column types to output types and emits the record
// and enum declarations for one table.
package codegen

import (
	"bytes"
	"io"

	"github.com/tordrt/ch2struct/internal/config"
	"github.com/tordrt/ch2struct/internal/schema"
)

// Emitter writes the declarations for a table.
type Emitter interface {
	Emit(table *schema.Table) error
}

// NewEmitter returns the emitter for cfg.Target.
func NewEmitter(w io.Writer, cfg *config.Config) (Emitter, error) {
	switch cfg.Target {
	case config.TargetRust:
		return NewRustEmitter(w, cfg), nil
	case config.TargetGo:
		return NewGoEmitter(w, cfg), nil
	default:
		return nil, config.NewConfigError("lang", string(cfg.Target), "must be rust or go")
	}
}

// Generate returns the declarations for table. On error no output is
// returned.
func Generate(table *schema.Table, cfg *config.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	e, err := NewEmitter(&buf, cfg)
	if err != nil {
		return "", err
	}
	if err := e.Emit(table); err != nil {
		return "", err
	}
	return buf.String(), nil
}
