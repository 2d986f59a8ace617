package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/ch2struct"
	"github.com/tordrt/ch2struct/internal/cli"
	"github.com/tordrt/ch2struct/internal/config"
	"github.com/tordrt/ch2struct/internal/formatter"
)

type options struct {
	dbURL         string
	user          string
	password      string
	database      string
	serialize     bool
	deserialize   bool
	owned         bool
	typeOverrides []string
	overrides     []string
	bytesColumns  []string
	lang          string
	record        string
	pkg           string
	configPath    string
	outputFile    string
	describe      string
	verbose       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ch2struct [flags] TABLE",
		Short: "Generate Rust or Go row types for a ClickHouse table",
		Long: `ch2struct reads the column types of a ClickHouse table and generates a record type
with one field per column, plus an enum declaration for every Enum8/Enum16 column.

Types without a default mapping (Date, DateTime, Decimal, FixedString, IPv4, ...) need a
type override (-T 'Date=u16') or a column override (-O 'created=MyTime').`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.dbURL, "url", "U", "http://localhost:8123", "ClickHouse URL (clickhouse://, tcp://, http(s)://, mysql://, postgres://) or sqlite:// catalog")
	flags.StringVarP(&opts.user, "user", "u", "", "User name (overrides the URL)")
	flags.StringVarP(&opts.password, "password", "p", "", "Password (overrides the URL)")
	flags.StringVarP(&opts.database, "database", "d", config.DefaultDatabase, "Database name")
	flags.BoolVarP(&opts.serialize, "serialize", "S", false, "Derive serialization")
	flags.BoolVarP(&opts.deserialize, "deserialize", "D", false, "Derive deserialization")
	flags.BoolVar(&opts.owned, "owned", false, "Use owned strings instead of borrowed slices")
	flags.StringArrayVarP(&opts.typeOverrides, "types", "T", nil, "Type override TYPE=OUTPUT (repeatable)")
	flags.StringArrayVarP(&opts.overrides, "overrides", "O", nil, "Column override COLUMN=OUTPUT (repeatable)")
	flags.StringArrayVarP(&opts.bytesColumns, "bytes", "B", nil, "Map a String column to bytes (repeatable)")
	flags.StringVarP(&opts.lang, "lang", "l", string(config.TargetRust), "Output language: rust or go")
	flags.StringVar(&opts.record, "record", config.DefaultRecordName, "Record type name")
	flags.StringVar(&opts.pkg, "package", config.DefaultPackage, "Go package name (go only)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file; flags are applied on top")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Output file (default: stdout)")
	flags.StringVar(&opts.describe, "describe", "", "Describe the table instead of generating code: text or markdown")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	cfg, err := buildConfig(cmd, args, opts)
	if err != nil {
		return err
	}

	if opts.describe != "" && opts.describe != formatter.FormatText && opts.describe != formatter.FormatMarkdown {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", opts.describe)
	}

	if cfg.Target == config.TargetGo && cfg.Owned {
		logger.Warn("--owned has no effect on Go output")
	}
	logger.Debug("generating", "table", cfg.Database+"."+cfg.Table, "lang", cfg.Target, "command", cfg.CommandLine())

	table, err := ch2struct.ExtractTable(cmd.Context(), opts.dbURL, cfg.Database, cfg.Table, &ch2struct.Options{
		User:     opts.user,
		Password: opts.password,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if opts.describe != "" {
		if err := ch2struct.DescribeTable(&out, table, opts.describe); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
	} else {
		code, err := ch2struct.FormatTable(table, cfg)
		if err != nil {
			return err
		}
		out.WriteString(code)
	}

	return writeOutput(cmd.OutOrStdout(), opts.outputFile, out.Bytes())
}

// buildConfig applies the config file, then the flags. Flags only replace
// file values when given explicitly; list flags append.
func buildConfig(cmd *cobra.Command, args []string, opts *options) (*config.Config, error) {
	cfg := config.New()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Table = args[0]
	}
	if flags.Changed("database") {
		cfg.Database = opts.database
	}
	cfg.Serialize = cfg.Serialize || opts.serialize
	cfg.Deserialize = cfg.Deserialize || opts.deserialize
	cfg.Owned = cfg.Owned || opts.owned
	if flags.Changed("lang") {
		cfg.Target = config.Target(opts.lang)
	}
	if flags.Changed("record") {
		cfg.RecordName = opts.record
	}
	if flags.Changed("package") {
		cfg.Package = opts.pkg
	}

	for _, spec := range opts.typeOverrides {
		if err := cfg.AddTypeOverride(spec); err != nil {
			return nil, err
		}
	}
	for _, spec := range opts.overrides {
		if err := cfg.AddOverride(spec); err != nil {
			return nil, err
		}
	}
	if err := cfg.AddBytes(opts.bytesColumns...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// writeOutput writes data to path, or to stdout if path is empty. It is
// only called once generation has succeeded.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
