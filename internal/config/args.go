package config

import (
	"regexp"
	"strings"
)

// Command is the program name used in reproducible command lines.
const Command = "ch2struct"

// Args renders the configuration as command-line arguments. Options are
// emitted in a fixed order and list options are sorted, so equal
// configurations render identically regardless of how they were built.
// Connection settings are never included.
func (c *Config) Args() []string {
	args := []string{c.Table, "-d", c.Database}
	if c.Serialize {
		args = append(args, "-S")
	}
	if c.Deserialize {
		args = append(args, "-D")
	}
	if c.Owned {
		args = append(args, "--owned")
	}
	if c.Target != TargetRust {
		args = append(args, "-l", string(c.Target))
	}
	if c.RecordName != DefaultRecordName {
		args = append(args, "--record", c.RecordName)
	}
	if c.Target == TargetGo && c.Package != DefaultPackage {
		args = append(args, "--package", c.Package)
	}
	for _, o := range c.TypeOverrides() {
		args = append(args, "-T", o.Type.String()+"="+o.Output)
	}
	for _, o := range c.Overrides() {
		args = append(args, "-O", o.Column+"="+o.Output)
	}
	for _, column := range c.Bytes() {
		args = append(args, "-B", column)
	}
	return args
}

// CommandLine returns Args as a shell-quoted command line.
func (c *Config) CommandLine() string {
	args := c.Args()
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, Command)
	for _, arg := range args {
		quoted = append(quoted, shellQuote(arg))
	}
	return strings.Join(quoted, " ")
}

var shellSafeRe = regexp.MustCompile(`^[A-Za-z0-9_./:,=+-]+$`)

func shellQuote(s string) string {
	if shellSafeRe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
