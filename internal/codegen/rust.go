package codegen

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/tordrt/ch2struct/internal/config"
	"github.com/tordrt/ch2struct/internal/schema"
)

// rustLifetime is the lifetime borrowed bindings refer to.
const rustLifetime = "'a"

var rustScalars = map[schema.Kind]string{
	schema.KindUInt8:   "u8",
	schema.KindUInt16:  "u16",
	schema.KindUInt32:  "u32",
	schema.KindUInt64:  "u64",
	schema.KindUInt128: "u128",
	schema.KindInt8:    "i8",
	schema.KindInt16:   "i16",
	schema.KindInt32:   "i32",
	schema.KindInt64:   "i64",
	schema.KindInt128:  "i128",
	schema.KindBool:    "bool",
	schema.KindFloat32: "f32",
	schema.KindFloat64: "f64",
	schema.KindUUID:    "uuid::Uuid",
}

type rustTarget struct{}

func (rustTarget) Name() string { return string(config.TargetRust) }

func (rustTarget) Builtin(t schema.SqlType, owned, bytes bool) (Binding, bool) {
	if t.Kind == schema.KindString {
		switch {
		case bytes && owned:
			return Binding{Text: "Vec<u8>"}, true
		case bytes:
			return Binding{Text: "&" + rustLifetime + " [u8]", Borrowed: true}, true
		case owned:
			return Binding{Text: "String"}, true
		default:
			return Binding{Text: "&" + rustLifetime + " str", Borrowed: true}, true
		}
	}
	name, ok := rustScalars[t.Kind]
	return Binding{Text: name}, ok
}

func (rustTarget) Named(name string) Binding { return Binding{Text: name} }

func (rustTarget) Array(elem Binding) Binding {
	return Binding{Text: "Vec<" + elem.Text + ">", Borrowed: elem.Borrowed}
}

func (rustTarget) Tuple(elems []Binding) Binding {
	texts := make([]string, len(elems))
	for i, e := range elems {
		texts[i] = e.Text
	}
	text := "(" + strings.Join(texts, ", ")
	if len(elems) == 1 {
		text += ","
	}
	return Binding{Text: text + ")", Borrowed: anyBorrowed(elems)}
}

func (rustTarget) Nullable(elem Binding) Binding {
	return Binding{Text: "Option<" + elem.Text + ">", Borrowed: elem.Borrowed}
}

// Literal marks an override as borrowed when it names the record lifetime;
// the override text is the only information available about it.
func (rustTarget) Literal(output string) (Binding, error) {
	return Binding{Text: output, Borrowed: strings.Contains(output, rustLifetime)}, nil
}

// RustEmitter writes a Rust record and its enums.
type RustEmitter struct {
	writer   io.Writer
	cfg      *config.Config
	resolver *Resolver
}

// NewRustEmitter creates a new Rust emitter
func NewRustEmitter(w io.Writer, cfg *config.Config) *RustEmitter {
	return &RustEmitter{
		writer:   w,
		cfg:      cfg,
		resolver: NewResolver(cfg, rustTarget{}),
	}
}

// Emit writes the header, the record and the enum declarations for table.
func (e *RustEmitter) Emit(table *schema.Table) error {
	p, err := newPlan(table, e.resolver)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(e.writer, "// GENERATED CODE (%s)\n", config.Command)
	_, _ = fmt.Fprintf(e.writer, "// %s\n\n", commandComment(e.cfg))

	e.writeRecord(p)

	for _, en := range p.enums {
		_, _ = fmt.Fprintln(e.writer)
		e.writeEnum(en)
	}
	return nil
}

func (e *RustEmitter) writeRecord(p *plan) {
	derives := []string{"Debug", "clickhouse::Row"}
	if e.cfg.Serialize {
		derives = append(derives, "serde::Serialize")
	}
	if e.cfg.Deserialize {
		derives = append(derives, "serde::Deserialize")
	}
	_, _ = fmt.Fprintf(e.writer, "#[derive(%s)]\n", strings.Join(derives, ", "))

	lifetime := ""
	if p.borrowed() {
		lifetime = "<" + rustLifetime + ">"
	}
	_, _ = fmt.Fprintf(e.writer, "pub struct %s%s {\n", e.cfg.RecordName, lifetime)

	for _, f := range p.fields {
		e.writeField(f)
	}
	_, _ = fmt.Fprintln(e.writer, "}")
}

func (e *RustEmitter) writeField(f field) {
	if f.column.Comment != "" {
		for _, line := range strings.Split(f.column.Comment, "\n") {
			_, _ = fmt.Fprintf(e.writer, "    /// %s\n", strings.TrimRight(line, " \t\r"))
		}
	}

	name, renamed := rustFieldName(f.column.Name)

	var serde []string
	if renamed {
		serde = append(serde, fmt.Sprintf("rename = %q", f.column.Name))
	}
	if e.cfg.IsBytes(f.column.Name) {
		serde = append(serde, `with = "serde_bytes"`)
	} else if with := e.uuidWith(f.column); with != "" {
		serde = append(serde, fmt.Sprintf("with = %q", with))
	}
	if len(serde) > 0 {
		_, _ = fmt.Fprintf(e.writer, "    #[serde(%s)]\n", strings.Join(serde, ", "))
	}

	_, _ = fmt.Fprintf(e.writer, "    pub %s: %s,\n", name, f.binding.Text)
}

// uuidWith returns the UUID (de)serialization module for UUID and
// Nullable(UUID) columns no override applies to.
func (e *RustEmitter) uuidWith(col schema.Column) string {
	if e.resolver.Overridden(col) {
		return ""
	}
	switch {
	case col.Type.Kind == schema.KindUUID:
		return "clickhouse::serde::uuid"
	case col.Type.Kind == schema.KindNullable && col.Type.Elem().Kind == schema.KindUUID:
		return "clickhouse::serde::uuid::option"
	}
	return ""
}

func (e *RustEmitter) writeEnum(en enumDecl) {
	derives := []string{"Debug", "Clone", "Copy", "PartialEq", "Eq"}
	if e.cfg.Serialize {
		derives = append(derives, "serde_repr::Serialize_repr")
	}
	if e.cfg.Deserialize {
		derives = append(derives, "serde_repr::Deserialize_repr")
	}
	_, _ = fmt.Fprintf(e.writer, "#[derive(%s)]\n", strings.Join(derives, ", "))
	_, _ = fmt.Fprintf(e.writer, "#[repr(%s)]\n", rustRepr(en.typ.Kind))
	_, _ = fmt.Fprintf(e.writer, "pub enum %s {\n", en.name)
	for i, v := range en.typ.Variants {
		_, _ = fmt.Fprintf(e.writer, "    %s = %d,\n", en.variants[i], v.Value)
	}
	_, _ = fmt.Fprintln(e.writer, "}")
}

func rustRepr(k schema.Kind) string {
	if k == schema.KindEnum16 {
		return "i16"
	}
	return "i8"
}

var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "dyn": true, "else": true, "enum": true, "extern": true,
	"false": true, "fn": true, "for": true, "if": true, "impl": true, "in": true,
	"let": true, "loop": true, "match": true, "mod": true, "move": true,
	"mut": true, "pub": true, "ref": true, "return": true, "static": true,
	"struct": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "abstract": true, "become": true,
	"box": true, "do": true, "final": true, "gen": true, "macro": true,
	"override": true, "priv": true, "try": true, "typeof": true, "unsized": true,
	"virtual": true, "yield": true,
}

// rustRawForbidden cannot be used as raw identifiers.
var rustRawForbidden = map[string]bool{"crate": true, "self": true, "Self": true, "super": true, "_": true}

// rustFieldName returns a field identifier for column and whether it differs
// from the column name on the wire.
func rustFieldName(column string) (string, bool) {
	name := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, column)
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "_" + name
	}

	switch {
	case rustRawForbidden[name]:
		return name + "_", true
	case rustKeywords[name]:
		return "r#" + name, name != column
	}
	return name, name != column
}
