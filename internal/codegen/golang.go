package codegen

import (
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/tordrt/ch2struct/internal/config"
	"github.com/tordrt/ch2struct/internal/schema"
)

const uuidPkg = "github.com/google/uuid"

var goScalars = map[schema.Kind]string{
	schema.KindUInt8:   "uint8",
	schema.KindUInt16:  "uint16",
	schema.KindUInt32:  "uint32",
	schema.KindUInt64:  "uint64",
	schema.KindInt8:    "int8",
	schema.KindInt16:   "int16",
	schema.KindInt32:   "int32",
	schema.KindInt64:   "int64",
	schema.KindBool:    "bool",
	schema.KindFloat32: "float32",
	schema.KindFloat64: "float64",
}

// goQualifiedRe matches "import/path.Name".
var goQualifiedRe = regexp.MustCompile(`^([A-Za-z0-9_.~-]+(?:/[A-Za-z0-9_.~-]+)*)\.([A-Za-z_][A-Za-z0-9_]*)$`)

// goTarget has no lifetimes: strings are always owned and nothing is
// borrowed.
type goTarget struct{}

func (goTarget) Name() string { return string(config.TargetGo) }

func (goTarget) Builtin(t schema.SqlType, _, bytes bool) (Binding, bool) {
	switch t.Kind {
	case schema.KindString:
		if bytes {
			return Binding{Text: "[]byte", Code: jen.Index().Byte()}, true
		}
		return Binding{Text: "string", Code: jen.String()}, true
	case schema.KindUUID:
		return Binding{Text: "uuid.UUID", Code: jen.Qual(uuidPkg, "UUID")}, true
	}
	name, ok := goScalars[t.Kind]
	return Binding{Text: name, Code: jen.Id(name)}, ok
}

func (goTarget) Named(name string) Binding { return Binding{Text: name, Code: jen.Id(name)} }

func (goTarget) Array(elem Binding) Binding {
	return Binding{Text: "[]" + elem.Text, Code: jen.Index().Add(elem.Code)}
}

func (goTarget) Tuple(elems []Binding) Binding {
	fields := make([]jen.Code, len(elems))
	texts := make([]string, len(elems))
	for i, e := range elems {
		name := fmt.Sprintf("F%d", i)
		fields[i] = jen.Id(name).Add(e.Code)
		texts[i] = name + " " + e.Text
	}
	return Binding{Text: "struct{ " + strings.Join(texts, "; ") + " }", Code: jen.Struct(fields...)}
}

func (goTarget) Nullable(elem Binding) Binding {
	return Binding{Text: "*" + elem.Text, Code: jen.Op("*").Add(elem.Code)}
}

// Literal writes an override type. After any leading "*", "[]" or "[N]",
// "import/path.Name" becomes a qualified identifier so the import is added;
// anything else is written verbatim. A path without a slash must name a
// standard library package.
func (goTarget) Literal(output string) (Binding, error) {
	code := jen.Null()
	rest := output
	for {
		prefix, tail, ok := goTypePrefix(rest)
		if !ok {
			break
		}
		code.Add(prefix)
		rest = tail
	}
	prefixText := output[:len(output)-len(rest)]

	m := goQualifiedRe.FindStringSubmatch(rest)
	if m == nil {
		return Binding{Text: output, Code: code.Id(rest)}, nil
	}
	if !strings.Contains(m[1], "/") && !goStdPackages[m[1]] {
		return Binding{}, config.NewConfigError("override", output,
			fmt.Sprintf("%q is not a standard library package; use the full import path", m[1]))
	}
	return Binding{Text: prefixText + path.Base(m[1]) + "." + m[2], Code: code.Qual(m[1], m[2])}, nil
}

var goArrayLenRe = regexp.MustCompile(`^\[([0-9]+)\]`)

// goTypePrefix splits one leading pointer, slice or array marker off s.
func goTypePrefix(s string) (jen.Code, string, bool) {
	switch {
	case strings.HasPrefix(s, "*"):
		return jen.Op("*"), s[1:], true
	case strings.HasPrefix(s, "[]"):
		return jen.Index(), s[2:], true
	}
	if m := goArrayLenRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, s, false
		}
		return jen.Index(jen.Lit(n)), s[len(m[0]):], true
	}
	return nil, s, false
}

// goStdPackages are the standard library packages whose import path has a
// single element.
var goStdPackages = map[string]bool{
	"bufio": true, "bytes": true, "cmp": true, "context": true, "crypto": true,
	"embed": true, "errors": true, "expvar": true, "flag": true, "fmt": true,
	"hash": true, "html": true, "image": true, "io": true, "iter": true,
	"log": true, "maps": true, "math": true, "mime": true, "net": true,
	"os": true, "path": true, "plugin": true, "reflect": true, "regexp": true,
	"runtime": true, "slices": true, "sort": true, "strconv": true,
	"strings": true, "structs": true, "sync": true, "syscall": true,
	"testing": true, "time": true, "unicode": true, "unique": true,
	"unsafe": true, "weak": true,
}

// GoEmitter writes a Go source file with the record and its enums.
type GoEmitter struct {
	writer   io.Writer
	cfg      *config.Config
	resolver *Resolver
}

// NewGoEmitter creates a new Go emitter
func NewGoEmitter(w io.Writer, cfg *config.Config) *GoEmitter {
	return &GoEmitter{
		writer:   w,
		cfg:      cfg,
		resolver: NewResolver(cfg, goTarget{}),
	}
}

// Emit renders the file for table. Nothing is written if rendering fails.
func (e *GoEmitter) Emit(table *schema.Table) error {
	p, err := newPlan(table, e.resolver)
	if err != nil {
		return err
	}

	f := jen.NewFile(e.cfg.Package)
	f.HeaderComment("Code generated by " + config.Command + ". DO NOT EDIT.")
	f.HeaderComment(commandComment(e.cfg))
	f.ImportName(uuidPkg, "uuid")

	tagged := e.cfg.Serialize || e.cfg.Deserialize
	f.Commentf("%s is a row of the %s table.", e.cfg.RecordName, table.QualifiedName())
	f.Type().Id(e.cfg.RecordName).StructFunc(func(g *jen.Group) {
		for _, fl := range p.fields {
			if fl.column.Comment != "" {
				g.Comment(fl.column.Comment)
			}
			tags := map[string]string{"ch": fl.column.Name}
			if tagged {
				tags["json"] = fl.column.Name
			}
			g.Id(GoFieldName(fl.column.Name)).Add(fl.binding.Code).Tag(tags)
		}
	})

	for _, en := range p.enums {
		base := jen.Int8()
		if en.typ.Kind == schema.KindEnum16 {
			base = jen.Int16()
		}
		f.Type().Id(en.name).Add(base)
		f.Const().DefsFunc(func(g *jen.Group) {
			for i, v := range en.typ.Variants {
				g.Id(en.name + en.variants[i]).Id(en.name).Op("=").Lit(int(v.Value))
			}
		})
	}

	if err := f.Render(e.writer); err != nil {
		return fmt.Errorf("failed to render Go source for the %s table: %w", table.QualifiedName(), err)
	}
	return nil
}
