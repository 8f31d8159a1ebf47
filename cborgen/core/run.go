package core

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"golang.org/x/tools/imports"

	tmplfs "github.com/synadia-labs/cborvisit/cborgen/templates"
)

const (
	runtimeAlias  = "cbor"
	runtimeImport = "github.com/synadia-labs/cborvisit/runtime"
)

func runtimeName(name string) string {
	return runtimeAlias + "." + name
}

// scalarTargets maps Go scalar type names to the runtime binding type
// that decodes them.
var scalarTargets = map[string]string{
	"string":  "String",
	"bool":    "Bool",
	"int":     "Int",
	"int64":   "Int64",
	"int32":   "Int32",
	"rune":    "Int32",
	"int16":   "Int16",
	"int8":    "Int8",
	"uint":    "Uint",
	"uint64":  "Uint64",
	"uint32":  "Uint32",
	"uint16":  "Uint16",
	"uint8":   "Uint8",
	"byte":    "Uint8",
	"float32": "Float32",
	"float64": "Float64",
}

// Options configures how generation runs.
type Options struct {
	// Structs, if non-empty, restricts generation to the
	// named struct types. Names must match Go type names
	// exactly (no package qualification).
	Structs []string

	// Log receives per-field diagnostics. The zero value discards them.
	Log zerolog.Logger

	// Package holds the other files of the input's package. Their type
	// declarations and DecodeCBOR methods are consulted when resolving
	// field types; see LoadPackage.
	Package []*ast.File
}

// Run generates CBOR decoders for the struct types of a single Go source
// file and writes them to outputPath.
func Run(inputPath, outputPath string, opts Options) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, inputPath, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	opts.Package = LoadPackage(inputPath, file, opts.Log)
	src, n, err := Generate(file, opts)
	if err != nil {
		return err
	}
	if n == 0 {
		opts.Log.Debug().Str("input", inputPath).Msg("no struct types, nothing generated")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	if formatted, err := imports.Process(outputPath, src, nil); err == nil {
		src = formatted
	} else if formatted, ferr := format.Source(src); ferr == nil {
		// Fall back to go/format if goimports fails.
		src = formatted
	}
	opts.Log.Debug().Str("input", inputPath).Str("output", outputPath).Int("structs", n).Msg("generated")
	return os.WriteFile(outputPath, src, 0o644)
}

type fieldSpec struct {
	GoName   string
	CBORName string
	Target   string
	Ignore   bool
}

type structSpec struct {
	Name   string
	Fields []fieldSpec
}

var decodeTemplate = template.Must(template.New("decode.go.tpl").ParseFS(tmplfs.FS, "decode.go.tpl"))

// LoadPackage parses the sibling sources of inputPath that belong to the
// same package as file. Tests and generated files are left out; files that
// fail to parse are logged and ignored.
func LoadPackage(inputPath string, file *ast.File, log zerolog.Logger) []*ast.File {
	dir := filepath.Dir(inputPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("package files unavailable")
		return nil
	}
	var files []*ast.File
	fset := token.NewFileSet()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, "_cbor.go") ||
			name == filepath.Base(inputPath) {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.SkipObjectResolution)
		if err != nil {
			log.Debug().Err(err).Str("file", name).Msg("skipping unparsable package file")
			continue
		}
		if f.Name.Name == file.Name.Name {
			files = append(files, f)
		}
	}
	return files
}

// typeIndex resolves field types against the declarations of the package
// being generated for.
type typeIndex struct {
	specs     map[string]*ast.TypeSpec
	local     map[string]bool // declared in the input file
	decodable map[string]bool // *T has a DecodeCBOR method outside generated files
	allowed   map[string]struct{}
}

func newTypeIndex(file *ast.File, pkg []*ast.File, allowed map[string]struct{}) *typeIndex {
	idx := &typeIndex{
		specs:     make(map[string]*ast.TypeSpec),
		local:     make(map[string]bool),
		decodable: make(map[string]bool),
		allowed:   allowed,
	}
	for i, f := range append([]*ast.File{file}, pkg...) {
		for _, decl := range f.Decls {
			switch decl := decl.(type) {
			case *ast.GenDecl:
				if decl.Tok != token.TYPE {
					continue
				}
				for _, spec := range decl.Specs {
					if ts, ok := spec.(*ast.TypeSpec); ok {
						idx.specs[ts.Name.Name] = ts
						if i == 0 {
							idx.local[ts.Name.Name] = true
						}
					}
				}
			case *ast.FuncDecl:
				if decl.Name.Name != "DecodeCBOR" || decl.Recv == nil || len(decl.Recv.List) != 1 {
					continue
				}
				if star, ok := decl.Recv.List[0].Type.(*ast.StarExpr); ok {
					if id, ok := star.X.(*ast.Ident); ok {
						idx.decodable[id.Name] = true
					}
				}
			}
		}
	}
	return idx
}

// generated reports whether cborgen emits a DecodeCBOR method for the
// struct type ts: it is selected, has no hand-written method and declares
// at least one exported field that is not excluded by its tag.
func (idx *typeIndex) generated(ts *ast.TypeSpec) bool {
	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.TypeParams != nil || ts.Assign.IsValid() || idx.decodable[ts.Name.Name] {
		return false
	}
	if len(idx.allowed) > 0 {
		if _, ok := idx.allowed[ts.Name.Name]; !ok {
			return false
		}
	}
	for _, field := range st.Fields.List {
		for _, ident := range field.Names {
			if ast.IsExported(ident.Name) && !resolveFieldSpec(ident.Name, field.Tag).Ignore {
				return true
			}
		}
	}
	return false
}

// scalarBase follows a chain of named types down to a builtin scalar.
func (idx *typeIndex) scalarBase(name string) (string, bool) {
	for n := 0; n < 16; n++ {
		if _, ok := scalarTargets[name]; ok {
			return name, true
		}
		ts, ok := idx.specs[name]
		if !ok || ts.TypeParams != nil {
			return "", false
		}
		next, ok := ts.Type.(*ast.Ident)
		if !ok {
			return "", false
		}
		name = next.Name
	}
	return "", false
}

// Generate renders DecodeCBOR methods for the struct types declared in
// file and reports how many structs were generated.
//
// cbor tag rules:
//   - if cbor tag present: it wins
//   - if cbor tag absent, json tag is used
//   - if both absent, Go field name is used
func Generate(file *ast.File, opts Options) ([]byte, int, error) {
	var allowed map[string]struct{}
	if len(opts.Structs) > 0 {
		allowed = make(map[string]struct{}, len(opts.Structs))
		for _, name := range opts.Structs {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			allowed[name] = struct{}{}
		}
	}
	idx := newTypeIndex(file, opts.Package, allowed)

	var structs []structSpec
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || !idx.generated(ts) {
				continue
			}
			st := ts.Type.(*ast.StructType)
			ss := structSpec{Name: ts.Name.Name}
			for _, field := range st.Fields.List {
				// Embedded fields are not flattened.
				if len(field.Names) == 0 {
					continue
				}
				for _, ident := range field.Names {
					name := ident.Name
					if !ast.IsExported(name) {
						continue
					}
					fs := resolveFieldSpec(name, field.Tag)
					if fs.Ignore {
						continue
					}
					target, ok := idx.decodeTarget("z."+name, field.Type)
					if !ok {
						opts.Log.Debug().
							Str("struct", ss.Name).
							Str("field", name).
							Str("type", types.ExprString(field.Type)).
							Msg("unsupported field type, values will be skipped")
						continue
					}
					fs.Target = target
					ss.Fields = append(ss.Fields, fs)
				}
			}
			structs = append(structs, ss)
		}
	}
	if len(structs) == 0 {
		return nil, 0, nil
	}

	data := struct {
		Package string
		Runtime string
		Structs []structSpec
	}{
		Package: file.Name.Name,
		Runtime: runtimeImport,
		Structs: structs,
	}
	var buf bytes.Buffer
	if err := decodeTemplate.Execute(&buf, data); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(structs), nil
}

// resolveFieldSpec applies tag resolution rules:
// - cbor tag primary
// - if no cbor tag, use json tag
// - if both absent, use Go field name
func resolveFieldSpec(goName string, tag *ast.BasicLit) fieldSpec {
	fs := fieldSpec{GoName: goName, CBORName: goName}
	if tag == nil {
		return fs
	}
	raw := tag.Value
	if len(raw) >= 2 && (raw[0] == '`' && raw[len(raw)-1] == '`') {
		raw = raw[1 : len(raw)-1]
	}
	st := reflect.StructTag(raw)
	for _, key := range []string{"cbor", "json"} {
		v, ok := st.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(v, ",")
		switch name {
		case "-":
			fs.Ignore = true
		case "":
		default:
			fs.CBORName = name
		}
		return fs
	}
	return fs
}

// addrOf returns an expression for the address of ref, folding the
// "(*p)" form back into p.
func addrOf(ref string) string {
	if strings.HasPrefix(ref, "(*") && strings.HasSuffix(ref, ")") {
		return ref[2 : len(ref)-1]
	}
	return "&" + ref
}

// decodeTarget returns an expression of type cbor.Decodable that decodes
// into the addressable expression ref of type typ.
//
// Named types of the package resolve as follows: aliases to their target,
// named scalars through a pointer conversion to the scalar binding, and
// struct types to their own DecodeCBOR, which must be hand-written or
// generated. Anything else, including types of other packages, is
// unsupported.
func (idx *typeIndex) decodeTarget(ref string, typ ast.Expr) (string, bool) {
	switch t := typ.(type) {
	case *ast.Ident:
		if bind, ok := scalarTargets[t.Name]; ok {
			return fmt.Sprintf("(*%s)(%s)", runtimeName(bind), addrOf(ref)), true
		}
		ts, ok := idx.specs[t.Name]
		if !ok || ts.TypeParams != nil {
			return "", false
		}
		if ts.Assign.IsValid() {
			return idx.decodeTarget(ref, ts.Type)
		}
		if idx.decodable[t.Name] {
			return addrOf(ref), true
		}
		switch ts.Type.(type) {
		case *ast.StructType:
			// Structs of the input file are only generated when selected;
			// those of sibling files are generated by their own run.
			if !idx.generated(ts) {
				return "", false
			}
			return addrOf(ref), true
		case *ast.Ident:
			base, ok := idx.scalarBase(t.Name)
			if !ok {
				return "", false
			}
			return fmt.Sprintf("(*%s)((*%s)(%s))", runtimeName(scalarTargets[base]), base, addrOf(ref)), true
		}
		return "", false
	case *ast.ArrayType:
		if t.Len != nil {
			return "", false
		}
		if ident, ok := t.Elt.(*ast.Ident); ok && (ident.Name == "byte" || ident.Name == "uint8") {
			return fmt.Sprintf("(*%s)(%s)", runtimeName("Bytes"), addrOf(ref)), true
		}
		elem, ok := idx.decodeTarget("(*e)", t.Elt)
		if !ok {
			return "", false
		}
		return decodableFunc(fmt.Sprintf("%s(d, %s, func(e *%s) %s { return %s })",
			runtimeName("DecodeSliceFunc"), addrOf(ref), types.ExprString(t.Elt), runtimeName("Decodable"), elem)), true
	case *ast.MapType:
		keyIdent, ok := t.Key.(*ast.Ident)
		if !ok {
			return "", false
		}
		if _, ok := idx.scalarBase(keyIdent.Name); !ok {
			return "", false
		}
		key, ok := idx.decodeTarget("(*k)", t.Key)
		if !ok {
			return "", false
		}
		val, ok := idx.decodeTarget("(*v)", t.Value)
		if !ok {
			return "", false
		}
		return decodableFunc(fmt.Sprintf("%s(d, %s, func(k *%s) %s { return %s }, func(v *%s) %s { return %s })",
			runtimeName("DecodeMapFunc"), addrOf(ref),
			keyIdent.Name, runtimeName("Decodable"), key,
			types.ExprString(t.Value), runtimeName("Decodable"), val)), true
	case *ast.StarExpr:
		inner, ok := idx.decodeTarget("(*p)", t.X)
		if !ok {
			return "", false
		}
		return decodableFunc(fmt.Sprintf("%s(d, %s, func(p *%s) %s { return %s })",
			runtimeName("DecodeNullableFunc"), addrOf(ref), types.ExprString(t.X), runtimeName("Decodable"), inner)), true
	}
	return "", false
}

func decodableFunc(body string) string {
	return fmt.Sprintf("%s(func(d *%s) error {\n\treturn %s\n})",
		runtimeName("DecodableFunc"), runtimeName("Decoder"), body)
}
