// Command kindgen writes the registration function for every struct type of a
// package marked with an //ecs:component directive.
//
//	go run ./cmd/kindgen -pkg ./ecs -out zz_generated_kinds.go -func registerBuiltinComponents
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"log"
	"os"
	"path/filepath"
	"slices"
	"text/template"

	"golang.org/x/tools/go/packages"
)

const (
	marker  = "//ecs:component"
	ecsPath = "github.com/plus3/scene2d/ecs"
)

func main() {
	pattern := flag.String("pkg", ".", "Package to scan for marked types.")
	out := flag.String("out", "zz_generated_kinds.go", "Output file, relative to the package directory.")
	funcName := flag.String("func", "RegisterComponents", "Name of the generated function.")
	flag.Parse()

	if err := run(*pattern, *out, *funcName); err != nil {
		log.Fatalf("kindgen: %v", err)
	}
}

func run(pattern, out, funcName string) error {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return fmt.Errorf("loading %s: %w", pattern, err)
	}
	if len(pkgs) != 1 {
		return fmt.Errorf("pattern %s matched %d packages, want 1", pattern, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return fmt.Errorf("loading %s: %v", pattern, pkg.Errors[0])
	}
	if len(pkg.GoFiles) == 0 {
		return fmt.Errorf("package %s has no Go files", pkg.PkgPath)
	}

	src, err := generate(pkg.Name, funcName, pkg.PkgPath != ecsPath, markedTypes(pkg.Syntax))
	if err != nil {
		return err
	}

	if !filepath.IsAbs(out) {
		out = filepath.Join(filepath.Dir(pkg.GoFiles[0]), out)
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	log.Printf("kindgen: wrote %s", out)
	return nil
}

// markedTypes returns the sorted names of struct types carrying the marker,
// either on the type spec or on a single-spec type declaration.
func markedTypes(files []*ast.File) []string {
	var names []string
	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				if _, ok := ts.Type.(*ast.StructType); !ok || ts.TypeParams != nil {
					continue
				}
				if hasMarker(ts.Doc) || (len(gen.Specs) == 1 && hasMarker(gen.Doc)) {
					names = append(names, ts.Name.Name)
				}
			}
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// hasMarker scans the raw comments; CommentGroup.Text drops directives.
func hasMarker(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if c.Text == marker {
			return true
		}
	}
	return false
}

var fileTemplate = template.Must(template.New("kinds").Parse(`// Code generated by kindgen. DO NOT EDIT.

package {{.Package}}
{{if .Qualified}}
import "github.com/plus3/scene2d/ecs"
{{end}}
func {{.Func}}(r *{{.Prefix}}ComponentRegistry) {
{{- range .Types}}
	{{$.Prefix}}RegisterComponent[{{.}}](r)
{{- end}}
}
`))

func generate(pkgName, funcName string, qualified bool, types []string) ([]byte, error) {
	data := struct {
		Package   string
		Func      string
		Qualified bool
		Prefix    string
		Types     []string
	}{
		Package:   pkgName,
		Func:      funcName,
		Qualified: qualified,
		Types:     types,
	}
	if qualified {
		data.Prefix = "ecs."
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting output: %w", err)
	}
	return src, nil
}
