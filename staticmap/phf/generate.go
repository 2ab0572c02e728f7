package phf

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"text/template"
)

// GenerateConfig names the generated variable and its package.
type GenerateConfig struct {
	Package string
	Var     string
	// Doc is the doc comment of the variable, without comment markers.
	Doc string
	// Generator is recorded in the "Code generated" header.
	Generator string
}

var sourceTmpl = template.Must(template.New("phf").Parse(`// Code generated by {{.Generator}}; DO NOT EDIT.

package {{.Package}}

import "github.com/hupe1980/topicmap/staticmap/phf"
{{if .Doc}}
// {{.Doc}}{{end}}
var {{.Var}} = &phf.Table{
	Seeds: []uint32{
{{- range .Table.Seeds}}
		{{.}},
{{- end}}
	},
	Keys: []string{
{{- range .Table.Keys}}
		{{printf "%q" .}},
{{- end}}
	},
	Values: []uint32{
{{- range .Table.Values}}
		{{.}},
{{- end}}
	},
}
`))

// Generate writes t as a Go source file declaring cfg.Var.
func Generate(w io.Writer, cfg GenerateConfig, t *Table) error {
	if cfg.Package == "" || cfg.Var == "" {
		return fmt.Errorf("phf: package and variable name are required")
	}
	if cfg.Generator == "" {
		cfg.Generator = "phf.Generate"
	}

	var buf bytes.Buffer
	err := sourceTmpl.Execute(&buf, struct {
		GenerateConfig
		Table *Table
	}{cfg, t})
	if err != nil {
		return fmt.Errorf("phf: render: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("phf: format: %w", err)
	}
	_, err = w.Write(src)
	return err
}
