package csrmap

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"strings"
	"text/template"
)

type Options struct {
	Package string
	// Tags is copied verbatim into a //go:build line.
	Tags string
	// Source is named in the header.
	Source string
}

var fileTemplate = template.Must(template.New("csr").Parse(`// Code generated by csrgen from {{.Source}}. DO NOT EDIT.

{{if .Tags}}//go:build {{.Tags}}

{{end}}package {{.Package}}

{{if .Bases}}// CSR peripheral base addresses.
const (
{{range .Bases}}	{{.Ident}} = {{.Value}}
{{end}})
{{end}}
{{if .Registers}}// CSR register addresses.
const (
{{range .Registers}}	{{.Ident}} = {{.Value}} //{{.Comment}}
{{end}})
{{end}}
{{if .Constants}}// SoC configuration constants.
const (
{{range .Constants}}	{{.Ident}} = {{.Value}}
{{end}})
{{end}}
{{if .Regions}}// Memory regions.
const (
{{range .Regions}}	{{.Ident}} = {{.Value}}
{{end}})
{{end}}`))

type line struct {
	Ident   string
	Value   string
	Comment string
}

type fileData struct {
	Options
	Bases     []line
	Registers []line
	Constants []line
	Regions   []line
}

// Generate writes m as Go constants.  Constants that are only flags are
// left out.
func Generate(w io.Writer, m *Map, opts Options) error {
	if opts.Package == "" {
		opts.Package = "main"
	}
	if opts.Source == "" {
		opts.Source = "csr.csv"
	}
	data := fileData{Options: opts}
	seen := map[string]string{}
	ident := func(prefix, name string) (string, error) {
		id := prefix + Identifier(name)
		if prev, ok := seen[id]; ok {
			return "", fmt.Errorf("%s and %s both become %s", prev, name, id)
		}
		seen[id] = name
		return id, nil
	}

	for _, b := range m.Bases {
		id, err := ident("CSRBase", b.Name)
		if err != nil {
			return err
		}
		data.Bases = append(data.Bases, line{Ident: id, Value: hex(b.Addr)})
	}
	for _, r := range m.Registers {
		id, err := ident("CSR", r.Name)
		if err != nil {
			return err
		}
		data.Registers = append(data.Registers, line{Ident: id, Value: hex(r.Addr),
			Comment: fmt.Sprintf("%s, %d word", r.Mode, r.Size)})
	}
	for _, c := range m.Constants {
		if c.Flag() {
			continue
		}
		id, err := ident("", c.Name)
		if err != nil {
			return err
		}
		v := strconv.Quote(c.Value)
		if _, ok := c.Numeric(); ok {
			v = c.Value
		}
		data.Constants = append(data.Constants, line{Ident: id, Value: v})
	}
	for _, r := range m.Regions {
		id, err := ident("Mem", r.Name)
		if err != nil {
			return err
		}
		data.Regions = append(data.Regions,
			line{Ident: id + "Base", Value: hex(r.Addr)},
			line{Ident: id + "Size", Value: hex(r.Size)})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("generated code does not parse: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%08x", v)
}

// Identifier turns a LiteX name such as config_cpu_human_name into an
// exported Go name, ConfigCpuHumanName.
func Identifier(name string) string {
	var sb strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) {
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}
