// Package output renders command results as a table, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --output value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format '%s', must be one of: table, json, yaml", s)
	}
}

// Tabular is implemented by results that know how to lay themselves out as a table
type Tabular interface {
	Table() *Table
}

// Table is a list of rows under a header
type Table struct {
	Headers []string
	Rows    [][]string
	// Empty is printed instead of the table when there are no rows
	Empty string
}

// AddRow appends a row
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table with aligned columns
func (t *Table) Render(w io.Writer) error {
	if len(t.Rows) == 0 && t.Empty != "" {
		_, err := fmt.Fprintln(w, t.Empty)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
		rules := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			rules[i] = strings.Repeat("─", len([]rune(h)))
		}
		fmt.Fprintln(tw, strings.Join(rules, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Printer writes results in the selected format
type Printer struct {
	Out    io.Writer
	Format Format
}

// New creates a Printer
func New(out io.Writer, format Format) *Printer {
	return &Printer{Out: out, Format: format}
}

// Print renders data. data is the value encoded for JSON/YAML; in table mode
// it must implement Tabular, otherwise it is printed as YAML.
func (p *Printer) Print(data any) error {
	switch p.Format {
	case FormatJSON:
		encoder := json.NewEncoder(p.Out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		return p.yaml(data)
	default:
		if t, ok := data.(Tabular); ok {
			return t.Table().Render(p.Out)
		}
		return p.yaml(data)
	}
}

func (p *Printer) yaml(data any) error {
	encoder := yaml.NewEncoder(p.Out)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return encoder.Close()
}

// Structured reports whether the printer emits machine-readable output
func (p *Printer) Structured() bool {
	return p.Format == FormatJSON || p.Format == FormatYAML
}
