// Package tabular collects heterogeneous rows into one table whose columns
// are the union of the fields seen across rows.
package tabular

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Field is a single named cell of a row.
type Field struct {
	Name  string
	Value string
}

type Table struct {
	preferred map[string]int
	columns   []string
	seen      map[string]bool
	rows      []map[string]string
}

// New creates an empty table. columns named in `order` are laid out in that
// order, any other column follows in the order it was first seen.
func New(order ...string) *Table {
	preferred := make(map[string]int, len(order))
	for i, name := range order {
		preferred[name] = i
	}
	return &Table{
		preferred: preferred,
		seen:      map[string]bool{},
	}
}

func (t *Table) Append(fields []Field) {
	row := make(map[string]string, len(fields))
	for _, f := range fields {
		row[f.Name] = f.Value
		if !t.seen[f.Name] {
			t.seen[f.Name] = true
			t.columns = append(t.columns, f.Name)
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns the union of all field names.
func (t *Table) Columns() []string {
	columns := make([]string, len(t.columns))
	copy(columns, t.columns)
	sort.SliceStable(columns, func(i, j int) bool {
		pi, iok := t.preferred[columns[i]]
		pj, jok := t.preferred[columns[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok:
			return true
		default:
			return false
		}
	})
	return columns
}

// Rows returns every row laid out along Columns, missing cells are empty.
func (t *Table) Rows() [][]string {
	columns := t.Columns()
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		cells := make([]string, len(columns))
		for j, name := range columns {
			cells[j] = row[name]
		}
		out[i] = cells
	}
	return out
}

// WriteCSV writes a header row of column names followed by every row.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	err := writer.Write(t.Columns())
	if err != nil {
		return err
	}
	err = writer.WriteAll(t.Rows())
	if err != nil {
		return err
	}
	return writer.Error()
}

// Render pretty prints the table for a terminal.
func (t *Table) Render(w io.Writer) {
	out := table.NewWriter()
	out.SetStyle(table.StyleRounded)
	out.SetOutputMirror(w)

	header := table.Row{}
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	out.AppendHeader(header)
	for _, cells := range t.Rows() {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		out.AppendRow(row)
	}
	out.Render()
}
