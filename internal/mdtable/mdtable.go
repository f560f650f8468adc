// Package mdtable renders small markdown tables for chat replies.
package mdtable

import (
	"strings"
)

// Table is a markdown table with a fixed header row.
type Table struct {
	headers []string
	rows    [][]string
}

// New returns an empty table with the given column headers.
func New(headers ...string) *Table {
	return &Table{headers: headers}
}

// Append adds a row. Missing cells are left empty and extra cells dropped.
func (t *Table) Append(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// AppendTotal adds a bold "Total" row with value in the second column.
func (t *Table) AppendTotal(value string) {
	t.Append("**Total**", "**"+value+"**")
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) String() string {
	var b strings.Builder
	writeRow(&b, t.headers)
	sep := make([]string, len(t.headers))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for _, row := range t.rows {
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escape(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func escape(cell string) string {
	cell = strings.ReplaceAll(cell, "|", `\|`)
	return strings.ReplaceAll(cell, "\n", " ")
}

// Entry is one named value of a summary table.
type Entry struct {
	Name  string
	Value float64
}

// Summary renders entries in the given order followed by a bold total row.
func Summary(nameHeader, valueHeader string, entries []Entry, format func(float64) string) string {
	total := 0.0
	for _, e := range entries {
		total += e.Value
	}
	return SummaryWithTotal(nameHeader, valueHeader, entries, total, format)
}

// SummaryWithTotal is Summary with a total computed by the caller.
func SummaryWithTotal(nameHeader, valueHeader string, entries []Entry, total float64, format func(float64) string) string {
	t := New(nameHeader, valueHeader)
	for _, e := range entries {
		t.Append(e.Name, format(e.Value))
	}
	t.AppendTotal(format(total))
	return t.String()
}
