// Package ui renders catalog data and editor notifications in the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table represents a simple table for displaying tabular data
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool

	// marked rows get a leading "*" in an extra first column
	marked map[int]bool
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, noColor bool, headers ...string) *Table {
	return &Table{writer: w, headers: headers, noColor: noColor, marked: map[int]bool{}}
}

// AddRow adds a row to the table. Missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Mark flags the row at index, e.g. as having unsaved changes
func (t *Table) Mark(index int) {
	t.marked[index] = true
}

// Render renders the table to the writer
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range t.rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if n := utf8.RuneCountInString(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	header := t.color(color.Bold, color.FgCyan)
	gray := t.color(color.FgHiBlack)
	yellow := t.color(color.FgYellow)
	gutter := len(t.marked) > 0

	if gutter {
		fmt.Fprint(t.writer, "  ")
	}
	for i, h := range t.headers {
		header.Fprint(t.writer, padRight(h, widths[i]))
		t.sep(i)
	}
	fmt.Fprintln(t.writer)

	if gutter {
		fmt.Fprint(t.writer, "  ")
	}
	for i, width := range widths {
		gray.Fprint(t.writer, strings.Repeat("─", width))
		t.sep(i)
	}
	fmt.Fprintln(t.writer)

	for r, row := range t.rows {
		if gutter {
			if t.marked[r] {
				yellow.Fprint(t.writer, "* ")
			} else {
				fmt.Fprint(t.writer, "  ")
			}
		}
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			fmt.Fprint(t.writer, padRight(cell, widths[i]))
			t.sep(i)
		}
		fmt.Fprintln(t.writer)
	}
}

func (t *Table) sep(i int) {
	if i < len(t.headers)-1 {
		fmt.Fprint(t.writer, "  ")
	}
}

func (t *Table) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if t.noColor {
		c.DisableColor()
	}
	return c
}

// padRight pads s with spaces on the right to reach width
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// KeyValueTable renders aligned "key: value" lines
type KeyValueTable struct {
	writer  io.Writer
	keys    []string
	values  []string
	noColor bool
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, noColor: noColor}
}

// AddRow adds a key-value pair to the table
func (t *KeyValueTable) AddRow(key, value string) {
	t.keys = append(t.keys, key)
	t.values = append(t.values, value)
}

// Render renders the key-value table
func (t *KeyValueTable) Render() {
	width := 0
	for _, k := range t.keys {
		if len(k) > width {
			width = len(k)
		}
	}

	cyan := color.New(color.FgCyan)
	if t.noColor {
		cyan.DisableColor()
	}
	for i, k := range t.keys {
		cyan.Fprint(t.writer, padRight(k+":", width+1))
		fmt.Fprintf(t.writer, " %s\n", t.values[i])
	}
}
