package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/conduit-lang/catalog/internal/catalog"
)

// RenderComponents prints one line per component
func RenderComponents(w io.Writer, components []catalog.Component, noColor bool) {
	t := NewTable(w, noColor, "ID", "NAME", "DESCRIPTION")
	for _, c := range components {
		t.AddRow(strconv.FormatInt(c.ID, 10), c.Name, c.Description)
	}
	t.Render()
}

// RenderFunctions prints one line per function with its signature
func RenderFunctions(w io.Writer, functions []catalog.Function, noColor bool) {
	t := NewTable(w, noColor, "ID", "NAME", "PARAMS", "SIGNATURE")
	for _, f := range functions {
		t.AddRow(strconv.FormatInt(f.ID, 10), f.Name, strconv.Itoa(len(f.Parameters)), f.Signature())
	}
	t.Render()
}

// RenderFunction prints a function header followed by its parameter table.
// Rows whose index is in dirty are marked as unsaved.
func RenderFunction(w io.Writer, name string, fn catalog.Function, params []catalog.Parameter, dirty []int, noColor bool) {
	bold := color.New(color.Bold)
	if noColor {
		bold.DisableColor()
	}
	bold.Fprintf(w, "%s", name)
	fmt.Fprintf(w, " (function %d)\n", fn.ID)

	view := fn
	view.Name = name
	view.Parameters = params
	fmt.Fprintf(w, "  %s\n\n", view.Signature())

	RenderParameters(w, params, dirty, noColor)
}

// RenderParameters prints the parameter rows with their draft index
func RenderParameters(w io.Writer, params []catalog.Parameter, dirty []int, noColor bool) {
	t := NewTable(w, noColor, "#", "ID", "NAME", "TYPE", "MULTI", "RETURN", "DEFAULT", "PATH", "POS", "DESCRIPTION")
	for i, p := range params {
		t.AddRow(
			strconv.Itoa(i),
			optInt64(p.ID, "new"),
			p.Name,
			p.ParamType,
			yesNo(p.IsMultipleValues),
			yesNo(p.IsReturnValue),
			optString(p.Default),
			optString(p.Path),
			optInt(p.PositionInSignature),
			p.Description,
		)
	}
	for _, i := range dirty {
		t.Mark(i)
	}
	t.Render()
}

// RenderTypes prints the registered parameter types
func RenderTypes(w io.Writer, types []string, noColor bool) {
	t := NewTable(w, noColor, "TYPE")
	for _, tag := range types {
		t.AddRow(tag)
	}
	t.Render()
}

func optInt64(v *int64, empty string) string {
	if v == nil {
		return empty
	}
	return strconv.FormatInt(*v, 10)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func optString(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
