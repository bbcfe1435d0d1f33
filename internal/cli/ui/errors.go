package ui

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/conduit-lang/catalog/internal/validation"
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Context      string
	Problem      string
	Details      []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates an error message with optional details and help
// commands, e.g.
//
//	✗ SAVE FAILED: Changes are incomplete
//	   parameters[0].name: is required
//
//	   → Show the function: catalog functions show 10
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	header := color.New(color.FgRed, color.Bold)
	body := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)
	if opts.NoColor {
		header.DisableColor()
		body.DisableColor()
		cyan.DisableColor()
	}

	if opts.Context != "" {
		header.Fprintf(&b, "✗ %s: %s\n", strings.ToUpper(opts.Context), opts.Problem)
	} else {
		header.Fprintf(&b, "✗ %s\n", opts.Problem)
	}
	for _, d := range opts.Details {
		body.Fprintf(&b, "   %s\n", d)
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}
	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// ErrorDetails splits err into display lines. Validation errors yield one
// "field: message" line per message, sorted by field.
func ErrorDetails(err error) []string {
	if err == nil {
		return nil
	}
	var verrs *validation.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(verrs.Fields))
	for field := range verrs.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var lines []string
	for _, field := range fields {
		for _, msg := range verrs.Fields[field] {
			lines = append(lines, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	return lines
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}
