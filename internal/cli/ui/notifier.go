package ui

import (
	"io"
	"strings"
	"sync"

	"github.com/conduit-lang/catalog/internal/editor"
)

// Notifier prints editor success and failure events. Updated events carry
// state for the caller to redisplay and are not printed.
type Notifier struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	noColor bool
}

// NewNotifier writes successes to out and failures to errOut
func NewNotifier(out, errOut io.Writer, noColor bool) *Notifier {
	return &Notifier{out: out, errOut: errOut, noColor: noColor}
}

// Notify implements editor.Notifier
func (n *Notifier) Notify(e editor.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch e.Kind {
	case editor.KindSuccess:
		WriteSuccess(n.out, e.Message, n.noColor)
	case editor.KindFailure:
		WriteError(n.errOut, ErrorOptions{
			Context: strings.ReplaceAll(string(e.Op), "_", " "),
			Problem: e.Message,
			Details: ErrorDetails(e.Err),
			NoColor: n.noColor,
		})
	}
}
