// Package diag defines the structured error record produced by every
// failure path in the evaluator. An Error always carries the origin of the
// construct the user can act on, a short title, an optional longer help
// message, and an ordered list of sub-errors pointing at related sites
// (the previous declaration of a duplicated argument, for example).
package diag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/forgegen/internal/origin"
)

// Titles that are part of the diagnostic contract. Tests and callers match
// on these strings; do not reword them.
const (
	DuplicateDeclarationTitle = "Duplicate build argument declaration."
	UnusedOverrideTitle       = "Build argument has no effect."
	TypeMismatchTitle         = "Type mismatch."
)

// Error is a diagnostic anchored to a source construct.
type Error struct {
	origin  origin.Node
	title   string
	message string
	sub     []*Error
}

// New builds an Error anchored at node. The title is a single short
// sentence; message is the longer help text, possibly empty.
func New(node origin.Node, title, message string) *Error {
	return &Error{origin: node, title: title, message: message}
}

// Origin reports the node the error is anchored to. May be nil for
// failures with no source site, such as an HCL diagnostic without a
// subject range.
func (e *Error) Origin() origin.Node { return e.origin }

// Title reports the short one-line description.
func (e *Error) Title() string { return e.title }

// Message reports the longer help text.
func (e *Error) Message() string { return e.message }

// SubErrors reports related diagnostics, in the order they were appended.
func (e *Error) SubErrors() []*Error { return e.sub }

// Append attaches a related sub-error.
func (e *Error) Append(sub *Error) {
	e.sub = append(e.sub, sub)
}

// Error implements the error interface with a single-line summary.
func (e *Error) Error() string {
	if loc := e.location(); loc != "" {
		return loc + ": " + e.title
	}
	return e.title
}

// Render formats the full diagnostic, including the help text and
// sub-errors, for terminal output.
func (e *Error) Render() string {
	var b strings.Builder
	e.renderInto(&b, "")
	return b.String()
}

func (e *Error) renderInto(b *strings.Builder, indent string) {
	b.WriteString(indent)
	b.WriteString("ERROR")
	if loc := e.location(); loc != "" {
		b.WriteString(" at ")
		b.WriteString(loc)
	}
	b.WriteString(": ")
	b.WriteString(e.title)
	b.WriteString("\n")
	if e.message != "" {
		for _, line := range strings.Split(e.message, "\n") {
			b.WriteString(indent)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	for _, sub := range e.sub {
		sub.renderInto(b, indent+"  ")
	}
}

func (e *Error) location() string {
	if e.origin == nil {
		return ""
	}
	r := e.origin.Range()
	if r.Filename == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", r.Filename, r.Start.Line, r.Start.Column)
}

// FromDiagnostics converts a non-empty hcl.Diagnostics into an Error,
// preserving the first diagnostic's subject range as the origin and
// attaching the rest as sub-errors. Returns nil when diags carries no
// errors.
func FromDiagnostics(diags hcl.Diagnostics) *Error {
	if !diags.HasErrors() {
		return nil
	}
	var top *Error
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		var node origin.Node
		if d.Subject != nil {
			node = origin.At(*d.Subject)
		}
		e := New(node, d.Summary, d.Detail)
		if top == nil {
			top = e
		} else {
			top.Append(e)
		}
	}
	return top
}
