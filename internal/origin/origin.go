// Package origin defines the token that ties evaluated values and
// diagnostics back to the source construct that produced them.
package origin

import "github.com/hashicorp/hcl/v2"

// Node identifies the source construct that produced a value. Identity is
// interface pointer equality: two declarations are the same declaration
// exactly when they carry the identical Node. The loader creates one Node
// per parsed attribute and reuses it for every toolchain the file is
// evaluated under, so re-evaluating a file never looks like a
// redeclaration.
type Node interface {
	// Range reports the source range the node covers.
	Range() hcl.Range
}

// Span is a Node anchored to a fixed source range. The loader wraps parsed
// attributes in Spans; tests construct them directly.
type Span struct {
	SrcRange hcl.Range
}

// Range implements Node.
func (s *Span) Range() hcl.Range { return s.SrcRange }

// At returns a Node covering the given range.
func At(r hcl.Range) Node { return &Span{SrcRange: r} }
