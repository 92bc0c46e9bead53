// Package scope implements the evaluator's symbol table. A Scope holds the
// variables of one lexical context, records which of them were used, and
// is bound to the toolchain it is being evaluated under. Scopes are
// confined to a single evaluating goroutine and are never shared across
// threads; the argument service is the only cross-toolchain state.
package scope

import (
	"github.com/vk/forgegen/internal/diag"
	"github.com/vk/forgegen/internal/origin"
	"github.com/vk/forgegen/internal/toolchain"
	"github.com/vk/forgegen/internal/value"
)

// KeyValueMap is the bulk name-to-value form passed between the scope and
// the argument service.
type KeyValueMap map[string]value.Value

// Scope is a lexically nested symbol table.
type Scope struct {
	parent   *Scope
	settings *toolchain.Settings
	values   KeyValueMap
	used     map[string]struct{}
	readOnly bool
}

// NewRoot creates a root scope bound to the given toolchain. The binding
// is fixed for the scope's lifetime.
func NewRoot(settings *toolchain.Settings) *Scope {
	return &Scope{
		settings: settings,
		values:   KeyValueMap{},
		used:     map[string]struct{}{},
	}
}

// NewChild creates a nested scope sharing the parent's toolchain binding.
func NewChild(parent *Scope) *Scope {
	return &Scope{
		parent:   parent,
		settings: parent.settings,
		values:   KeyValueMap{},
		used:     map[string]struct{}{},
	}
}

// Parent reports the enclosing scope, or nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Settings reports the toolchain this scope is evaluated under. Stable
// for the scope's lifetime.
func (s *Scope) Settings() *toolchain.Settings { return s.settings }

// SetValue inserts or replaces the named variable, re-anchoring the value
// at org. A name is present at most once; the last write wins. Fails only
// when the scope has been frozen.
func (s *Scope) SetValue(name string, v value.Value, org origin.Node) *diag.Error {
	if s.readOnly {
		return diag.New(org, "Assignment to a frozen scope.",
			"This file's variables were finalized before this point and can no longer change.")
	}
	s.values[name] = v.WithOrigin(org)
	return nil
}

// GetValue returns the local value for name, or nil when absent. Reading
// through GetValue does not mark the name used.
func (s *Scope) GetValue(name string) *value.Value {
	if v, ok := s.values[name]; ok {
		return &v
	}
	return nil
}

// Lookup resolves name against this scope and its ancestors, innermost
// first. Like GetValue it does not mark the name used.
func (s *Scope) Lookup(name string) *value.Value {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.values[name]; ok {
			return &v
		}
	}
	return nil
}

// MarkUsed records that name was consumed. Idempotent, and valid both
// before and after the corresponding write.
func (s *Scope) MarkUsed(name string) {
	s.used[name] = struct{}{}
}

// IsUsed reports whether name carries a used-mark in this scope.
func (s *Scope) IsUsed(name string) bool {
	_, ok := s.used[name]
	return ok
}

// GetCurrentScopeValues copies the local mapping into out. Used-marks are
// not part of the snapshot, and parent scopes are not consulted.
func (s *Scope) GetCurrentScopeValues(out KeyValueMap) {
	for name, v := range s.values {
		out[name] = v
	}
}

// Freeze makes the scope read-only. Any later SetValue fails with a
// diagnostic. There is no thaw.
func (s *Scope) Freeze() {
	s.readOnly = true
}
