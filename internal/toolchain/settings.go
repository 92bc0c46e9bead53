// Package toolchain describes the per-toolchain evaluation context. A
// Settings value is the stable identity of one toolchain for the duration
// of a generator run: the argument service keys its per-toolchain state by
// *Settings.
package toolchain

import (
	"sort"
	"sync/atomic"
)

var seqCounter atomic.Uint64

// Settings is an immutable toolchain descriptor. The empty label marks the
// default toolchain. Several distinct Settings instances may all be
// default: every New("") call creates another one, and each is a separate
// key for the argument service.
type Settings struct {
	label string
	seq   uint64
}

// New creates a Settings with the given toolchain label. An empty label
// creates a default-toolchain instance.
func New(label string) *Settings {
	return &Settings{label: label, seq: seqCounter.Add(1)}
}

// Label reports the toolchain label; empty for the default toolchain.
func (s *Settings) Label() string { return s.label }

// IsDefault reports whether this is a default-toolchain instance.
func (s *Settings) IsDefault() bool { return s.label == "" }

// String names the toolchain for logs and the emitted manifest.
func (s *Settings) String() string {
	if s.IsDefault() {
		return "default"
	}
	return s.label
}

// Sort orders settings deterministically: default toolchains first, then
// label ascending. Instances that tie on both (several defaults) are
// ordered by creation sequence, keeping the order total so iteration over
// per-toolchain state is reproducible within a run.
func Sort(list []*Settings) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.IsDefault() != b.IsDefault() {
			return a.IsDefault()
		}
		if a.label != b.label {
			return a.label < b.label
		}
		return a.seq < b.seq
	})
}
