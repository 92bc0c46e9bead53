// Package testutil provides shared fixtures for evaluator tests.
package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/forgegen/internal/origin"
	"github.com/vk/forgegen/internal/scope"
	"github.com/vk/forgegen/internal/toolchain"
)

// Setup bundles a toolchain and a root scope bound to it, the fixture
// nearly every argument-resolution test starts from.
type Setup struct {
	Settings *toolchain.Settings
	Scope    *scope.Scope
}

// NewSetup creates a fixture for the default toolchain.
func NewSetup() *Setup {
	return NewSetupWithLabel("")
}

// NewSetupWithLabel creates a fixture for a named toolchain.
func NewSetupWithLabel(label string) *Setup {
	settings := toolchain.New(label)
	return &Setup{
		Settings: settings,
		Scope:    scope.NewRoot(settings),
	}
}

var originCounter atomic.Int64

// Origin returns a fresh origin token with a unique fake source range.
// Every call yields a distinct identity, standing in for a distinct AST
// node.
func Origin() origin.Node {
	n := originCounter.Add(1)
	return origin.At(hcl.Range{
		Filename: fmt.Sprintf("test%d.hcl", n),
		Start:    hcl.Pos{Line: 1, Column: 1, Byte: 0},
		End:      hcl.Pos{Line: 1, Column: 2, Byte: 1},
	})
}
