// Package schema holds the HCL block shapes of the build description: the
// root config file (default args and toolchain definitions) and the build
// files (argument declarations and targets). Free-form argument blocks
// keep their bodies raw; the loader extracts attributes from them so each
// attribute's expression and range survive as the value's origin.
package schema

import "github.com/hashicorp/hcl/v2"

// ArgsBody is a block whose content is an open set of name = expression
// attributes: default_args, declare_args and toolchain_args all share it.
type ArgsBody struct {
	Body hcl.Body `hcl:",remain"`
}

// Toolchain defines one non-default evaluation context in the root file.
type Toolchain struct {
	Label string    `hcl:"label,label"`
	Args  *ArgsBody `hcl:"toolchain_args,block"`
}

// RootFile is the top-level structure of the root config file.
type RootFile struct {
	DefaultArgs *ArgsBody    `hcl:"default_args,block"`
	Toolchains  []*Toolchain `hcl:"toolchain,block"`
	Body        hcl.Body     `hcl:",remain"`
}

// Target is a build-graph node declared in a build file. Its body is an
// open attribute set evaluated per toolchain with the scope's variables
// visible.
type Target struct {
	Kind string   `hcl:"kind,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// BuildFile is the top-level structure of a build file.
type BuildFile struct {
	DeclareArgs []*ArgsBody `hcl:"declare_args,block"`
	Targets     []*Target   `hcl:"target,block"`
	Body        hcl.Body    `hcl:",remain"`
}
