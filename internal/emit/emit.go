// Package emit produces the build manifest consumed by the external
// executor: the evaluated targets of every toolchain plus the resolved
// build-argument table. Output is YAML with fully deterministic ordering,
// so regenerating an unchanged project yields a byte-identical file.
package emit

import (
	"io"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/vk/forgegen/internal/args"
)

// Target is one evaluated build-graph node, already resolved against a
// specific toolchain. Dependency resolution and execution are the
// executor's concern; forgegen passes these records through.
type Target struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Toolchain string   `yaml:"toolchain,omitempty"`
	Command   []string `yaml:"command,omitempty"`
	Sources   []string `yaml:"sources,omitempty"`
	Deps      []string `yaml:"deps,omitempty"`
	Outputs   []string `yaml:"outputs,omitempty"`
}

// Arg is one row of the manifest's argument table.
type Arg struct {
	Name     string `yaml:"name"`
	Default  string `yaml:"default"`
	Override string `yaml:"override,omitempty"`
}

// Manifest is the full executor input.
type Manifest struct {
	Args    []Arg    `yaml:"args"`
	Targets []Target `yaml:"targets"`
}

// Build assembles a manifest from the argument registry and the targets
// collected across all toolchains. Targets are sorted by (toolchain,
// name, kind); the argument table keeps the registry's name order.
func Build(a *args.Args, targets []Target) *Manifest {
	m := &Manifest{Targets: targets}

	for _, view := range a.GetAllArguments() {
		row := Arg{Name: view.Name, Default: view.Default.Describe()}
		if view.HasOverride {
			row.Override = view.Override.Describe()
		}
		m.Args = append(m.Args, row)
	}

	sort.Slice(m.Targets, func(i, j int) bool {
		ti, tj := m.Targets[i], m.Targets[j]
		if ti.Toolchain != tj.Toolchain {
			return ti.Toolchain < tj.Toolchain
		}
		if ti.Name != tj.Name {
			return ti.Name < tj.Name
		}
		return ti.Kind < tj.Kind
	})

	return m
}

// Write encodes the manifest as YAML.
func (m *Manifest) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w, yaml.Indent(2))
	defer enc.Close()
	return enc.Encode(m)
}
