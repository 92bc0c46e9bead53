// Package args is the process-wide registry of declared build arguments
// and their overrides. One Args instance is shared by every toolchain
// evaluated in a run; it records command-line and root-file overrides,
// applies them lazily as declare_args blocks are reached, and audits for
// overrides that never found a declaration.
//
// The central rule is that an override of a not-yet-declared argument is
// held pending rather than rejected: SetupRootScope applies overrides only
// to the names already declared at that point (the system variables), and
// DeclareArgs applies the rest as the declarations arrive. Only the final
// audit reports overrides that never matched a declaration anywhere.
package args

import (
	"sort"
	"sync"

	"github.com/vk/forgegen/internal/diag"
	"github.com/vk/forgegen/internal/scope"
	"github.com/vk/forgegen/internal/spell"
	"github.com/vk/forgegen/internal/toolchain"
	"github.com/vk/forgegen/internal/value"
)

// Args tracks build-argument state across all toolchains of a run. All
// four maps are guarded by one mutex; every exported method holds it for
// its full duration, so readers observe a consistent snapshot.
type Args struct {
	mu sync.Mutex

	// overrides holds the global overrides: command line plus the root
	// file's defaults. Applied to scopes at declaration time.
	overrides scope.KeyValueMap

	// allOverrides records every override ever observed, including
	// per-toolchain ones, except default overrides. It exists solely for
	// the unused-override audit.
	allOverrides scope.KeyValueMap

	// declaredPerToolchain maps each toolchain to the arguments declared
	// while evaluating under it, with their default values.
	declaredPerToolchain map[*toolchain.Settings]scope.KeyValueMap

	// toolchainOverrides maps each toolchain to the overrides scoped to
	// it alone.
	toolchainOverrides map[*toolchain.Settings]scope.KeyValueMap
}

// New creates an empty argument registry for one generator run.
func New() *Args {
	return &Args{
		overrides:            scope.KeyValueMap{},
		allOverrides:         scope.KeyValueMap{},
		declaredPerToolchain: map[*toolchain.Settings]scope.KeyValueMap{},
		toolchainOverrides:   map[*toolchain.Settings]scope.KeyValueMap{},
	}
}

// AddArgOverride registers a single global override, normally from the
// command line.
func (a *Args) AddArgOverride(name string, v value.Value) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.overrides[name] = v
	a.allOverrides[name] = v
}

// AddArgOverrides registers a batch of global overrides.
func (a *Args) AddArgOverrides(overrides scope.KeyValueMap) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for name, v := range overrides {
		a.overrides[name] = v
		a.allOverrides[name] = v
	}
}

// AddDefaultArgOverrides registers overrides originating from the root
// argument file. They behave like global overrides except that the unused
// audit never reports them: defaults exist precisely to cover arguments
// that may or may not be declared.
func (a *Args) AddDefaultArgOverrides(overrides scope.KeyValueMap) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for name, v := range overrides {
		a.overrides[name] = v
	}
}

// GetArgOverride returns the recorded override for name, or nil when no
// override was ever observed.
func (a *Args) GetArgOverride(name string) *value.Value {
	a.mu.Lock()
	defer a.mu.Unlock()

	if v, ok := a.allOverrides[name]; ok {
		return &v
	}
	return nil
}

// GetArgFromAllArguments resolves name first against the observed
// overrides, then against the declared defaults of each toolchain in
// sorted order. Returns nil when the name is unknown everywhere.
func (a *Args) GetArgFromAllArguments(name string) *value.Value {
	a.mu.Lock()
	defer a.mu.Unlock()

	if v, ok := a.allOverrides[name]; ok {
		return &v
	}
	for _, settings := range a.sortedToolchainsLocked() {
		if v, ok := a.declaredPerToolchain[settings][name]; ok {
			return &v
		}
	}
	return nil
}

// SetupRootScope prepares the root scope of one toolchain: it seeds the
// system variables, applies the overrides that target already-declared
// names (only the system variables at this point), and files the
// toolchain's own overrides so later DeclareArgs calls can consult them.
func (a *Args) SetupRootScope(dest *scope.Scope, toolchainOverrides scope.KeyValueMap) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.setSystemVarsLocked(dest); err != nil {
		return err
	}

	// Overrides of names not declared yet stay pending; they are applied
	// when the corresponding declare_args block is evaluated.
	a.applyOverridesLocked(a.overrides, dest)
	a.applyOverridesLocked(toolchainOverrides, dest)

	stored := a.overridesForToolchainLocked(dest)
	for name, v := range toolchainOverrides {
		stored[name] = v
		a.allOverrides[name] = v
	}
	return nil
}

// DeclareArgs records the arguments of one declare_args block for the
// scope's toolchain and writes each argument's effective value into the
// scope: the toolchain override when present, else the global override,
// else the declared default.
//
// A name may be declared only once per toolchain; each toolchain keeps its
// own declarations, so other toolchains never conflict. Within a toolchain
// "once" is judged by origin identity, not by having seen the name before:
// the same declaration site seen again is accepted silently.
func (a *Args) DeclareArgs(argsToSet scope.KeyValueMap, scopeToSet *scope.Scope) *diag.Error {
	a.mu.Lock()
	defer a.mu.Unlock()

	declared := a.declaredForToolchainLocked(scopeToSet)
	toolchainOverrides := a.overridesForToolchainLocked(scopeToSet)

	for _, name := range sortedNames(argsToSet) {
		v := argsToSet[name]

		if prev, ok := declared[name]; ok {
			if prev.Origin() != v.Origin() {
				err := diag.New(v.Origin(), diag.DuplicateDeclarationTitle,
					"Here you're declaring an argument that was already declared elsewhere.\n"+
						"You can only declare each argument once in the entire build so there is one\n"+
						"canonical place for documentation and the default value.")
				err.Append(diag.New(prev.Origin(), "Previous declaration.", ""))
				return err
			}
		} else {
			declared[name] = v
		}

		// Mark the name used no matter which branch wins below. A value
		// overridden for toolchain A must not trip unused-variable
		// reporting in toolchain B, and a build file may overwrite the
		// value without reading it first.
		effective := v
		if ov, ok := toolchainOverrides[name]; ok {
			effective = ov
		} else if ov, ok := a.overrides[name]; ok {
			effective = ov
		}
		if err := scopeToSet.SetValue(name, effective, effective.Origin()); err != nil {
			return err
		}
		scopeToSet.MarkUsed(name)
	}

	return nil
}

// VerifyAllOverridesUsed checks that every observed override was declared
// by some toolchain. It is sound only after all toolchains have finished
// declaring. One representative offender is reported, with a spelling
// suggestion drawn from the union of declared names when one is close
// enough.
func (a *Args) VerifyAllOverridesUsed() *diag.Error {
	a.mu.Lock()
	defer a.mu.Unlock()

	unused := scope.KeyValueMap{}
	for name, v := range a.allOverrides {
		unused[name] = v
	}
	for _, declared := range a.declaredPerToolchain {
		for name := range declared {
			delete(unused, name)
		}
	}
	if len(unused) == 0 {
		return nil
	}

	// Report the lexicographically first offender so the message is
	// stable across runs.
	name := sortedNames(unused)[0]
	v := unused[name]

	var candidates []string
	for _, settings := range a.sortedToolchainsLocked() {
		candidates = append(candidates, sortedNames(a.declaredPerToolchain[settings])...)
	}

	help := "The variable \"" + name + "\" was set as a build argument\n" +
		"but never appeared in a declare_args() block in any build file.\n\n" +
		"To view all possible args, run \"forgegen --list\"."
	if suggestion := spell.Suggest(name, candidates); suggestion != "" {
		help = "Did you mean \"" + suggestion + "\"?\n\n" + help
	}

	return diag.New(v.Origin(), diag.UnusedOverrideTitle, help)
}

// ArgView describes one argument in the bulk listing: the declared
// default and, when one applies, the global override.
type ArgView struct {
	Name        string
	Default     value.Value
	HasOverride bool
	Override    value.Value
}

// GetAllArguments returns every declared argument with its default and
// override, sorted by name. Toolchains are walked default-first, and an
// argument declared by several toolchains keeps the first default seen,
// making the default toolchain's value authoritative. Overrides that were
// never declared anywhere are omitted; they surface only through the
// audit.
func (a *Args) GetAllArguments() []ArgView {
	a.mu.Lock()
	defer a.mu.Unlock()

	byName := map[string]ArgView{}
	for _, settings := range a.sortedToolchainsLocked() {
		for name, v := range a.declaredPerToolchain[settings] {
			if _, ok := byName[name]; !ok {
				byName[name] = ArgView{Name: name, Default: v}
			}
		}
	}

	for name, ov := range a.overrides {
		view, ok := byName[name]
		if !ok {
			continue
		}
		view.HasOverride = true
		view.Override = ov
		byName[name] = view
	}

	views := make([]ArgView, 0, len(byName))
	for _, name := range sortedNames(byName) {
		views = append(views, byName[name])
	}
	return views
}

func (a *Args) sortedToolchainsLocked() []*toolchain.Settings {
	toolchains := make([]*toolchain.Settings, 0, len(a.declaredPerToolchain))
	for settings := range a.declaredPerToolchain {
		toolchains = append(toolchains, settings)
	}
	toolchain.Sort(toolchains)
	return toolchains
}

func (a *Args) applyOverridesLocked(values scope.KeyValueMap, dest *scope.Scope) {
	declared := a.declaredForToolchainLocked(dest)
	for name, v := range values {
		if _, ok := declared[name]; !ok {
			continue
		}
		dest.SetValue(name, v, v.Origin())
	}
}

func (a *Args) declaredForToolchainLocked(sc *scope.Scope) scope.KeyValueMap {
	m, ok := a.declaredPerToolchain[sc.Settings()]
	if !ok {
		m = scope.KeyValueMap{}
		a.declaredPerToolchain[sc.Settings()] = m
	}
	return m
}

func (a *Args) overridesForToolchainLocked(sc *scope.Scope) scope.KeyValueMap {
	m, ok := a.toolchainOverrides[sc.Settings()]
	if !ok {
		m = scope.KeyValueMap{}
		a.toolchainOverrides[sc.Settings()] = m
	}
	return m
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
