// Package loader reads the HCL project: the root config file naming the
// toolchains and their overrides, and the build files containing argument
// declarations and targets.
//
// Files are parsed exactly once and the extracted blocks are cached, no
// matter how many toolchains evaluate them. This is what makes origin
// identity work: the same declare_args attribute always presents the same
// origin token, so evaluating the cached file again under a toolchain that
// already declared it is accepted as the one canonical declaration.
package loader

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/forgegen/internal/origin"
	"github.com/vk/forgegen/internal/schema"
	"github.com/vk/forgegen/internal/scope"
	"github.com/vk/forgegen/internal/value"
)

// DeclaredArg is one name = expression entry of a declare_args block,
// kept unevaluated so each toolchain can resolve it against its own
// scope. The Origin is created once per parsed attribute.
type DeclaredArg struct {
	Name   string
	Expr   hcl.Expression
	Origin origin.Node
}

// DeclareBlock is one parsed declare_args block.
type DeclareBlock struct {
	Args []DeclaredArg
}

// TargetBlock is one parsed target block, body unevaluated.
type TargetBlock struct {
	Kind   string
	Name   string
	Attrs  hcl.Attributes
	Origin origin.Node
}

// BuildFile is the parse-once representation of one build file.
type BuildFile struct {
	Path     string
	Declares []*DeclareBlock
	Targets  []*TargetBlock
}

// ToolchainDef is a toolchain definition from the root config file.
type ToolchainDef struct {
	Label     string
	Overrides scope.KeyValueMap
}

// RootConfig is the evaluated root config file.
type RootConfig struct {
	DefaultArgs scope.KeyValueMap
	Toolchains  []*ToolchainDef
}

// Loader parses and caches project files. Safe for concurrent use by the
// per-toolchain evaluation goroutines.
type Loader struct {
	mu         sync.Mutex
	parser     *hclparse.Parser
	buildFiles map[string]*BuildFile
}

// New creates an empty loader.
func New() *Loader {
	return &Loader{
		parser:     hclparse.NewParser(),
		buildFiles: map[string]*BuildFile{},
	}
}

// LoadRoot parses and evaluates the root config file. Root-level argument
// blocks may only use literal expressions; nothing is in scope yet when
// the root file is read.
func (l *Loader) LoadRoot(path string) (*RootConfig, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	var root schema.RootFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}

	cfg := &RootConfig{DefaultArgs: scope.KeyValueMap{}}
	if root.DefaultArgs != nil {
		kvm, err := evalArgsBody(root.DefaultArgs.Body, nil)
		if err != nil {
			return nil, err
		}
		cfg.DefaultArgs = kvm
	}

	seen := map[string]struct{}{}
	for _, tc := range root.Toolchains {
		if _, dup := seen[tc.Label]; dup {
			return nil, fmt.Errorf("%s: toolchain %q defined twice", path, tc.Label)
		}
		if tc.Label == "" {
			return nil, fmt.Errorf("%s: toolchain label must not be empty", path)
		}
		seen[tc.Label] = struct{}{}

		def := &ToolchainDef{Label: tc.Label, Overrides: scope.KeyValueMap{}}
		if tc.Args != nil {
			kvm, err := evalArgsBody(tc.Args.Body, nil)
			if err != nil {
				return nil, err
			}
			def.Overrides = kvm
		}
		cfg.Toolchains = append(cfg.Toolchains, def)
	}

	sort.Slice(cfg.Toolchains, func(i, j int) bool {
		return cfg.Toolchains[i].Label < cfg.Toolchains[j].Label
	})
	return cfg, nil
}

// LoadBuildFile parses a build file, or returns the cached representation
// if any toolchain loaded it before.
func (l *Loader) LoadBuildFile(path string) (*BuildFile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.buildFiles[path]; ok {
		return f, nil
	}

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	var raw schema.BuildFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}

	f := &BuildFile{Path: path}
	for _, block := range raw.DeclareArgs {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", path, diags)
		}
		decl := &DeclareBlock{}
		for _, attr := range sortedAttributes(attrs) {
			decl.Args = append(decl.Args, DeclaredArg{
				Name:   attr.Name,
				Expr:   attr.Expr,
				Origin: origin.At(attr.Range),
			})
		}
		f.Declares = append(f.Declares, decl)
	}
	for _, t := range raw.Targets {
		attrs, diags := t.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", path, diags)
		}
		f.Targets = append(f.Targets, &TargetBlock{
			Kind:   t.Kind,
			Name:   t.Name,
			Attrs:  attrs,
			Origin: origin.At(t.Body.MissingItemRange()),
		})
	}

	l.buildFiles[path] = f
	return f, nil
}

// ParseOverrides parses a command-line override string ("enable_foo=true,
// os=\"mac\"") into a key/value map. Entries are separated by commas or
// newlines and use HCL expression syntax; only literals make sense here
// since nothing is in scope on the command line.
func ParseOverrides(src string) (scope.KeyValueMap, error) {
	if strings.TrimSpace(src) == "" {
		return scope.KeyValueMap{}, nil
	}
	normalized := strings.ReplaceAll(src, ",", "\n")
	file, diags := hclsyntax.ParseConfig([]byte(normalized), "<args>", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing --args: %w", diags)
	}
	kvm, err := evalArgsBody(file.Body, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing --args: %w", err)
	}
	return kvm, nil
}

// evalArgsBody evaluates a free-form name = expression body into values,
// each anchored at its attribute.
func evalArgsBody(body hcl.Body, evalCtx *hcl.EvalContext) (scope.KeyValueMap, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	kvm := scope.KeyValueMap{}
	for _, attr := range attrs {
		cv, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		v, derr := value.FromCty(cv, origin.At(attr.Range))
		if derr != nil {
			return nil, derr
		}
		kvm[attr.Name] = v
	}
	return kvm, nil
}

func sortedAttributes(attrs hcl.Attributes) []*hcl.Attribute {
	list := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		list = append(list, attr)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
