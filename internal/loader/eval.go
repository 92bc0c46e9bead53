package loader

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/forgegen/internal/args"
	"github.com/vk/forgegen/internal/ctxlog"
	"github.com/vk/forgegen/internal/diag"
	"github.com/vk/forgegen/internal/emit"
	"github.com/vk/forgegen/internal/origin"
	"github.com/vk/forgegen/internal/scope"
	"github.com/vk/forgegen/internal/value"
)

// Evaluator resolves parsed build files against one toolchain's scope,
// routing argument declarations through the shared argument service.
// Each evaluating goroutine owns its Evaluator and scope; only the
// argument service is shared.
type Evaluator struct {
	args *args.Args
}

// NewEvaluator creates an evaluator backed by the shared argument service.
func NewEvaluator(a *args.Args) *Evaluator {
	return &Evaluator{args: a}
}

// DeclareFile evaluates the declare_args blocks of a build file against
// sc. Defaults may reference the system variables and any argument
// declared earlier in the same toolchain.
func (e *Evaluator) DeclareFile(ctx context.Context, f *BuildFile, sc *scope.Scope) *diag.Error {
	logger := ctxlog.FromContext(ctx)

	for _, block := range f.Declares {
		logger.Debug("Evaluating declare_args block.", "file", f.Path, "toolchain", sc.Settings().String(), "count", len(block.Args))

		kvm := scope.KeyValueMap{}
		evalCtx := evalContext(sc)
		for _, arg := range block.Args {
			v, derr := evalExpr(arg.Expr, arg.Origin, sc, evalCtx)
			if derr != nil {
				return derr
			}
			kvm[arg.Name] = v
		}

		if derr := e.args.DeclareArgs(kvm, sc); derr != nil {
			return derr
		}
	}
	return nil
}

// EvalTargets evaluates the target blocks of a build file against sc,
// which the caller has typically frozen by now; targets only read. The
// resulting records carry the scope's toolchain label.
func (e *Evaluator) EvalTargets(ctx context.Context, f *BuildFile, sc *scope.Scope) ([]emit.Target, *diag.Error) {
	logger := ctxlog.FromContext(ctx)

	var targets []emit.Target
	for _, t := range f.Targets {
		logger.Debug("Evaluating target.", "file", f.Path, "target", t.Name, "toolchain", sc.Settings().String())

		target, derr := e.evalTarget(t, sc)
		if derr != nil {
			return nil, derr
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (e *Evaluator) evalTarget(t *TargetBlock, sc *scope.Scope) (emit.Target, *diag.Error) {
	target := emit.Target{
		Name:      t.Name,
		Kind:      t.Kind,
		Toolchain: sc.Settings().Label(),
	}

	evalCtx := evalContext(sc)
	for _, attr := range sortedAttributes(t.Attrs) {
		org := origin.At(attr.Range)
		v, derr := evalExpr(attr.Expr, org, sc, evalCtx)
		if derr != nil {
			return emit.Target{}, derr
		}

		switch attr.Name {
		case "command":
			list, derr := asStringList(v)
			if derr != nil {
				return emit.Target{}, derr
			}
			target.Command = list
		case "sources":
			list, derr := asStringList(v)
			if derr != nil {
				return emit.Target{}, derr
			}
			target.Sources = list
		case "deps":
			list, derr := asStringList(v)
			if derr != nil {
				return emit.Target{}, derr
			}
			target.Deps = list
		case "outputs":
			list, derr := asStringList(v)
			if derr != nil {
				return emit.Target{}, derr
			}
			target.Outputs = list
		default:
			return emit.Target{}, diag.New(org, "Unknown target attribute.",
				fmt.Sprintf("Target %q does not accept %q. Valid attributes: command, sources, deps, outputs.", t.Name, attr.Name))
		}
	}
	return target, nil
}

// evalExpr evaluates one expression, marking every variable it references
// as used in sc before resolving it.
func evalExpr(expr hcl.Expression, org origin.Node, sc *scope.Scope, evalCtx *hcl.EvalContext) (value.Value, *diag.Error) {
	for _, traversal := range expr.Variables() {
		sc.MarkUsed(traversal.RootName())
	}
	cv, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return value.Value{}, diag.FromDiagnostics(diags)
	}
	return value.FromCty(cv, org)
}

// evalContext exposes the scope chain to HCL expressions, outer scopes
// first so inner values shadow.
func evalContext(sc *scope.Scope) *hcl.EvalContext {
	var chain []*scope.Scope
	for cur := sc; cur != nil; cur = cur.Parent() {
		chain = append(chain, cur)
	}

	vars := map[string]cty.Value{}
	for i := len(chain) - 1; i >= 0; i-- {
		local := scope.KeyValueMap{}
		chain[i].GetCurrentScopeValues(local)
		for name, v := range local {
			vars[name] = v.ToCty()
		}
	}
	return &hcl.EvalContext{Variables: vars}
}

// asStringList accepts either a single string or a list of strings.
func asStringList(v value.Value) ([]string, *diag.Error) {
	if v.Kind() == value.KindString {
		return []string{v.StringValue()}, nil
	}
	if derr := v.CheckKind(value.KindList); derr != nil {
		return nil, derr
	}
	items := v.ListValue()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if derr := item.CheckKind(value.KindString); derr != nil {
			return nil, derr
		}
		out = append(out, item.StringValue())
	}
	return out, nil
}
