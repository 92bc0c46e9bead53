package value

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/forgegen/internal/diag"
	"github.com/vk/forgegen/internal/origin"
)

// FromCty folds an evaluated HCL expression result into the closed Value
// model. Numbers must be whole and fit an int64; objects and maps become
// scope snapshots; lists, sets and tuples become lists. Anything else is
// a type mismatch anchored at org.
func FromCty(cv cty.Value, org origin.Node) (Value, *diag.Error) {
	if cv == cty.NilVal || cv.IsNull() {
		return Null(org), nil
	}
	if !cv.IsKnown() {
		return Value{}, diag.New(org, diag.TypeMismatchTitle,
			"Expression did not produce a known value.")
	}

	ty := cv.Type()
	switch {
	case ty == cty.Bool:
		return Bool(cv.True(), org), nil
	case ty == cty.Number:
		bf := cv.AsBigFloat()
		i, acc := bf.Int64()
		if acc != big.Exact {
			return Value{}, diag.New(org, diag.TypeMismatchTitle,
				fmt.Sprintf("Number %s is not a whole 64-bit integer.", bf.Text('g', -1)))
		}
		return Int(i, org), nil
	case ty == cty.String:
		return String(cv.AsString(), org), nil
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		items := make([]Value, 0, cv.LengthInt())
		for it := cv.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := FromCty(ev, org)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return List(items, org), nil
	case ty.IsMapType():
		fields := make(map[string]Value, cv.LengthInt())
		for it := cv.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			field, err := FromCty(ev, org)
			if err != nil {
				return Value{}, err
			}
			fields[kv.AsString()] = field
		}
		return Snapshot(fields, org), nil
	case ty.IsObjectType():
		attrTypes := ty.AttributeTypes()
		fields := make(map[string]Value, len(attrTypes))
		for name := range attrTypes {
			field, err := FromCty(cv.GetAttr(name), org)
			if err != nil {
				return Value{}, err
			}
			fields[name] = field
		}
		return Snapshot(fields, org), nil
	default:
		return Value{}, diag.New(org, diag.TypeMismatchTitle,
			fmt.Sprintf("Unsupported value type %s.", ty.FriendlyName()))
	}
}

// ToCty exports the value for use in an hcl.EvalContext, so expressions
// evaluated later in the same toolchain can reference it.
func (v Value) ToCty() cty.Value {
	switch v.kind {
	case KindNull:
		return cty.NullVal(cty.DynamicPseudoType)
	case KindBool:
		return cty.BoolVal(v.b)
	case KindInt:
		return cty.NumberIntVal(v.i)
	case KindString:
		return cty.StringVal(v.s)
	case KindList:
		if len(v.list) == 0 {
			return cty.EmptyTupleVal
		}
		items := make([]cty.Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.ToCty()
		}
		return cty.TupleVal(items)
	case KindSnapshot:
		if len(v.snap) == 0 {
			return cty.EmptyObjectVal
		}
		fields := make(map[string]cty.Value, len(v.snap))
		for name, field := range v.snap {
			fields[name] = field.ToCty()
		}
		return cty.ObjectVal(fields)
	default:
		return cty.NilVal
	}
}
