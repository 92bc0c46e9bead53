package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestFromCty(t *testing.T) {
	org := testOrigin("a.hcl")

	t.Run("primitives", func(t *testing.T) {
		v, derr := FromCty(cty.True, org)
		require.Nil(t, derr)
		assert.True(t, v.Equal(Bool(true, nil)))
		assert.Same(t, org, v.Origin())

		v, derr = FromCty(cty.NumberIntVal(42), org)
		require.Nil(t, derr)
		assert.True(t, v.Equal(Int(42, nil)))

		v, derr = FromCty(cty.StringVal("hi"), org)
		require.Nil(t, derr)
		assert.True(t, v.Equal(String("hi", nil)))
	})

	t.Run("null", func(t *testing.T) {
		v, derr := FromCty(cty.NullVal(cty.String), org)
		require.Nil(t, derr)
		assert.Equal(t, KindNull, v.Kind())
	})

	t.Run("collections", func(t *testing.T) {
		v, derr := FromCty(cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("x")}), org)
		require.Nil(t, derr)
		require.Equal(t, KindList, v.Kind())
		require.Len(t, v.ListValue(), 2)
		assert.True(t, v.ListValue()[0].Equal(Int(1, nil)))
		assert.True(t, v.ListValue()[1].Equal(String("x", nil)))

		v, derr = FromCty(cty.ObjectVal(map[string]cty.Value{"k": cty.True}), org)
		require.Nil(t, derr)
		require.Equal(t, KindSnapshot, v.Kind())
		assert.True(t, v.SnapshotValue()["k"].Equal(Bool(true, nil)))
	})

	t.Run("fractional number is rejected", func(t *testing.T) {
		_, derr := FromCty(cty.NumberFloatVal(1.5), org)
		require.NotNil(t, derr)
		assert.Same(t, org, derr.Origin())
	})
}

func TestToCtyRoundTrip(t *testing.T) {
	org := testOrigin("a.hcl")

	cases := []Value{
		Bool(false, org),
		Int(-3, org),
		String("s", org),
		List([]Value{Int(1, org), Int(2, org)}, org),
		Snapshot(map[string]Value{"k": String("v", org)}, org),
	}
	for _, orig := range cases {
		back, derr := FromCty(orig.ToCty(), org)
		require.Nil(t, derr, orig.Describe())
		assert.True(t, orig.Equal(back), orig.Describe())
	}

	assert.True(t, Null(org).ToCty().IsNull())
}
