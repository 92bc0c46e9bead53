package scope

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/forgegen/internal/origin"
	"github.com/vk/forgegen/internal/toolchain"
	"github.com/vk/forgegen/internal/value"
)

func testOrigin(file string) origin.Node {
	return origin.At(hcl.Range{Filename: file, Start: hcl.InitialPos, End: hcl.InitialPos})
}

func TestSetAndGetValue(t *testing.T) {
	sc := NewRoot(toolchain.New(""))

	assert.Nil(t, sc.GetValue("missing"))

	org1 := testOrigin("first.hcl")
	require.Nil(t, sc.SetValue("a", value.Int(1, org1), org1))
	got := sc.GetValue("a")
	require.NotNil(t, got)
	assert.True(t, got.Equal(value.Int(1, nil)))
	assert.Same(t, org1, got.Origin())

	// Last write wins and the origin moves with it.
	org2 := testOrigin("second.hcl")
	require.Nil(t, sc.SetValue("a", value.Int(2, org1), org2))
	got = sc.GetValue("a")
	require.NotNil(t, got)
	assert.True(t, got.Equal(value.Int(2, nil)))
	assert.Same(t, org2, got.Origin())
}

func TestMarkUsed(t *testing.T) {
	sc := NewRoot(toolchain.New(""))

	// Marking before the write is allowed.
	sc.MarkUsed("early")
	assert.True(t, sc.IsUsed("early"))

	org := testOrigin("a.hcl")
	require.Nil(t, sc.SetValue("early", value.Bool(true, org), org))
	assert.True(t, sc.IsUsed("early"))

	// Idempotent.
	sc.MarkUsed("early")
	assert.True(t, sc.IsUsed("early"))

	// Reading never marks.
	require.Nil(t, sc.SetValue("quiet", value.Bool(true, org), org))
	_ = sc.GetValue("quiet")
	assert.False(t, sc.IsUsed("quiet"))
}

func TestGetCurrentScopeValues(t *testing.T) {
	settings := toolchain.New("")
	parent := NewRoot(settings)
	child := NewChild(parent)

	org := testOrigin("a.hcl")
	require.Nil(t, parent.SetValue("outer", value.String("p", org), org))
	require.Nil(t, child.SetValue("inner", value.String("c", org), org))
	child.MarkUsed("inner")

	out := KeyValueMap{}
	child.GetCurrentScopeValues(out)

	// Only the local mapping: no parent entries, no used-marks.
	require.Len(t, out, 1)
	assert.True(t, out["inner"].Equal(value.String("c", nil)))
}

func TestLookupWalksParents(t *testing.T) {
	settings := toolchain.New("")
	parent := NewRoot(settings)
	child := NewChild(parent)

	org := testOrigin("a.hcl")
	require.Nil(t, parent.SetValue("x", value.Int(1, org), org))
	require.Nil(t, child.SetValue("y", value.Int(2, org), org))

	assert.Nil(t, child.GetValue("x"))
	got := child.Lookup("x")
	require.NotNil(t, got)
	assert.True(t, got.Equal(value.Int(1, nil)))

	// Shadowing: the inner binding wins.
	require.Nil(t, child.SetValue("x", value.Int(3, org), org))
	got = child.Lookup("x")
	require.NotNil(t, got)
	assert.True(t, got.Equal(value.Int(3, nil)))
}

func TestFreeze(t *testing.T) {
	sc := NewRoot(toolchain.New(""))
	org := testOrigin("a.hcl")
	require.Nil(t, sc.SetValue("a", value.Int(1, org), org))

	sc.Freeze()

	derr := sc.SetValue("a", value.Int(2, org), org)
	require.NotNil(t, derr)
	assert.Same(t, org, derr.Origin())

	// Existing values stay readable.
	got := sc.GetValue("a")
	require.NotNil(t, got)
	assert.True(t, got.Equal(value.Int(1, nil)))
}

func TestSettingsBinding(t *testing.T) {
	settings := toolchain.New("arm-cross")
	parent := NewRoot(settings)
	child := NewChild(parent)

	assert.Same(t, settings, parent.Settings())
	assert.Same(t, settings, child.Settings())
	assert.Same(t, parent, child.Parent())
	assert.Nil(t, parent.Parent())
}
