package diag

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/forgegen/internal/origin"
)

func spanAt(file string, line int) origin.Node {
	return origin.At(hcl.Range{
		Filename: file,
		Start:    hcl.Pos{Line: line, Column: 3, Byte: 0},
		End:      hcl.Pos{Line: line, Column: 9, Byte: 6},
	})
}

func TestErrorBasics(t *testing.T) {
	org := spanAt("build.hcl", 12)
	e := New(org, "Something broke.", "A longer explanation.")

	assert.Same(t, org, e.Origin())
	assert.Equal(t, "Something broke.", e.Title())
	assert.Equal(t, "A longer explanation.", e.Message())
	assert.Empty(t, e.SubErrors())
	assert.Equal(t, "build.hcl:12:3: Something broke.", e.Error())
}

func TestErrorWithoutOrigin(t *testing.T) {
	e := New(nil, "Host detection failed.", "")
	assert.Nil(t, e.Origin())
	assert.Equal(t, "Host detection failed.", e.Error())
}

func TestAppendAndRender(t *testing.T) {
	e := New(spanAt("new.hcl", 4), DuplicateDeclarationTitle, "You already declared this.")
	e.Append(New(spanAt("old.hcl", 9), "Previous declaration.", ""))

	require.Len(t, e.SubErrors(), 1)

	rendered := e.Render()
	assert.Contains(t, rendered, "new.hcl:4:3")
	assert.Contains(t, rendered, DuplicateDeclarationTitle)
	assert.Contains(t, rendered, "You already declared this.")
	assert.Contains(t, rendered, "old.hcl:9:3")
	assert.Contains(t, rendered, "Previous declaration.")
}

func TestFromDiagnostics(t *testing.T) {
	subject := hcl.Range{Filename: "x.hcl", Start: hcl.Pos{Line: 2, Column: 1}, End: hcl.Pos{Line: 2, Column: 5}}
	diags := hcl.Diagnostics{
		&hcl.Diagnostic{Severity: hcl.DiagWarning, Summary: "meh"},
		&hcl.Diagnostic{Severity: hcl.DiagError, Summary: "bad expression", Detail: "details", Subject: &subject},
		&hcl.Diagnostic{Severity: hcl.DiagError, Summary: "also bad"},
	}

	e := FromDiagnostics(diags)
	require.NotNil(t, e)
	assert.Equal(t, "bad expression", e.Title())
	assert.Equal(t, "details", e.Message())
	require.NotNil(t, e.Origin())
	assert.Equal(t, "x.hcl", e.Origin().Range().Filename)
	require.Len(t, e.SubErrors(), 1)
	assert.Equal(t, "also bad", e.SubErrors()[0].Title())

	assert.Nil(t, FromDiagnostics(hcl.Diagnostics{
		&hcl.Diagnostic{Severity: hcl.DiagWarning, Summary: "only a warning"},
	}))
	assert.Nil(t, FromDiagnostics(nil))
}
