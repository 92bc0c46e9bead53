package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBuildFiles(t *testing.T) {
	dir := t.TempDir()
	mk := func(rel string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("\n"), 0o644))
	}

	mk("forge.hcl")
	mk("zz.hcl")
	mk("aa.hcl")
	mk("sub/lib.hcl")
	mk("sub/readme.md")
	mk(".git/ignored.hcl")

	files, err := FindBuildFiles(dir, "forge.hcl")
	require.NoError(t, err)

	require.Len(t, files, 3)
	// Sorted, root config excluded, hidden directories skipped.
	assert.Equal(t, filepath.Join(dir, "aa.hcl"), files[0])
	assert.Equal(t, filepath.Join(dir, "sub", "lib.hcl"), files[1])
	assert.Equal(t, filepath.Join(dir, "zz.hcl"), files[2])
}

func TestFindBuildFilesMissingRoot(t *testing.T) {
	_, err := FindBuildFiles(filepath.Join(t.TempDir(), "nope"), "forge.hcl")
	assert.Error(t, err)
}
