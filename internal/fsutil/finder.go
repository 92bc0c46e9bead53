// Package fsutil provides file system helpers for project discovery.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindBuildFiles recursively collects the .hcl build files under root,
// excluding the named root config file and anything inside hidden
// directories. The result is sorted so evaluation order is stable.
func FindBuildFiles(root string, rootConfigName string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != ".hcl" || d.Name() == rootConfigName {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
