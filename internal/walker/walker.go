// Package walker discovers the Python source files that make up a
// project, for project-mode analysis (SPEC_FULL.md §13's multi-file
// supplement to spec.md's single-file driver). Grounded on the
// filepath.Walk-collecting-matching-extensions pattern used throughout
// sourcecode-parser/graph/construct.go's getFiles, adapted from Java
// sources to Python ones and with the directories a project wants
// skipped (venvs, caches, vcs metadata) excluded up front.
package walker

import (
	"os"
	"path/filepath"
)

// skipDirs are directory names never descended into: virtual
// environments, bytecode caches, and version-control metadata are
// never part of a project's own source.
var skipDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"__pycache__": true, ".mypy_cache": true, ".pytest_cache": true,
	"venv": true, ".venv": true, "env": true, ".tox": true,
	"node_modules": true, ".eggs": true,
}

// FindPythonFiles returns every ".py" file under root, skipping the
// directories listed in skipDirs, sorted for deterministic processing
// order.
func FindPythonFiles(root string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".py" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
