// Package modlocate derives dotted module names from file paths,
// distinguishes standard-library modules from pip-installed ones, and
// matches candidate module names against blacklist patterns. Grounded on
// original_source/rattr/module_locate/ (referenced by _context.py and
// _root_context.py but not given its own component in spec.md — see
// SPEC_FULL.md §13).
package modlocate

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Kind classifies a located module.
type Kind int

const (
	Unknown Kind = iota
	Local
	Stdlib
	Pip
)

// cacheSize bounds the module-locate memoization cache (spec.md §4.1 calls
// for memoizing identifier normalization; the same pressure applies here
// for long project-mode runs resolving the same handful of modules
// thousands of times). Wires github.com/hashicorp/golang-lru/v2 per
// SPEC_FULL.md §12.
const cacheSize = 4096

var (
	moduleCache     *lru.Cache[string, string]
	moduleCacheOnce sync.Once
)

func cache() *lru.Cache[string, string] {
	moduleCacheOnce.Do(func() {
		c, err := lru.New[string, string](cacheSize)
		if err != nil {
			panic(err) // only fails for non-positive size, which cacheSize never is
		}
		moduleCache = c
	})
	return moduleCache
}

// DeriveModuleNameFromPath converts a file path (e.g.
// "/proj/pkg/sub/mod.py") into its dotted module name relative to
// projectRoot (e.g. "pkg.sub.mod"), collapsing "__init__.py" to its
// containing package name.
func DeriveModuleNameFromPath(projectRoot, path string) string {
	key := projectRoot + "|" + path
	if v, ok := cache().Get(key); ok {
		return v
	}

	rel, err := filepath.Rel(projectRoot, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, ".py")
	rel = strings.TrimSuffix(rel, "/__init__")
	name := strings.ReplaceAll(rel, "/", ".")
	name = strings.TrimPrefix(name, ".")

	cache().Add(key, name)
	return name
}

// DeriveAbsoluteModuleName resolves a relative `from . import x` /
// `from ..pkg import x` style import into an absolute dotted module
// name, given the importing file's own module name (`base`) and the
// import's `level` (number of leading dots). Mirrors
// derive_absolute_module_name in original_source/rattr's
// _root_context.py.
func DeriveAbsoluteModuleName(base, module string, level int, isInitFile bool) string {
	if level == 0 {
		return module
	}
	parts := strings.Split(base, ".")

	// Being inside __init__.py means base already denotes the package
	// itself, so one level of anchoring is implied.
	climb := level
	if isInitFile {
		climb--
	}
	if climb < 0 {
		climb = 0
	}

	if climb >= len(parts) {
		parts = nil
	} else if climb > 0 {
		parts = parts[:len(parts)-climb]
	}

	if module == "" {
		return strings.Join(parts, ".")
	}
	if len(parts) == 0 {
		return module
	}
	return strings.Join(parts, ".") + "." + module
}

// stdlibModules is a representative set of standard-library top-level
// module names, sufficient to distinguish "follow stdlib imports" from
// "follow pip imports" per spec.md §6's three independent toggles. Not
// exhaustive: unknown modules are classified Pip unless found on disk
// under the project root as Local first.
var stdlibModules = map[string]bool{
	"abc": true, "argparse": true, "array": true, "ast": true, "asyncio": true,
	"base64": true, "bisect": true, "builtins": true, "collections": true,
	"contextlib": true, "copy": true, "csv": true, "dataclasses": true,
	"datetime": true, "decimal": true, "enum": true, "functools": true,
	"glob": true, "hashlib": true, "heapq": true, "html": true, "http": true,
	"importlib": true, "inspect": true, "io": true, "itertools": true,
	"json": true, "logging": true, "math": true, "multiprocessing": true,
	"operator": true, "os": true, "pathlib": true, "pickle": true,
	"platform": true, "pprint": true, "queue": true, "random": true, "re": true,
	"shutil": true, "signal": true, "socket": true, "sqlite3": true,
	"statistics": true, "string": true, "struct": true, "subprocess": true,
	"sys": true, "tempfile": true, "textwrap": true, "threading": true,
	"time": true, "traceback": true, "types": true, "typing": true,
	"unittest": true, "urllib": true, "uuid": true, "warnings": true,
	"weakref": true, "xml": true, "zipfile": true,
}

// ClassifyModule reports whether name is a local (found under
// projectRoot), stdlib, or pip (neither) module.
func ClassifyModule(projectRoot, name string) Kind {
	top := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		top = name[:i]
	}
	if stdlibModules[top] {
		return Stdlib
	}
	if LocateModule(projectRoot, name) != "" {
		return Local
	}
	return Pip
}

// LocateModule attempts to resolve name to a file path under
// projectRoot, trying both "<name-as-path>.py" and
// "<name-as-path>/__init__.py". Returns "" if not found locally.
func LocateModule(projectRoot, name string) string {
	rel := strings.ReplaceAll(name, ".", string(filepath.Separator))
	candidates := []string{
		filepath.Join(projectRoot, rel+".py"),
		filepath.Join(projectRoot, rel, "__init__.py"),
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c
		}
	}
	return ""
}

// MatchesAny reports whether name matches any of the given regex
// patterns (pre-compiled lazily and cached by caller).
func MatchesAny(name string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// CompilePatterns compiles a slice of regex pattern strings, silently
// skipping (not erroring on) invalid ones.
func CompilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			out = append(out, re)
		}
	}
	return out
}
