// Package config holds the process-wide, write-once configuration
// singleton: parsed CLI arguments, the derived flag bitmasks
// (FollowImports/ShowWarnings/FormatPath), and mutable run State. Grounded
// on original_source/rattr/config/_types.py; the singleton idiom follows
// the teacher's own process-wide state in
// _examples/shivasurya-code-pathfinder/sourcecode-parser/analytics/usage.go
// (package-level state set once at startup, read everywhere), generalized
// to a struct behind sync.Once the way Go idiomatically expresses a
// "construct once" singleton instead of a metaclass.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// FollowImports is a bitmask of which classes of import the analyser will
// recursively follow. Mirrors FollowImports(IntFlag) in _types.py.
type FollowImports uint8

const (
	FollowLocal FollowImports = 1 << iota
	FollowPip
	FollowStdlib
)

// FollowImportsForLevel maps the `--follow-imports {0..3}` CLI level to the
// corresponding bitmask, per spec.md §6.
func FollowImportsForLevel(level int) (FollowImports, error) {
	switch level {
	case 0:
		return 0, nil
	case 1:
		return FollowLocal, nil
	case 2:
		return FollowLocal | FollowPip, nil
	case 3:
		return FollowLocal | FollowPip | FollowStdlib, nil
	default:
		return 0, fmt.Errorf("follow-imports level must be 0-3, got %d", level)
	}
}

// ShowWarnings is a bitmask of which diagnostics' origin/priority combos
// are surfaced. Mirrors ShowWarnings(IntFlag) in _types.py.
type ShowWarnings uint8

const (
	ShowTarget ShowWarnings = 1 << iota
	ShowTargetLowPriority
	ShowInheritedHighPriority
	ShowInheritedLowPriority
)

// ShowWarningsForLevel maps the `--warning {none,local,default,all}` CLI
// level to the corresponding bitmask.
func ShowWarningsForLevel(level string) (ShowWarnings, error) {
	switch level {
	case "none":
		return 0, nil
	case "local":
		return ShowTarget, nil
	case "default":
		return ShowTarget | ShowInheritedHighPriority, nil
	case "all":
		return ShowTarget | ShowTargetLowPriority | ShowInheritedHighPriority | ShowInheritedLowPriority, nil
	default:
		return 0, fmt.Errorf("warning level must be one of none|local|default|all, got %q", level)
	}
}

// FormatPath is a bitmask of path-formatting options.
type FormatPath uint8

const (
	CollapseHome FormatPath = 1 << iota
	TruncateDeepPaths
)

// Output is the `--stdout` variant; `sarif` is additive beyond spec.md §6
// (see SPEC_FULL.md §13).
type Output string

const (
	OutputStats     Output = "stats"
	OutputIR        Output = "ir"
	OutputResults   Output = "results"
	OutputCacheable Output = "cacheable"
	OutputSilent    Output = "silent"
	OutputSARIF     Output = "sarif"
)

// Arguments is the fully resolved, immutable-after-validation set of CLI
// (plus config-file, plus default) options. Mirrors Arguments
// (argparse.Namespace) in _types.py, minus the argparse machinery itself
// (that lives in cmd/rattr, via cobra).
type Arguments struct {
	Target string

	FollowImportsLevel int
	ExcludedImports    []string
	ExcludedNames      []string

	WarningLevel string

	IsStrict  bool
	Threshold int

	Stdout Output

	ForceRefreshCache bool
	CacheFile         string

	CollapseHome      bool
	TruncateDeepPaths bool

	ConfigFileOverride string
}

// FollowImports derives the bitmask from FollowImportsLevel.
func (a Arguments) FollowImports() FollowImports {
	f, err := FollowImportsForLevel(a.FollowImportsLevel)
	if err != nil {
		// Validated at construction time; reaching this means a caller
		// built Arguments by hand instead of via Validate.
		return FollowLocal
	}
	return f
}

func (a Arguments) FollowLocalImports() bool  { return a.FollowImports()&FollowLocal != 0 }
func (a Arguments) FollowPipImports() bool    { return a.FollowImports()&FollowPip != 0 }
func (a Arguments) FollowStdlibImports() bool { return a.FollowImports()&FollowStdlib != 0 }

// ShowWarnings derives the bitmask from WarningLevel.
func (a Arguments) ShowWarnings() ShowWarnings {
	w, err := ShowWarningsForLevel(a.WarningLevel)
	if err != nil {
		return ShowTarget | ShowInheritedHighPriority
	}
	return w
}

// FormatPath derives the bitmask from CollapseHome/TruncateDeepPaths.
func (a Arguments) FormatPath() FormatPath {
	var f FormatPath
	if a.CollapseHome {
		f |= CollapseHome
	}
	if a.TruncateDeepPaths {
		f |= TruncateDeepPaths
	}
	return f
}

var reCache sync.Map // pattern string -> *regexp.Regexp, mirrors _cached_re_compile's lru_cache

func cachedCompile(pattern string) (*regexp.Regexp, error) {
	if v, ok := reCache.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	reCache.Store(pattern, re)
	return re, nil
}

// ReExcludedNames compiles ExcludedNames into regexps, caching by pattern.
func (a Arguments) ReExcludedNames() ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(a.ExcludedNames))
	for _, p := range a.ExcludedNames {
		re, err := cachedCompile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid --exclude-name pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Validate checks cross-field invariants, mirroring validate_arguments in
// the original's config/_util.py at the level relevant to this
// reimplementation (follow-imports range, warning level, threshold sign).
func (a Arguments) Validate() error {
	if _, err := FollowImportsForLevel(a.FollowImportsLevel); err != nil {
		return err
	}
	if _, err := ShowWarningsForLevel(a.WarningLevel); err != nil {
		return err
	}
	if a.Threshold < 0 {
		return fmt.Errorf("--permissive threshold must be non-negative, got %d", a.Threshold)
	}
	if a.Target == "" {
		return fmt.Errorf("target path is required")
	}
	return nil
}

// State tracks which file is currently being analysed, mirroring State
// in _types.py; badness counters live in diagnostic.Sink. It is the one piece of
// Config that mutates during a run.
type State struct {
	mu sync.Mutex

	CurrentFile string
	inAnyFile   bool
}

// EnterFile records the file currently being analysed, for diagnostic
// attribution purposes (spec.md §5's "current file" pointer).
func (s *State) EnterFile(file string) func() {
	s.mu.Lock()
	prev, prevIn := s.CurrentFile, s.inAnyFile
	s.CurrentFile = file
	s.inAnyFile = true
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.CurrentFile = prev
		s.inAnyFile = prevIn
		s.mu.Unlock()
	}
}

// IsInAnyFile reports whether State.EnterFile has an un-popped entry.
func (s *State) IsInAnyFile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inAnyFile
}

// ModuleBlacklistPatterns are the perennial blacklist patterns: rattr
// itself, so the tool never recursively analyses its own vendored
// package. Mirrors Config.MODULE_BLACKLIST_PATTERNS in _types.py.
var ModuleBlacklistPatterns = []string{
	`^rattr$`,
	`^rattr\..*$`,
	`^packages?\.rattr$`,
	`^packages?\.rattr\..*$`,
}

// Config is the process-wide, write-once-at-startup singleton.
type Config struct {
	Arguments Arguments
	State     *State

	PluginsBlacklistPatterns []string

	projectRoot string
}

var (
	instance     *Config
	instanceOnce sync.Once
)

// Init constructs the singleton exactly once; subsequent calls are no-ops
// (mirroring ConfigMetaclass's "construct once, return cached instance"
// behavior). Returns the singleton and any validation error from the
// first call.
func Init(args Arguments) (*Config, error) {
	var err error
	instanceOnce.Do(func() {
		if verr := args.Validate(); verr != nil {
			err = verr
			return
		}
		root, rerr := findProjectRoot(args.Target)
		if rerr != nil {
			root = "."
		}
		instance = &Config{
			Arguments:   args,
			State:       &State{},
			projectRoot: root,
		}
	})
	if instance == nil && err == nil {
		err = fmt.Errorf("config: Init called with invalid arguments after singleton already failed")
	}
	return instance, err
}

// Get returns the already-initialized singleton, or nil if Init has not
// been called.
func Get() *Config { return instance }

// ResetForTesting clears the singleton. Exists purely so tests can
// exercise Init repeatedly within one process; never called from
// production code paths.
func ResetForTesting() {
	instance = nil
	instanceOnce = sync.Once{}
}

func findProjectRoot(target string) (string, error) {
	dir := target
	info, err := os.Stat(target)
	if err == nil && !info.IsDir() {
		dir = filepath.Dir(target)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, ".rattr.yaml")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return ".", err
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return filepath.Dir(abs), nil
	}
	return abs, nil
}

// ProjectRoot returns the discovered project root, used for path
// relativization in GetFormattedPath.
func (c *Config) ProjectRoot() string { return c.projectRoot }

// IsInTargetFile reports whether the file currently being analysed is the
// top-level target (as opposed to a followed import).
func (c *Config) IsInTargetFile() bool {
	return c.State.CurrentFile == c.Arguments.Target
}

// BlacklistPatterns is the union of user-excluded imports, the perennial
// module blacklist, and any plugin-registered blacklist patterns.
func (c *Config) BlacklistPatterns() []string {
	out := make([]string, 0, len(c.Arguments.ExcludedImports)+len(ModuleBlacklistPatterns)+len(c.PluginsBlacklistPatterns))
	out = append(out, c.Arguments.ExcludedImports...)
	out = append(out, ModuleBlacklistPatterns...)
	out = append(out, c.PluginsBlacklistPatterns...)
	return out
}

// GetFormattedPath renders path per the FormatPath settings: relative to
// the project root, then home-collapsed and/or deep-path-truncated.
// Mirrors Config.get_formatted_path in _types.py.
func (c *Config) GetFormattedPath(path string) string {
	if path == "" {
		return ""
	}
	abs := path
	if rel, err := filepath.Rel(c.projectRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
		abs = rel
	}

	if c.Arguments.CollapseHome {
		if home, err := os.UserHomeDir(); err == nil {
			if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
				abs = filepath.Join("~", rel)
			}
		}
	}

	if c.Arguments.TruncateDeepPaths {
		parts := strings.Split(filepath.ToSlash(abs), "/")
		if len(parts) > 5 {
			tail := parts[len(parts)-3:]
			abs = strings.Join(append([]string{parts[0], "..."}, tail...), "/")
		}
	}

	return filepath.ToSlash(abs)
}
