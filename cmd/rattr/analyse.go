// analyse.go implements the `analyse` subcommand, grounded on
// shivasurya-code-pathfinder/sast-engine/cmd/scan.go: flags build a
// config.Arguments, a single run drives the analyser packages end to
// end, and the result is dispatched to an internal/output formatter
// before the process exits with internal/output.DetermineExitCode's
// verdict.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/suadelabs/rattr/internal/analyser"
	"github.com/suadelabs/rattr/internal/analytics"
	"github.com/suadelabs/rattr/internal/cache"
	"github.com/suadelabs/rattr/internal/callgraph"
	"github.com/suadelabs/rattr/internal/config"
	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/modlocate"
	"github.com/suadelabs/rattr/internal/output"
	"github.com/suadelabs/rattr/internal/plugins"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/pyparser"
	"github.com/suadelabs/rattr/internal/rcontext"
	"github.com/suadelabs/rattr/internal/results"
	"github.com/suadelabs/rattr/internal/serialize"
	"github.com/suadelabs/rattr/internal/symbol"
	"github.com/suadelabs/rattr/internal/walker"
)

var analyseCmd = &cobra.Command{
	Use:   "analyse <path>",
	Short: "Derive per-function effect summaries for a file or a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyse,
}

func init() {
	flags := analyseCmd.Flags()
	flags.Int("follow-imports", 1, "which imports to follow: 0=none 1=local 2=+pip 3=+stdlib")
	flags.StringArray("exclude-import", nil, "regex of import module names to never follow (repeatable)")
	flags.StringArray("exclude-name", nil, "regex of callable names (repeatable); only folded into the result-cache key, no names are filtered")
	flags.String("warning", "default", "which diagnostics to show: none|local|default|all")
	flags.Bool("strict", false, "any non-zero badness is a failure")
	flags.Int("permissive", 0, "badness threshold below --strict")
	flags.String("stdout", "results", "stdout format: stats|ir|results|cacheable|silent|sarif")
	flags.String("cache", "", "path to a sqlite result cache")
	flags.Bool("force-refresh-cache", false, "ignore cache hits, recompute and overwrite")
	flags.Bool("collapse-home", false, "collapse $HOME to ~ in reported paths")
	flags.Bool("truncate-deep-paths", false, "truncate long reported paths to their last components")
	flags.String("config", "", "path to a .rattr.yaml config file, overriding project discovery")

	rootCmd.AddCommand(analyseCmd)
}

func runAnalyse(cmd *cobra.Command, cmdArgs []string) error {
	start := time.Now()
	logger := output.NewLogger(verbosityFromFlags(cmd))

	args, err := buildArguments(cmd, cmdArgs[0])
	if err != nil {
		analytics.ReportEvent(analytics.EventAnalyseError)
		return err
	}

	cfg, err := config.Init(args)
	if err != nil {
		analytics.ReportEvent(analytics.EventAnalyseError)
		return err
	}

	sink := diagnostic.NewSink()
	registry := plugins.NewRegistry()

	info, err := os.Stat(args.Target)
	if err != nil {
		analytics.ReportEvent(analytics.EventAnalyseError)
		return fmt.Errorf("analyse: %w", err)
	}

	var store *cache.Store
	if args.CacheFile != "" {
		store, err = cache.Open(args.CacheFile)
		if err != nil {
			analytics.ReportEvent(analytics.EventAnalyseError)
			return err
		}
		defer store.Close()
	}

	fingerprint := serialize.ArgumentsFingerprint{
		LiteralValuePrefix: "rattr",
		FollowImportsLevel: args.FollowImportsLevel,
		ExcludedImports:    args.ExcludedImports,
		ExcludedNames:      args.ExcludedNames,
	}.Hash()
	pluginsHash := serialize.PluginsHash(builtinPluginFingerprints())

	var (
		targets      []string
		fileResults  = map[string]results.FileResults{}
		simplifiedIr = map[string]*ir.FileIr{}
		filesSeen    int
	)

	if info.IsDir() {
		targets, err = walker.FindPythonFiles(args.Target)
		if err != nil {
			analytics.ReportEvent(analytics.EventAnalyseError)
			return fmt.Errorf("analyse: %w", err)
		}
		logger.StartProgress("analysing project", len(targets))
	} else {
		targets = []string{args.Target}
	}

	for _, file := range targets {
		if info.IsDir() {
			logger.UpdateProgress(1)
		}

		fr, fi, err := analyseOneFile(file, args.Target == file, cfg, sink, registry, store, fingerprint, pluginsHash)
		if err != nil {
			sink.Error(file, "", err.Error(), 0, 0)
			continue
		}
		fileResults[file] = fr
		simplifiedIr[file] = fi
		filesSeen++
	}

	if info.IsDir() {
		logger.FinishProgress()
	}
	logger.PrintTimingSummary()

	if err := dispatchOutput(cmd, args, sink, fileResults, simplifiedIr, filesSeen, time.Since(start)); err != nil {
		analytics.ReportEvent(analytics.EventAnalyseError)
		return err
	}

	exitCode := output.DetermineExitCode(sink, args.Threshold, args.IsStrict)

	if info.IsDir() {
		analytics.ReportEvent(analytics.EventAnalyseProject)
	} else {
		analytics.ReportEvent(analytics.EventAnalyseFile)
	}

	if exitCode != output.ExitCodeSuccess {
		os.Exit(int(exitCode))
	}
	return nil
}

// buildArguments assembles config.Arguments from flags, a positional
// target, and (if present) a `.rattr.yaml` project config file, the
// latter supplying defaults for anything the user left unset.
func buildArguments(cmd *cobra.Command, target string) (config.Arguments, error) {
	flags := cmd.Flags()

	followImports, _ := flags.GetInt("follow-imports")
	excludeImport, _ := flags.GetStringArray("exclude-import")
	excludeName, _ := flags.GetStringArray("exclude-name")
	warning, _ := flags.GetString("warning")
	strict, _ := flags.GetBool("strict")
	permissive, _ := flags.GetInt("permissive")
	stdout, _ := flags.GetString("stdout")
	cacheFile, _ := flags.GetString("cache")
	forceRefresh, _ := flags.GetBool("force-refresh-cache")
	collapseHome, _ := flags.GetBool("collapse-home")
	truncateDeep, _ := flags.GetBool("truncate-deep-paths")
	configOverride, _ := flags.GetString("config")

	args := config.Arguments{
		Target:             target,
		FollowImportsLevel: followImports,
		ExcludedImports:    excludeImport,
		ExcludedNames:      excludeName,
		WarningLevel:       warning,
		IsStrict:           strict,
		Threshold:          permissive,
		Stdout:             config.Output(stdout),
		ForceRefreshCache:  forceRefresh,
		CacheFile:          cacheFile,
		CollapseHome:       collapseHome,
		TruncateDeepPaths:  truncateDeep,
		ConfigFileOverride: configOverride,
	}

	configPath := configOverride
	if configPath == "" {
		dir := target
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			dir = filepath.Dir(target)
		}
		if found, ok := config.FindProjectConfig(dir); ok {
			configPath = found
		}
	}
	if configPath != "" {
		fc, err := config.LoadFileConfig(configPath)
		if err != nil {
			return args, err
		}
		args = fc.ApplyDefaults(args)
	}

	if err := args.Validate(); err != nil {
		return args, err
	}
	return args, nil
}

func builtinPluginFingerprints() []serialize.PluginFingerprint {
	return []serialize.PluginFingerprint{
		{Name: "getattr", SourceFile: "builtins.go"},
		{Name: "setattr", SourceFile: "builtins.go"},
		{Name: "hasattr", SourceFile: "builtins.go"},
		{Name: "delattr", SourceFile: "builtins.go"},
		{Name: "sorted", SourceFile: "sorted.go"},
		{Name: "collections.defaultdict", SourceFile: "builtins.go"},
	}
}

// analyseOneFile parses and analyses a single target, consulting and
// populating the result cache if one is configured, and resolves every
// followed import into callgraph.ImportsIr before simplification.
func analyseOneFile(
	file string,
	isTarget bool,
	cfg *config.Config,
	sink *diagnostic.Sink,
	registry *plugins.Registry,
	store *cache.Store,
	argsFingerprint, pluginsHash string,
) (results.FileResults, *ir.FileIr, error) {
	defer sink.EnterFile(file, isTarget)()

	if store != nil && !cfg.Arguments.ForceRefreshCache {
		if cached, ok := store.Get(file); ok {
			current := &serialize.Record{
				Version:       cached.Version,
				ArgumentsHash: argsFingerprint,
				PluginsHash:   pluginsHash,
				Filepath:      serialize.ToPosixPath(file),
				Filehash:      serialize.HashFile(file),
				Imports:       refreshImportHashes(cached.Imports),
			}
			if cache.IsUpToDate(cached, current) {
				return cached.Results, nil, nil
			}
		}
	}

	fileIr, importsIr, imported, err := compileAndAnalyse(file, cfg, sink, registry, map[string]bool{})
	if err != nil {
		return nil, nil, err
	}

	simplified := callgraph.SimplifyFileIr(sink, fileIr, importsIr, cfg.ProjectRoot())
	fr := results.GenerateFromIr(sink, fileIr, importsIr, cfg.ProjectRoot())

	if store != nil {
		importInfos := make([]serialize.ImportInfo, 0, len(imported))
		for _, p := range imported {
			importInfos = append(importInfos, serialize.NewImportInfo(p))
		}
		record := &serialize.Record{
			Version:       Version,
			ArgumentsHash: argsFingerprint,
			PluginsHash:   pluginsHash,
			Filepath:      serialize.ToPosixPath(file),
			Filehash:      serialize.HashFile(file),
			Imports:       importInfos,
			Results:       fr,
		}
		if err := store.Put(file, record); err != nil {
			sink.Warning(file, "", fmt.Sprintf("cache: %v", err), 0, 0)
		}
	}

	return fr, simplified, nil
}

func refreshImportHashes(imports []serialize.ImportInfo) []serialize.ImportInfo {
	out := make([]serialize.ImportInfo, len(imports))
	for i, imp := range imports {
		out[i] = serialize.ImportInfo{Filepath: imp.Filepath, Filehash: serialize.HashFile(imp.Filepath)}
	}
	return out
}

// compileAndAnalyse parses file, analyses it via internal/analyser, and
// recursively resolves every import the analysed root context declares
// into callgraph.ImportsIr, keyed by dotted module name per
// modlocate.DeriveModuleNameFromPath, bounded by --follow-imports and
// the module blacklist. visited guards against import cycles.
func compileAndAnalyse(
	file string,
	cfg *config.Config,
	sink *diagnostic.Sink,
	registry *plugins.Registry,
	visited map[string]bool,
) (*ir.FileIr, callgraph.ImportsIr, []string, error) {
	module, err := parsePythonFile(file)
	if err != nil {
		return nil, nil, nil, err
	}

	compile := func(path string) (*rcontext.Context, error) {
		m, err := parsePythonFile(path)
		if err != nil {
			return nil, err
		}
		return rcontext.CompileRootContext(m, path, cfg.ProjectRoot(), sink), nil
	}

	fa := analyser.NewFileAnalyser(file, cfg.ProjectRoot(), sink, registry, compile)
	fileIr, rootCtx, err := fa.Analyse(module)
	if err != nil {
		return nil, nil, nil, err
	}

	importsIr := callgraph.ImportsIr{}
	var imported []string
	moduleName := modlocate.DeriveModuleNameFromPath(cfg.ProjectRoot(), file)
	visited[moduleName] = true

	blacklist := modlocate.CompilePatterns(cfg.BlacklistPatterns())

	for _, sym := range rootCtx.AllSymbols() {
		imp, ok := sym.(symbol.Import)
		if !ok || imp.ModuleName == "" {
			continue
		}
		targetModule := imp.ModuleName
		if visited[targetModule] || modlocate.MatchesAny(targetModule, blacklist) {
			continue
		}

		switch modlocate.ClassifyModule(cfg.ProjectRoot(), targetModule) {
		case modlocate.Local:
			if !cfg.Arguments.FollowLocalImports() {
				continue
			}
		case modlocate.Pip:
			if !cfg.Arguments.FollowPipImports() {
				continue
			}
		case modlocate.Stdlib:
			if !cfg.Arguments.FollowStdlibImports() {
				continue
			}
		default:
			continue
		}

		path := modlocate.LocateModule(cfg.ProjectRoot(), targetModule)
		if path == "" {
			continue
		}

		visited[targetModule] = true
		imported = append(imported, path)

		childIr, childImportsIr, childImported, err := compileAndAnalyse(path, cfg, sink, registry, visited)
		if err != nil {
			sink.Warning(file, targetModule, fmt.Sprintf("following import: %v", err), 0, 0)
			continue
		}
		importsIr[targetModule] = childIr
		for name, childFileIr := range childImportsIr {
			if _, exists := importsIr[name]; !exists {
				importsIr[name] = childFileIr
			}
		}
		imported = append(imported, childImported...)
	}

	return fileIr, importsIr, imported, nil
}

func parsePythonFile(path string) (*pyast.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return pyparser.New(path).ParseFile(src)
}

// dispatchOutput writes fileResults/simplifiedIr to stdout in the shape
// named by args.Stdout. In project (directory) mode, formats that take
// a single file's data (ir/results/cacheable) are written once per
// file, in discovery order, as a sequence of concatenated JSON values;
// "stats" instead aggregates across every analysed file into one
// Summary.
func dispatchOutput(
	cmd *cobra.Command,
	args config.Arguments,
	sink *diagnostic.Sink,
	fileResults map[string]results.FileResults,
	simplifiedIr map[string]*ir.FileIr,
	filesSeen int,
	duration time.Duration,
) error {
	w := cmd.OutOrStdout()

	switch args.Stdout {
	case config.OutputSilent:
		return output.WriteSilent(w)

	case config.OutputSARIF:
		return output.WriteSARIF(w, sink, Version)

	case config.OutputStats:
		merged := mergeResults(fileResults)
		summary := output.SummaryOf(args.Target, filesSeen, merged, sink, args.Threshold, args.IsStrict, duration)
		return output.WriteStats(w, summary)

	case config.OutputIR:
		for _, file := range sortedKeys(simplifiedIr) {
			if fi := simplifiedIr[file]; fi != nil {
				if err := output.WriteIR(w, fi); err != nil {
					return err
				}
			}
		}
		return nil

	case config.OutputCacheable:
		for _, file := range sortedKeys(fileResults) {
			record := &serialize.Record{
				Version:  Version,
				Filepath: serialize.ToPosixPath(file),
				Filehash: serialize.HashFile(file),
				Results:  fileResults[file],
			}
			if err := output.WriteCacheable(w, record); err != nil {
				return err
			}
		}
		return nil

	case config.OutputResults:
		fallthrough
	default:
		for _, file := range sortedKeys(fileResults) {
			if err := output.WriteResults(w, fileResults[file]); err != nil {
				return err
			}
		}
		return nil
	}
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// mergeResults flattens every file's FileResults into one map,
// prefixing keys with their source file in project mode so callables
// of the same name from different files don't collide.
func mergeResults(fileResults map[string]results.FileResults) results.FileResults {
	if len(fileResults) == 1 {
		for _, fr := range fileResults {
			return fr
		}
	}
	merged := results.FileResults{}
	for _, file := range sortedKeys(fileResults) {
		for name, fr := range fileResults[file] {
			merged[file+"::"+name] = fr
		}
	}
	return merged
}
