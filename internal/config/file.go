package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk project config shape, loaded from
// `.rattr.yaml` (or a path given by `--config`). Every field is optional;
// CLI flags always override a value set here. This supplements spec.md
// §6's CLI-only surface with the project-config-file collaborator named
// as out of scope by spec.md §1 ("configuration file loading") — we give
// it a concrete, minimal shape rather than leaving it unimplemented,
// since SPEC_FULL.md's ambient stack calls for it explicitly.
type FileConfig struct {
	FollowImports   *int     `yaml:"follow_imports"`
	ExcludedImports []string `yaml:"exclude_import"`
	ExcludedNames   []string `yaml:"exclude_name"`
	Warnings        *string  `yaml:"warnings"`
	Strict          *bool    `yaml:"strict"`
	Threshold       *int     `yaml:"threshold"`
	Cache           *string  `yaml:"cache"`
	CollapseHome    *bool    `yaml:"collapse_home"`
}

// LoadFileConfig reads and parses a `.rattr.yaml` file. A missing file is
// not an error; it simply yields a zero-value FileConfig.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return fc, nil
}

// FindProjectConfig walks upward from dir looking for `.rattr.yaml`,
// mirroring find_pyproject_toml in original_source/rattr/config/_util.py
// but for our YAML-based equivalent (see SPEC_FULL.md §11.3).
func FindProjectConfig(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, ".rattr.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ApplyDefaults layers fc under args: any field left at its Go zero value
// in args is replaced by fc's value, so CLI flags explicitly set by the
// user always win.
func (fc FileConfig) ApplyDefaults(args Arguments) Arguments {
	if args.FollowImportsLevel == 0 && fc.FollowImports != nil {
		args.FollowImportsLevel = *fc.FollowImports
	}
	if len(args.ExcludedImports) == 0 {
		args.ExcludedImports = fc.ExcludedImports
	}
	if len(args.ExcludedNames) == 0 {
		args.ExcludedNames = fc.ExcludedNames
	}
	if args.WarningLevel == "" && fc.Warnings != nil {
		args.WarningLevel = *fc.Warnings
	}
	if !args.IsStrict && fc.Strict != nil {
		args.IsStrict = *fc.Strict
	}
	if args.Threshold == 0 && fc.Threshold != nil {
		args.Threshold = *fc.Threshold
	}
	if args.CacheFile == "" && fc.Cache != nil {
		args.CacheFile = *fc.Cache
	}
	if !args.CollapseHome && fc.CollapseHome != nil {
		args.CollapseHome = *fc.CollapseHome
	}
	return args
}
