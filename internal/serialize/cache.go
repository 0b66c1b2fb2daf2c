package serialize

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/suadelabs/rattr/internal/results"
)

// ImportInfo records one import's origin file and its content hash,
// mirroring CacheableImportInfo in
// original_source/rattr/models/results/cacheable.go.
type ImportInfo struct {
	Filepath string `json:"filepath"`
	Filehash string `json:"filehash"`
}

// Record is the full on-disk cache entry for one analysed target file,
// mirroring CacheableResults. A cache hit requires every field except
// Results to match the current run's computed values.
type Record struct {
	Version string `json:"version"`

	ArgumentsHash string `json:"arguments_hash"`
	PluginsHash   string `json:"plugins_hash"`

	Filepath string `json:"filepath"`
	Filehash string `json:"filehash"`

	Imports []ImportInfo    `json:"imports"`
	Results results.FileResults `json:"results"`
}

// HashFile returns the hex MD5 digest of path's contents, or the empty
// hash if the file cannot be read (mirroring make_md5_hash_of_file's
// "missing file hashes to the digest of nothing" behaviour).
func HashFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return emptyMD5
	}
	defer f.Close()

	h := md5.New() //nolint:gosec
	if _, err := io.Copy(h, f); err != nil {
		return emptyMD5
	}
	return hex.EncodeToString(h.Sum(nil))
}

var emptyMD5 = hex.EncodeToString(md5.New().Sum(nil)) //nolint:gosec

// HashString returns the hex MD5 digest of s, used for the arguments
// and plugins hashes.
func HashString(s string) string {
	h := md5.New() //nolint:gosec
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// ArgumentsFingerprint is the subset of CLI arguments whose change
// invalidates every cache entry, mirroring HashableArguments.
type ArgumentsFingerprint struct {
	LiteralValuePrefix string
	FollowImportsLevel int
	ExcludedImports    []string
	ExcludedNames      []string
}

// Hash renders f deterministically and MD5s the result.
func (f ArgumentsFingerprint) Hash() string {
	imports := append([]string(nil), f.ExcludedImports...)
	names := append([]string(nil), f.ExcludedNames...)
	sort.Strings(imports)
	sort.Strings(names)
	return HashString(fmt.Sprintf("%s|%d|%v|%v", f.LiteralValuePrefix, f.FollowImportsLevel, imports, names))
}

// PluginFingerprint is one registered plugin's identity, used to build
// the plugins hash (mirroring
// make_md5_hash_of_plugins_by_name_and_source_file).
type PluginFingerprint struct {
	Name       string
	SourceFile string
}

// PluginsHash hashes plugins sorted by name, matching the original's
// deterministic ordering.
func PluginsHash(plugins []PluginFingerprint) string {
	sorted := append([]PluginFingerprint(nil), plugins...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h := md5.New() //nolint:gosec
	for _, p := range sorted {
		h.Write([]byte(p.Name))
		h.Write([]byte(p.SourceFile))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NewImportInfo hashes filepath and normalizes it to a POSIX-style
// string, per spec.md §6's "filenames on disk are stored as
// POSIX-style strings regardless of host OS" requirement.
func NewImportInfo(path string) ImportInfo {
	return ImportInfo{Filepath: ToPosixPath(path), Filehash: HashFile(path)}
}

// ToPosixPath converts an OS-native path to forward-slash form.
func ToPosixPath(path string) string {
	return filepath.ToSlash(path)
}
