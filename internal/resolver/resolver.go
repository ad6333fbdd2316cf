// Package resolver implements the module resolver external interface
// spec.md §6 describes as a consumed collaborator: given a current
// module path and a reference string, it returns an absolute path and
// source text for the referenced module. internal/checker is the only
// caller.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps a module reference, relative to the module that names
// it, to an absolute path and its source text.
type Resolver interface {
	Resolve(fromPath, ref string) (absPath string, source string, err error)
}

// FSResolver resolves module references against the filesystem,
// mirroring the teacher's internal/interp unit loader
// (path caching, absolute/relative resolution).
type FSResolver struct {
	searchPaths []string
	cache       map[string]string // absPath -> source
}

// NewFSResolver creates a resolver that additionally searches
// searchPaths (in order) for bare package-identifier references that
// are neither absolute nor begin with "./" or "../".
func NewFSResolver(searchPaths ...string) *FSResolver {
	return &FSResolver{searchPaths: searchPaths, cache: make(map[string]string)}
}

// Resolve implements Resolver.
func (r *FSResolver) Resolve(fromPath, ref string) (string, string, error) {
	candidates := r.candidates(fromPath, ref)
	var lastErr error
	for _, cand := range candidates {
		abs, err := filepath.Abs(cand)
		if err != nil {
			lastErr = err
			continue
		}
		if src, ok := r.cache[abs]; ok {
			return abs, src, nil
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			lastErr = err
			continue
		}
		src := string(data)
		r.cache[abs] = src
		return abs, src, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("module %q not found", ref)
	}
	return "", "", fmt.Errorf("module %q not found (from %q): %w", ref, fromPath, lastErr)
}

func (r *FSResolver) candidates(fromPath, ref string) []string {
	withExt := ref
	if !strings.HasSuffix(withExt, ".ren") {
		withExt += ".ren"
	}

	if filepath.IsAbs(ref) {
		return []string{withExt}
	}
	if strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") {
		dir := "."
		if fromPath != "" {
			dir = filepath.Dir(fromPath)
		}
		return []string{filepath.Join(dir, withExt)}
	}

	out := make([]string, 0, len(r.searchPaths)+1)
	dir := "."
	if fromPath != "" {
		dir = filepath.Dir(fromPath)
	}
	out = append(out, filepath.Join(dir, withExt))
	for _, sp := range r.searchPaths {
		out = append(out, filepath.Join(sp, withExt))
	}
	return out
}
