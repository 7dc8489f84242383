package util

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// PathFilter decides which directories are skipped and which files are
// linted. Directory patterns match the directory's base name; file
// patterns match either the base name or the slash-separated path.
type PathFilter struct {
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	extensions   map[string]bool
}

func NewPathFilter(excludeDirs, excludeFiles, extensions []string) (*PathFilter, error) {
	f := &PathFilter{extensions: make(map[string]bool, len(extensions))}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		f.excludeDirs = append(f.excludeDirs, g)
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(NormalizePatternPath(pattern), '/')
		if err != nil {
			return nil, err
		}
		f.excludeFiles = append(f.excludeFiles, g)
	}
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized != "" {
			f.extensions[normalized] = true
		}
	}
	return f, nil
}

func (f *PathFilter) ExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range f.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Accept reports whether path has a lintable extension and is not
// excluded.
func (f *PathFilter) Accept(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if len(f.extensions) > 0 && !f.extensions[ext] {
		return false
	}

	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, g := range f.excludeFiles {
		if g.Match(base) || g.Match(slashed) {
			return false
		}
	}
	return true
}

// InExcludedDir reports whether any directory component of path is
// excluded.
func (f *PathFilter) InExcludedDir(path string) bool {
	dir := filepath.Dir(filepath.Clean(path))
	for {
		if dir == "." || dir == string(filepath.Separator) || dir == filepath.VolumeName(dir)+string(filepath.Separator) {
			return false
		}
		if f.ExcludeDir(dir) {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
