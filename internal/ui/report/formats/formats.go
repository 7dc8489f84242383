// Package formats renders lint results for terminals, tools and CI.
package formats

import (
	"path/filepath"
	"sort"

	"hooklint/internal/core/errors"
	"hooklint/internal/core/ports"
	"hooklint/internal/engine/lint"
)

// Options carries what formatters need beyond the run result.
type Options struct {
	// ProjectRoot anchors relative paths in sarif and diff output.
	ProjectRoot string
	// Rules supplies descriptions and doc links for sarif output.
	Rules map[string]*lint.Rule
	Color bool
}

type Formatter func(result ports.RunResult, opts Options) ([]byte, error)

var registry = map[string]Formatter{
	"stylish": Stylish,
	"json":    JSON,
	"sarif":   GenerateSARIF,
	"diff":    Diff,
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Get(name string) (Formatter, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.Newf(errors.CodeNotSupported, "unknown format %q (want one of %v)", name, Names())
	}
	return f, nil
}

// relativePath makes path relative to projectRoot with forward slashes.
// Paths outside the root are kept as they are.
func relativePath(projectRoot, path string) string {
	if projectRoot != "" {
		abs, err := filepath.Abs(path)
		if err == nil {
			if rel, err := filepath.Rel(projectRoot, abs); err == nil && !isOutside(rel) {
				path = rel
			}
		}
	}
	return filepath.ToSlash(path)
}

func isOutside(rel string) bool {
	return rel == ".." || len(rel) > 3 && rel[:3] == ".."+string(filepath.Separator)
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
